package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New はサービス名付きの構造化ロガーを作る。
// LOG_FORMAT=console のときだけ人間向けの出力にする。
func New(serviceName string, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out = zerolog.New(os.Stdout)
	if os.Getenv("LOG_FORMAT") == "console" {
		out = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}

	return out.
		With().
		Timestamp().
		Str("service", serviceName).
		Logger().
		Level(parseLevel(level))
}

func parseLevel(value string) zerolog.Level {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(s); err == nil {
		return lvl
	}
	return zerolog.InfoLevel
}
