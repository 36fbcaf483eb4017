package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// 決済プロバイダ側の結果。
// intent作成時にIDだけ入れたプレースホルダを保存し、capture成功時に全項目が埋まる。
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	EmailAddress string `json:"email_address"`
	PricePaid    string `json:"price_paid"`
}

func (p PaymentResult) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *PaymentResult) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("payment result: unsupported scan type %T", value)
	}
}
