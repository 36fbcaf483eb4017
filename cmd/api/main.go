package main

import (
	"ezstore/internal/cache"
	"ezstore/internal/config"
	"ezstore/internal/domain/model"
	"ezstore/internal/handler"
	"ezstore/internal/infra/db"
	infraRepo "ezstore/internal/infra/repository"
	"ezstore/internal/logger"
	"ezstore/internal/paypal"
	"ezstore/internal/server"
	"ezstore/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	//ローカルでは.envを読む（無ければ環境変数だけで動く）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New("ezstore-api", cfg.LogLevel)

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	//商品キャッシュ（Redis）
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	productCache := cache.NewRedisProductCache(redisClient)

	//決済プロバイダ
	var paypalOpts []paypal.Option
	if cfg.PayPalBaseURL != "" {
		paypalOpts = append(paypalOpts, paypal.WithBaseURL(cfg.PayPalBaseURL))
	}
	gateway, err := paypal.NewClient(cfg.PayPalClientID, cfg.PayPalSecret, paypalOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("paypal client init failed")
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, log)
	userUC := usecase.NewUserUsecase(userRepo, log)
	productUC := usecase.NewProductUsecase(productRepo, productCache, log)
	cartUC := usecase.NewCartUsecase(txManager, cartRepo, cartItemRepo, productCache, log)
	orderUC := usecase.NewOrderUsecase(
		txManager,
		orderRepo,
		orderItemRepo,
		cartRepo,
		cartItemRepo,
		userRepo,
		gateway,
		log,
	)

	//Handler生成
	h := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		User:         handler.NewUserHandler(userUC),
		Product:      handler.NewProductHandler(productUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(orderUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		AdminOrder:   handler.NewAdminOrderHandler(orderUC),
	}

	//Server起動
	e := server.New(cfg, log, h)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	log.Info().Str("addr", addr).Msg("server starting")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
