package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/database/mongoclient"
	"github.com/tokenfront/goapi/base/database/redisclient"
	"github.com/tokenfront/goapi/base/log"
	"github.com/tokenfront/goapi/base/metrics"
	bValidator "github.com/tokenfront/goapi/base/validator"
	mmiddleware "github.com/tokenfront/goapi/middleware"
	"github.com/tokenfront/goapi/service/feeclient"
	"github.com/tokenfront/goapi/service/orderbook"
	"github.com/tokenfront/goapi/service/query"
	"github.com/tokenfront/goapi/service/redis"
	asset_delivery "github.com/tokenfront/goapi/stores/asset/delivery/http"
	asset_repository "github.com/tokenfront/goapi/stores/asset/repository"
	asset_usecase "github.com/tokenfront/goapi/stores/asset/usecase"
	auth_delivery "github.com/tokenfront/goapi/stores/auth/delivery/http"
	authMiddleware "github.com/tokenfront/goapi/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/tokenfront/goapi/stores/auth/usecase"
	balance_delivery "github.com/tokenfront/goapi/stores/balance/delivery/http"
	balance_repository "github.com/tokenfront/goapi/stores/balance/repository"
	balance_usecase "github.com/tokenfront/goapi/stores/balance/usecase"
	currency_delivery "github.com/tokenfront/goapi/stores/currency/delivery/http"
	currency_repository "github.com/tokenfront/goapi/stores/currency/repository"
	currency_usecase "github.com/tokenfront/goapi/stores/currency/usecase"
	fees_delivery "github.com/tokenfront/goapi/stores/fees/delivery/http"
	fees_repository "github.com/tokenfront/goapi/stores/fees/repository"
	fees_usecase "github.com/tokenfront/goapi/stores/fees/usecase"
	hc_delivery "github.com/tokenfront/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/tokenfront/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/tokenfront/goapi/stores/healthcheck/usecase"
	offer_delivery "github.com/tokenfront/goapi/stores/offer/delivery/http"
	offer_repository "github.com/tokenfront/goapi/stores/offer/repository"
	offer_usecase "github.com/tokenfront/goapi/stores/offer/usecase"
)

func init() {
	configPath := pflag.String("config", "infra/configs/config.yaml", "path to config file")
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configPath)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	if agent := viper.GetString("datadog.agent"); agent != "" {
		metrics.SetAgent(agent)
	}

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient)

	// init Redis service
	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
		Retry:          true,
	})
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), &redis.Pools{
		Src: redisCachePool,
	})

	mmiddleware.SetupCache(redisCache)

	httpTimeout := viper.GetDuration("http.timeout")
	feeClient := feeclient.NewClient(&feeclient.ClientCfg{
		HttpClient: http.Client{},
		BaseUrl:    viper.GetString("fees.baseUrl"),
		Timeout:    httpTimeout,
	})
	orderbookClient := orderbook.NewClient(&orderbook.ClientCfg{
		HttpClient: http.Client{},
		BaseUrl:    viper.GetString("orderbook.baseUrl"),
		ApiKey:     viper.GetString("orderbook.apiKey"),
		Timeout:    httpTimeout,
	})

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCache)
	currencyRepo := currency_repository.New(q)
	balanceRepo := balance_repository.New(q)
	assetRepo := asset_repository.New(q)
	offerRepo := offer_repository.New(q)
	feeOverrideRepo := fees_repository.New(q)

	hc := hc_usecase.New(hcRepo)
	currency := currency_usecase.New(&currency_usecase.CurrencyUseCaseCfg{
		Repo: currencyRepo,
	})
	balance := balance_usecase.New(&balance_usecase.BalanceUseCaseCfg{
		BalanceRepo: balanceRepo,
		Currency:    currency,
	})
	asset := asset_usecase.New(&asset_usecase.AssetUseCaseCfg{
		Repo: assetRepo,
	})
	fees := fees_usecase.New(&fees_usecase.FeeUseCaseCfg{
		Repo:        feeOverrideRepo,
		Redis:       redisCache,
		DefaultRate: viper.GetInt64("fees.defaultRate"),
		CacheTtl:    viper.GetDuration("fees.cacheTtl"),
	})
	offer := offer_usecase.New(&offer_usecase.OfferUseCaseCfg{
		OfferRepo: offerRepo,
		Asset:     asset,
		Currency:  currency,
		Balance:   balance,
		Fees:      fees,
		Orderbook: orderbookClient,
		MaxExpiry: viper.GetDuration("offers.maxExpiry"),
	})
	quoteSession := offer_usecase.NewQuoteSession(&offer_usecase.QuoteSessionUseCaseCfg{
		FeeClient:  feeClient,
		Asset:      asset,
		Currency:   currency,
		Balance:    balance,
		Debounce:   viper.GetDuration("offers.quoteDebounce"),
		SessionTtl: viper.GetDuration("offers.sessionTtl"),
	})
	auth := auth_usecase.New(viper.GetString("auth.jwtSecret"))

	authMiddL := authMiddleware.New(auth)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth)
	currency_delivery.New(e, currency)
	balance_delivery.New(e, balance)
	asset_delivery.New(e, asset)
	fees_delivery.New(e, fees)
	offer_delivery.New(e, offer, quoteSession, authMiddL.Auth())

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
