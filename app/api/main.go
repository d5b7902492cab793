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

	"github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/base/database/mongoclient"
	"github.com/shadowlabs-sol/shadow/base/log"
	bValidator "github.com/shadowlabs-sol/shadow/base/validator"
	mmiddleware "github.com/shadowlabs-sol/shadow/middleware"
	"github.com/shadowlabs-sol/shadow/service/query"
	auction_delivery "github.com/shadowlabs-sol/shadow/stores/auction/delivery/http"
	auction_repository "github.com/shadowlabs-sol/shadow/stores/auction/repository"
	auction_usecase "github.com/shadowlabs-sol/shadow/stores/auction/usecase"
	batch_delivery "github.com/shadowlabs-sol/shadow/stores/batch/delivery/http"
	batch_repository "github.com/shadowlabs-sol/shadow/stores/batch/repository"
	batch_usecase "github.com/shadowlabs-sol/shadow/stores/batch/usecase"
	event_repository "github.com/shadowlabs-sol/shadow/stores/event/repository"
	protocol_delivery "github.com/shadowlabs-sol/shadow/stores/protocol/delivery/http"
	protocol_repository "github.com/shadowlabs-sol/shadow/stores/protocol/repository"
	protocol_usecase "github.com/shadowlabs-sol/shadow/stores/protocol/usecase"
	settlement_usecase "github.com/shadowlabs-sol/shadow/stores/settlement/usecase"
	vault_delivery "github.com/shadowlabs-sol/shadow/stores/vault/delivery/http"
	vault_repository "github.com/shadowlabs-sol/shadow/stores/vault/repository"
)

func init() {
	configFile := pflag.String("config", "infra/configs/config.yaml", "path to config file")
	pflag.Parse()
	viper.BindPFlags(pflag.CommandLine)

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	if err := viper.ReadInConfig(); err != nil {
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

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// construct repository, usecase and delivery
	auctionRepo := auction_repository.NewAuctionRepo(q)
	bidRepo := auction_repository.NewBidRepo(q)
	batchRepo := batch_repository.NewBatchRepo(q)
	protocolRepo := protocol_repository.NewProtocolRepo(q)
	vaultService := vault_repository.NewVaultRepo(q)
	emitter := event_repository.NewEventRepo(q)

	gracePeriod := viper.GetDuration("auction.gracePeriod")

	auctionUseCase := auction_usecase.New(&auction_usecase.AuctionUseCaseCfg{
		AuctionRepo:  auctionRepo,
		BidRepo:      bidRepo,
		ProtocolRepo: protocolRepo,
		Vault:        vaultService,
		Emitter:      emitter,
		GracePeriod:  gracePeriod,
	})
	settlementUseCase := settlement_usecase.New(&settlement_usecase.SettlementUseCaseCfg{
		AuctionRepo:  auctionRepo,
		ProtocolRepo: protocolRepo,
		Vault:        vaultService,
		Emitter:      emitter,
	})
	batchUseCase := batch_usecase.New(&batch_usecase.BatchUseCaseCfg{
		BatchRepo:    batchRepo,
		AuctionRepo:  auctionRepo,
		ProtocolRepo: protocolRepo,
		Emitter:      emitter,
	})
	protocolUseCase := protocol_usecase.New(&protocol_usecase.ProtocolUseCaseCfg{
		ProtocolRepo: protocolRepo,
	})

	auction_delivery.New(e, auctionUseCase, settlementUseCase)
	batch_delivery.New(e, batchUseCase)
	protocol_delivery.New(e, protocolUseCase)
	vault_delivery.New(e, vaultService)

	e.GET("/check", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{"status": "ok"})
	})

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
