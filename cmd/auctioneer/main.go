package main

import (
	"context"
	"flag"
	"os"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctioneer"
	"github.com/agentbid/auction/auctionrunner"
	"github.com/agentbid/auction/auctiontypes"
	"github.com/agentbid/auction/authn"
	"github.com/agentbid/auction/communication/eventhub"
	"github.com/agentbid/auction/communication/http/auction_http_handlers"
	"github.com/agentbid/auction/communication/http/routes"
	"github.com/agentbid/auction/config"
	"github.com/agentbid/auction/persistence"
	"github.com/agentbid/auction/persistence/pgstore"
	"github.com/agentbid/auction/policy"
	"github.com/agentbid/auction/registry"
	"github.com/tedsuo/ifrit"
	"github.com/tedsuo/ifrit/grouper"
	"github.com/tedsuo/ifrit/http_server"
	"github.com/tedsuo/ifrit/sigmon"
	"github.com/tedsuo/rata"
)

var configPath = flag.String("config", "", "path to a yaml config file (default ./auctioneer.yaml if present)")

const shutdownTimeout = 30 * time.Second

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.LogLevel)
	ctx := context.Background()

	store, closeStore := openAuctionStore(ctx, logger, cfg.Database)
	defer closeStore()

	models, err := cfg.Models.OpenModelStore(ctx, logger)
	if err != nil {
		logger.Fatal("failed-to-open-model-store", err)
	}

	pool, err := policy.NewPool(logger, models, cfg.Policy, cfg.Models.PoolSize)
	if err != nil {
		logger.Fatal("failed-to-create-policy-pool", err)
	}

	hub := eventhub.New(logger)

	clk := clock.NewClock()
	reg := registry.New(logger, clk, store, hub, registry.NewAgentBook())
	round := auctionrunner.NewRound(logger, clk, reg, auctionrunner.FromPool(pool), store, hub, cfg.RoundInterval)
	scheduler := auctionrunner.NewScheduler(logger, clk, reg, round, cfg.RoundInterval)
	a := auctioneer.New(logger, reg, scheduler, round, store, pool)

	if cfg.RestoreOnBoot {
		restored, err := a.Restore(ctx)
		if err != nil {
			logger.Error("failed-to-restore", err)
		} else {
			logger.Info("restored-auctions", lager.Data{"count": restored})
		}
	}

	handler, err := rata.NewRouter(routes.Routes, auction_http_handlers.New(a, newVerifier(logger, cfg.Auth), hub, logger))
	if err != nil {
		logger.Fatal("failed-to-build-router", err)
	}

	members := grouper.Members{
		{Name: "scheduler", Runner: scheduler},
		{Name: "http-server", Runner: http_server.New(cfg.Listen, handler)},
	}

	process := ifrit.Invoke(sigmon.New(grouper.NewOrdered(os.Interrupt, members)))
	logger.Info("started", lager.Data{"listen": cfg.Listen})

	err = <-process.Wait()

	saveCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if saveErr := pool.SaveAll(saveCtx); saveErr != nil {
		logger.Error("failed-to-save-policies", saveErr)
	}

	if err != nil {
		logger.Error("exited-with-failure", err)
		closeStore()
		os.Exit(1)
	}
	logger.Info("exited")
}

func newLogger(level string) lager.Logger {
	minLevel, err := lager.LogLevelFromString(level)
	if err != nil {
		minLevel = lager.INFO
	}
	logger := lager.NewLogger("auctioneer")
	logger.RegisterSink(lager.NewWriterSink(os.Stdout, minLevel))
	return logger
}

func openAuctionStore(ctx context.Context, logger lager.Logger, db config.DatabaseConfig) (auctiontypes.AuctionStore, func()) {
	if db.URL == "" {
		logger.Info("running-without-persistence")
		return persistence.NullStore{}, func() {}
	}

	store, err := pgstore.Connect(ctx, logger, db.URL)
	if err != nil {
		logger.Fatal("failed-to-connect-to-database", err)
	}
	if db.Migrate {
		if err := store.Migrate(ctx); err != nil {
			logger.Fatal("failed-to-migrate", err)
		}
	}
	return store, store.Close
}

func newVerifier(logger lager.Logger, auth config.AuthConfig) auctiontypes.Verifier {
	if auth.URL != "" {
		return authn.NewRemoteVerifier(logger, auth.URL, auth.APIKey, auth.Timeout)
	}
	logger.Info("using-static-tokens", lager.Data{"count": len(auth.StaticTokens)})
	return authn.StaticVerifier(auth.StaticTokens)
}
