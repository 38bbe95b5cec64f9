package app

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ton-education/backend/api"
	"github.com/ton-education/backend/config"
	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/router"
	"github.com/ton-education/backend/services/cron"
	"github.com/ton-education/backend/services/ton"
	"github.com/ton-education/backend/utils/cache"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Seed reference data (referral tiers, admin user, starter courses)
	if err := database.RunSeeds(store); err != nil {
		log.Printf("Warning: seeding failed: %v", err)
	}

	// Redis is optional; without it the leaderboard recomputes per request
	// and brute force protection is disabled.
	var redisCache *cache.RedisCache
	if getEnv.REDIS_URL != "" {
		redisCache, err = cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.Printf("Warning: failed to connect to Redis: %v", err)
			redisCache = nil
		}
	}

	// Simulated TON ledger signs nothing; it fakes transfers and SBT mints
	// with a short confirmation delay.
	ledger := ton.NewSimulatedLedger(ton.Config{
		WalletAddress: getEnv.TON_WALLET_ADDRESS,
		WalletKey:     getEnv.TON_WALLET_KEY,
		Network:       getEnv.TON_NETWORK,
		Latency:       500 * time.Millisecond,
	})

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes (also builds the engines)
	svcs := router.SetupRoutes(app, router.Dependencies{
		Store:  store,
		Ledger: ledger,
		Cache:  redisCache,
		Env:    getEnv,
	})

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		cronManager = cron.NewCronManager(store.DB(), svcs.Leaderboard)
		if err := cronManager.Start(); err != nil {
			log.Printf("Warning: failed to start cron jobs: %v", err)
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if redisCache != nil {
			redisCache.Close()
		}
		store.Close()
	}()

	// Get the PORT & Start the Server
	return server.Run()
}
