package app

import (
	"context"
	"fmt"

	"github.com/portal-eventos/portal-api/api"
	"github.com/portal-eventos/portal-api/config"
	"github.com/portal-eventos/portal-api/database"
	"github.com/portal-eventos/portal-api/router"
	"github.com/portal-eventos/portal-api/utils"
	"github.com/portal-eventos/portal-api/utils/cache"
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

	utils.InitLogger(getEnv.LOG_LEVEL)
	log := utils.Default()

	// Initialize database connection
	store, err := database.Open(getEnv)
	if err != nil {
		log.WithError(err).Errorf("Could not connect to the %s database (backend %s)", getEnv.DB_DRIVER, getEnv.DB_BACKEND)
		return err
	}

	// Defer Closing DB
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("Failed to close database")
		}
	}()

	if err := store.Init(); err != nil {
		log.WithError(err).Error("Failed to initialize database tables")
		return err
	}

	// Redis is optional
	var redisCache *cache.RedisCache
	if getEnv.REDIS_URL != "" {
		redisCache, err = cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.WithError(err).Warn("Failed to connect to Redis")
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT), getEnv.BODY_LIMIT_MB)

	// Setup Routes
	if err := router.SetupRoutes(server.GetEngine(), store, getEnv, redisCache); err != nil {
		return err
	}

	return server.Run(context.Background())
}
