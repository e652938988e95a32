package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	kitapi "gitlab.com/Cacophony/go-kit/api"
	"gitlab.com/Cacophony/go-kit/errortracking"
	"gitlab.com/Cacophony/go-kit/logging"
	"go.uber.org/zap"

	"github.com/bf2-milsims/census/api"
	"github.com/bf2-milsims/census/metrics"
	"github.com/bf2-milsims/census/milsims"
	"github.com/bf2-milsims/census/pkg/discord"
	"github.com/bf2-milsims/census/pkg/iconcolor"
	"github.com/bf2-milsims/census/pkg/scheduler"
	"github.com/bf2-milsims/census/plugins"
	"github.com/bf2-milsims/census/plugins/common"
	"github.com/bf2-milsims/census/roadmap"
)

const (
	// ServiceName is the name of the service
	ServiceName = "directory"
)

func main() {
	// init config
	var config config
	err := envconfig.Process("", &config)
	if err != nil {
		panic(errors.Wrap(err, "unable to load configuration"))
	}
	config.ErrorTracking.Version = config.Hash
	config.ErrorTracking.Environment = config.ClusterEnvironment

	// init logger
	logger, err := logging.NewLogger(
		config.Environment,
		ServiceName,
		config.LoggingDiscordWebhook,
		&http.Client{
			Timeout: 10 * time.Second,
		},
	)
	if err != nil {
		panic(errors.Wrap(err, "unable to initialise logger"))
	}
	defer logger.Sync() // nolint: errcheck

	// init raven
	err = errortracking.Init(&config.ErrorTracking)
	if err != nil {
		logger.Error("unable to initialise errortracking",
			zap.Error(err),
		)
	}

	metrics.Init()

	// init GORM
	gormDB, err := gorm.Open("postgres", config.DBDSN)
	if err != nil {
		logger.Fatal("unable to initialise GORM session",
			zap.Error(err),
		)
	}
	defer gormDB.Close()

	err = milsims.Migrate(gormDB)
	if err != nil {
		logger.Fatal("unable to migrate milsims",
			zap.Error(err),
		)
	}
	err = roadmap.Migrate(gormDB)
	if err != nil {
		logger.Fatal("unable to migrate roadmap",
			zap.Error(err),
		)
	}

	// init redis, optional; without it the refresh lock lives in Postgres
	var redisClient *redis.Client
	var locker milsims.Locker
	if config.RedisAddress != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     config.RedisAddress,
			Password: config.RedisPassword,
		})
		_, err = redisClient.Ping().Result()
		if err != nil {
			logger.Fatal("unable to connect to Redis",
				zap.Error(err),
			)
		}
		defer redisClient.Close()

		locker = milsims.NewRedisLocker(redisClient)
	} else {
		locker = milsims.NewDBLocker(gormDB.DB())
	}

	// init discord
	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}
	resolver, err := discord.NewResolver(httpClient, config.DiscordToken)
	if err != nil {
		logger.Fatal("unable to initialise Discord resolver",
			zap.Error(err),
		)
	}
	colors := iconcolor.NewExtractor(httpClient)

	// init milsims
	repo := milsims.NewRepo(gormDB)
	refresher := milsims.NewRefresher(
		logger.With(zap.String("feature", "refresher")),
		repo,
		resolver,
		colors,
		locker,
	)
	submissions := milsims.NewSubmissions(
		logger.With(zap.String("feature", "submissions")),
		repo,
		resolver,
		colors,
	)
	visit := milsims.VisitOptions{
		LockKey:     milsims.DirectoryLockKey,
		MinInterval: config.RefreshLockInterval,
		Batch: milsims.BatchOptions{
			Limit:  config.RefreshBatchLimit,
			MinAge: config.RefreshMinAge,
		},
	}

	// init plugins and scheduler
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var started []plugins.Plugin
	if config.RefreshInterval > 0 {
		started = plugins.StartPlugins(
			logger.With(zap.String("feature", "start_plugins")),
			common.StartParameters{
				Refresher: refresher,
				Refresh:   visit,
			},
		)

		sched := scheduler.NewScheduler(
			logger.With(zap.String("feature", "scheduler")),
			started,
			config.RefreshInterval,
		)
		go sched.Start(ctx)
	}

	// init http server
	service, err := api.New(
		logger.With(zap.String("feature", "api")),
		api.Config{
			SiteURL:        config.SiteURL,
			CronSecret:     config.CronSecret,
			RefreshOnVisit: config.RefreshOnVisit,
			Visit:          visit,
		},
		repo,
		refresher,
		submissions,
		roadmap.NewRepo(gormDB),
	)
	if err != nil {
		logger.Fatal("unable to initialise API",
			zap.Error(err),
		)
	}
	if config.CronSecret == "" {
		logger.Warn("CRON_SECRET is not set, the cron endpoint rejects all requests")
	}

	httpServer := kitapi.NewHTTPServer(config.Port, service.Router())

	go func() {
		err := httpServer.ListenAndServe()
		if err != http.ErrServerClosed {
			logger.Fatal("http server error",
				zap.Error(err),
				zap.String("feature", "http-server"),
			)
		}
	}()

	logger.Info("service is running",
		zap.Int("port", config.Port),
		zap.Duration("refresh_interval", config.RefreshInterval),
		zap.Bool("refresh_on_visit", config.RefreshOnVisit),
	)

	// wait for CTRL+C to stop the service
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-quitChannel

	// shutdown features
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second*15)
	defer shutdownCancel()

	plugins.StopPlugins(
		logger.With(zap.String("feature", "stop_plugins")),
		started,
		common.StopParameters{},
	)

	err = httpServer.Shutdown(shutdownCtx)
	if err != nil {
		logger.Error("unable to shutdown HTTP Server",
			zap.Error(err),
		)
	}
}
