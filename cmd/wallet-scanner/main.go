package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/handlers/cli"
	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/infra/ledger/solana"
	filestorage "github.com/chimkhongcanhcut-stack/wallet-scanner/internal/infra/storage/file"
	redisstorage "github.com/chimkhongcanhcut-stack/wallet-scanner/internal/infra/storage/redis"
	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/pkg/logger"
	transporthttp "github.com/chimkhongcanhcut-stack/wallet-scanner/internal/pkg/transport/http"
	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/pkg/transport/jsonrpc"
	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/profile"
	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/scan"
)

// Config is populated from the environment. REDIS_ADDR switches persistence
// from the local state file to Redis.
type Config struct {
	RPCURL     string        `envconfig:"RPC_URL" required:"true"`
	RPCTimeout time.Duration `envconfig:"RPC_TIMEOUT" default:"20s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisUsername string `envconfig:"REDIS_USERNAME"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB"`

	StateFile string `envconfig:"STATE_FILE" default:"state.json"`

	ScanConcurrency int    `envconfig:"SCAN_CONCURRENCY" default:"2"`
	Profile         string `envconfig:"SCAN_PROFILE" default:"default"`
}

// storage is the intersection of the persistence interfaces both backends
// provide.
type storage interface {
	scan.FactStorage
	profile.Storage
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Init()
		logger.Fatal(ctx, "failed to load configuration", "error", err)
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		logger.Fatal(ctx, "failed to initialize logger", "error", err)
	}
	defer logger.Sync()

	var store storage
	if cfg.RedisAddr != "" {
		redisClient, err := redisstorage.NewClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal(ctx, "failed to connect to redis", "error", err)
		}
		defer redisClient.Close()

		store = redisClient
	} else {
		store = filestorage.NewStore(ctx, cfg.StateFile)
	}

	httpClient := transporthttp.NewClient(transporthttp.WithTimeout(cfg.RPCTimeout))
	ledger := solana.NewClient(jsonrpc.NewClient(httpClient, cfg.RPCURL))

	scanSvc := scan.New(ledger, store, scan.WithConcurrency(cfg.ScanConcurrency))
	profSvc := profile.New(store, cfg.Profile)

	if err := cli.Run(ctx, scanSvc, profSvc); err != nil {
		logger.Fatal(ctx, "command failed", "error", err)
	}
}
