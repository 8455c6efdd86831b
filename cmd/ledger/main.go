package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/absmach/fledger"
	"github.com/absmach/fledger/ledger"
	"github.com/absmach/fledger/ledger/api"
	"github.com/absmach/fledger/ledger/middleware"
	"github.com/absmach/fledger/pkg/mqtt"
	"github.com/absmach/fledger/pkg/prometheus"
	"github.com/absmach/fledger/pkg/server"
	httpserver "github.com/absmach/fledger/pkg/server/http"
	"github.com/absmach/fledger/pkg/storage"
	"github.com/absmach/fledger/pkg/tracing"
	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

const (
	svcName       = "ledger"
	defHTTPPort   = "7070"
	envPrefixHTTP = "LEDGER_HTTP_"
	pathEnv       = ".env"
)

type envConfig struct {
	LogLevel    string        `env:"LEDGER_LOG_LEVEL"    envDefault:"info"`
	InstanceID  string        `env:"LEDGER_INSTANCE_ID"`
	ConfigPath  string        `env:"LEDGER_CONFIG_PATH"`
	MQTTAddress string        `env:"LEDGER_MQTT_ADDRESS"`
	MQTTQoS     uint8         `env:"LEDGER_MQTT_QOS"     envDefault:"2"`
	MQTTTimeout time.Duration `env:"LEDGER_MQTT_TIMEOUT" envDefault:"30s"`
	BaseTopic   string        `env:"LEDGER_BASE_TOPIC"   envDefault:"fl/history"`
	OTELURL     url.URL       `env:"LEDGER_OTEL_URL"`
	TraceRatio  float64       `env:"LEDGER_TRACE_RATIO"  envDefault:"0"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	if _, err := os.Stat(pathEnv); err == nil {
		_ = godotenv.Load(pathEnv)
	}

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load configuration : %s", err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	var tp trace.TracerProvider
	switch {
	case cfg.OTELURL == (url.URL{}):
		tp = noop.NewTracerProvider()
	default:
		sdktp, err := tracing.NewProvider(ctx, svcName, cfg.OTELURL, cfg.TraceRatio)
		if err != nil {
			logger.Error("failed to initialize opentelemetry", slog.String("error", err.Error()))

			return
		}
		defer func() {
			if err := sdktp.Shutdown(ctx); err != nil {
				logger.Error("error shutting down tracer provider", slog.Any("error", err))
			}
		}()
		tp = sdktp
	}
	tracer := tp.Tracer(svcName)

	var username, password string
	baseTopic := cfg.BaseTopic
	if cfg.ConfigPath != "" {
		fileCfg, err := fledger.LoadConfig(cfg.ConfigPath)
		if err != nil {
			logger.Error("failed to load config file", slog.String("error", err.Error()))

			return
		}
		username = fileCfg.Ledger.Username
		password = fileCfg.Ledger.Password
		if fileCfg.Ledger.BaseTopic != "" {
			baseTopic = fileCfg.Ledger.BaseTopic
		}
	}

	var mqttPubSub mqtt.PubSub
	if cfg.MQTTAddress != "" {
		ps, err := mqtt.NewPubSub(mqtt.Config{
			URL:      cfg.MQTTAddress,
			ClientID: svcName,
			Username: username,
			Password: password,
			QoS:      cfg.MQTTQoS,
			Timeout:  cfg.MQTTTimeout,
		}, logger)
		if err != nil {
			logger.Error("failed to initialize mqtt pubsub", slog.String("error", err.Error()))

			return
		}
		mqttPubSub = ps
	}

	svc := ledger.NewService(
		storage.NewInMemoryStorage(),
		storage.NewInMemoryStorage(),
		mqttPubSub,
		baseTopic,
		logger,
	)
	svc = middleware.Logging(logger, svc)
	svc = middleware.Tracing(tracer, svc)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = middleware.Metrics(counter, latency, svc)

	if mqttPubSub != nil {
		if err := svc.Subscribe(ctx, svc); err != nil {
			logger.Error("failed to subscribe to history topics", slog.String("error", err.Error()))

			return
		}
	}

	httpServerConfig := server.Config{Port: defHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err.Error()))

		return
	}

	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(svc, logger, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service exited with error: %s", svcName, err))
	}
}
