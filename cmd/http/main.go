package main

import (
	"context"
	"expvar"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/hilthontt/voicelink/internal/infrastructure/configs"
	"github.com/hilthontt/voicelink/internal/infrastructure/events"
	"github.com/hilthontt/voicelink/internal/infrastructure/logging"
	"github.com/hilthontt/voicelink/internal/infrastructure/messaging"
	"github.com/hilthontt/voicelink/internal/infrastructure/metrics"
	"github.com/hilthontt/voicelink/internal/infrastructure/ratelimiter"
	"github.com/hilthontt/voicelink/internal/infrastructure/tracing"
	"github.com/hilthontt/voicelink/internal/infrastructure/ws"
	"github.com/hilthontt/voicelink/internal/presentation/api"
	"github.com/hilthontt/voicelink/internal/presentation/handler/health"
	"github.com/hilthontt/voicelink/internal/presentation/handler/rooms"
	signalHandler "github.com/hilthontt/voicelink/internal/presentation/handler/signal"
)

const (
	serviceName = "voicelink-signaling"
)

func main() {
	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(logging.NewConfig(cfg.Logger))
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer := tracing.NoopShutdown
	if cfg.Tracing.Enabled {
		shutdownTracer, err = tracing.InitTracer(ctx, tracing.NewConfig(serviceName, cfg.Tracing))
		if err != nil {
			logger.Fatal(logging.General, logging.Startup, "failed to initialize the tracer", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
		}
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(shutdownCtx)
	}()

	m := metrics.New()

	var sink ws.EventSink
	if cfg.Events.Enabled {
		rabbitmq, err := messaging.NewRabbitMQ(cfg.Events.RabbitMQURI, cfg.Events.Exchange)
		if err != nil {
			logger.Fatal(logging.RabbitMQ, logging.Startup, "failed to connect to RabbitMQ", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
		}
		defer rabbitmq.Close()

		logger.Info(logging.RabbitMQ, logging.Startup, "publishing room events", map[logging.ExtraKey]any{
			"exchange": cfg.Events.Exchange,
		})

		queue := events.NewQueue(events.NewRoomPublisher(rabbitmq), cfg.Events.QueueSize, logger)
		queue.OnDrop(m.EventsDropped.Inc)
		go queue.Run(ctx)
		sink = queue
	}

	core := ws.NewCore(ws.Options{
		CodeLength:    cfg.Signaling.CodeLength,
		SweepInterval: cfg.Signaling.SweepInterval,
		Logger:        logger,
		Metrics:       m,
		Events:        sink,
	})
	go core.Run(ctx)

	rl, err := ratelimiter.New(ratelimiter.Options{
		MaxRatePerSecond: cfg.RateLimiter.MaxRatePerSecond,
		MaxBurst:         cfg.RateLimiter.MaxBurst,
		CacheTTL:         cfg.RateLimiter.CacheTTL,
		SourceHeaderKey:  cfg.RateLimiter.SourceHeaderKey,
	})
	if err != nil {
		logger.Fatal(logging.General, logging.Startup, "invalid rate limiter config", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}
	defer rl.Close()

	clientOptions := ws.ClientOptions{
		SendBuffer:        cfg.Signaling.SendBuffer,
		MaxMessageBytes:   cfg.Signaling.MaxMessageBytes,
		MessagesPerSecond: cfg.Signaling.MessagesPerSecond,
		MessageBurst:      cfg.Signaling.MessageBurst,
		WriteWait:         cfg.Signaling.WriteWait,
		PongWait:          cfg.Signaling.PongWait,
	}

	app := api.NewApplication(
		*cfg,
		rooms.NewHandler(core, logger),
		health.NewHandler(core),
		signalHandler.NewHandler(core, clientOptions, cfg.HTTP.AllowedOrigins, logger),
		logger,
		m,
		rl,
	)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	if err := app.Run(ctx, app.Mount()); err != nil {
		logger.Fatal(logging.General, logging.Startup, "server error", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}
}
