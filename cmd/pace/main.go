package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/propace/pace/internal/capability"
	"github.com/propace/pace/internal/collaborator/carter"
	"github.com/propace/pace/internal/collaborator/news"
	"github.com/propace/pace/internal/collaborator/weather"
	"github.com/propace/pace/internal/config"
	"github.com/propace/pace/internal/handler"
	dispatchHandler "github.com/propace/pace/internal/handler/dispatch"
	dispatchService "github.com/propace/pace/internal/service/dispatch"
	"github.com/propace/pace/internal/service/reply"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	carterClient := carter.NewClient(cfg.Carter)

	var weatherClient *weather.Client
	if cfg.Weather.Enabled() {
		weatherClient = weather.NewClient(cfg.Weather)
	} else {
		log.Println("weather collaborator not configured, replies keep their placeholders")
	}

	var newsClient *news.Client
	if cfg.News.Enabled() {
		newsClient = news.NewClient(cfg.News)
	} else {
		log.Println("news collaborator not configured, news intents fall back to base replies")
	}

	caps := probeCollaborators(ctx, carterClient, weatherClient, newsClient)
	log.Printf("starting PACE (chat=%t weather=%t news=%t)", caps.Chat, caps.Weather, caps.News)

	if caps.News && newsClient != nil {
		if err := newsClient.WriteSnapshot(ctx); err != nil {
			log.Printf("warning: news snapshot failed: %v", err)
		}
	}

	// Nil-pointer clients must become nil interfaces, not typed nils.
	var weatherCollab reply.WeatherClient
	if weatherClient != nil {
		weatherCollab = weatherClient
	}
	var newsCollab reply.NewsClient
	if newsClient != nil {
		newsCollab = newsClient
	}

	replySvc := reply.NewService(carterClient, weatherCollab, newsCollab, caps)
	registry := dispatchService.NewRegistry()
	dispatcher := dispatchHandler.New(registry, replySvc)

	router := handler.NewRouter(dispatcher, caps)

	startServer(ctx, cfg.Server, router)
}

// probeCollaborators runs the startup health-check table in a fixed order and
// folds the outcomes into one immutable capability snapshot.
func probeCollaborators(ctx context.Context, carterClient *carter.Client, weatherClient *weather.Client, newsClient *news.Client) capability.Capabilities {
	checks := []capability.Check{
		{
			Name: capability.Chat,
			Probe: func(ctx context.Context) error {
				_, err := carterClient.Complete(ctx, "hello")
				return err
			},
		},
		{Name: capability.Weather},
		{Name: capability.News},
	}

	if weatherClient != nil {
		checks[1].Probe = func(ctx context.Context) error {
			_, err := weatherClient.Current(ctx)
			return err
		}
	}
	if newsClient != nil {
		checks[2].Probe = func(ctx context.Context) error {
			_, err := newsClient.Headlines(ctx)
			return err
		}
	}

	return capability.FromResults(capability.Run(ctx, checks))
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("PACE dispatch server listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
