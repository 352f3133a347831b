package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"apw/solutions/internal/cache"
	"apw/solutions/internal/config"
	"apw/solutions/internal/render"
	"apw/solutions/internal/server"
	"apw/solutions/internal/service"
	"apw/solutions/internal/store"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config  *config.Config
	Store   store.ContentStore
	Service *service.Service
	Server  *server.Server

	httpServer *http.Server
	db         *pgxpool.Pool
	redis      *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	if cfg.Logging.Debug {
		log.SetLevel(log.DebugLevel)
	}

	container := &Container{
		Config: cfg,
	}

	// Content store collaborator
	switch cfg.Content.Source {
	case "rest":
		container.Store = store.NewRESTStore(store.RESTConfig{
			BaseURL:              cfg.Content.BaseURL,
			Timeout:              cfg.Content.Timeout,
			MaxRetries:           cfg.Content.MaxRetries,
			MaxRequestsPerSecond: cfg.Content.MaxRequestsPerSecond,
		})
	default:
		db, err := pgxpool.New(context.Background(),
			fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				cfg.Database.Host,
				cfg.Database.Port,
				cfg.Database.User,
				cfg.Database.Password,
				cfg.Database.Name,
			))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		container.db = db
		container.Store = store.NewPostgresStore(db)
	}

	// Category cache backend
	var cacheStore cache.Store
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("Connected to Redis successfully")
		container.redis = rdb
		cacheStore = cache.NewRedisStore(rdb)
	} else {
		cacheStore = cache.NewMemoryStore()
	}

	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	container.Service = service.New(container.Store, cacheStore, ttl, clock.New())

	nonce := server.NewNonceService(cfg.Security.Secret, 24*time.Hour, clock.New())
	container.Server = server.New(container.Service, render.New(), nonce, cfg.Logging.Debug)

	container.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           container.Server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return container, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("Listening on %s", c.httpServer.Addr)
		if err := c.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return c.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	// Teardown clears the category cache; the next start recomputes.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Service.InvalidateCategories(ctx); err != nil {
		log.Warnf("Failed to clear category cache on shutdown: %v", err)
	}

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warnf("Failed to close Redis client: %v", err)
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
