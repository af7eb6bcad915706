package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/forgo/vidgram/internal/client"
	"github.com/forgo/vidgram/internal/config"
	"github.com/forgo/vidgram/internal/database"
	"github.com/forgo/vidgram/internal/model"
	"github.com/forgo/vidgram/internal/repository"
	"github.com/forgo/vidgram/internal/service"
	"github.com/forgo/vidgram/internal/session"
	"github.com/forgo/vidgram/pkg/jwt"
)

// app is everything a command needs once configuration is resolved
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer

	registry *prometheus.Registry
	api      *client.Client
	session  *session.Session

	auth     *service.AuthService
	tracker  *service.Tracker
	inbox    *service.RequestInbox
	profiles *service.ProfileService
	posts    *service.PostService

	closers []func() error
}

// newLogger builds the slog logger for the configured level and format
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// connect builds the client, token store, session and services, then
// restores any stored session
func (a *app) connect(ctx context.Context) error {
	a.registry = prometheus.NewRegistry()

	api, err := client.New(client.Config{
		BaseURL:   a.cfg.API.BaseURL,
		Timeout:   a.cfg.API.Timeout,
		RateLimit: a.cfg.API.RateLimit,
		RateBurst: a.cfg.API.RateBurst,
		UserAgent: a.cfg.API.UserAgent + "/" + version,
		Metrics:   client.NewMetrics(a.registry),
		Logger:    a.logger,
	})
	if err != nil {
		return err
	}
	a.api = api

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	decoder, err := jwt.NewDecoder(jwt.Config{
		PublicKeyPath: a.cfg.JWT.PublicKeyPath,
		Leeway:        a.cfg.JWT.Leeway,
	})
	if err != nil {
		return err
	}

	a.session = session.New(session.Config{
		Store:   store,
		Decoder: decoder,
		Logger:  a.logger,
	})
	if err := a.session.Restore(ctx); err != nil {
		return err
	}

	a.tracker = service.NewTracker(service.TrackerConfig{API: api, Logger: a.logger})
	a.auth = service.NewAuthService(service.AuthServiceConfig{
		API:      api,
		Session:  a.session,
		OnLogout: []func(){a.tracker.Clear},
		Logger:   a.logger,
	})
	a.inbox = service.NewRequestInbox(service.RequestInboxConfig{API: api, Logger: a.logger})
	a.profiles = service.NewProfileService(service.ProfileServiceConfig{API: api, Logger: a.logger})
	a.posts = service.NewPostService(service.PostServiceConfig{
		API:           api,
		MaxVideoBytes: a.cfg.MaxVideoBytes(),
		Logger:        a.logger,
	})
	return nil
}

// openStore opens the durable token store selected by configuration
func (a *app) openStore(ctx context.Context) (session.TokenStore, error) {
	sc := a.cfg.Session

	switch sc.Store {
	case config.StoreMemory:
		return repository.NewMemoryTokenStore(), nil

	case config.StoreFile:
		return repository.NewFileTokenStore(repository.FileTokenStoreConfig{
			Path:       sc.FilePath,
			Scope:      sc.Scope,
			Passphrase: sc.Passphrase,
		}), nil

	case config.StoreRedis:
		rc := a.cfg.Redis
		rdb := repository.NewRedisClient(rc.Addr, rc.Password, rc.DB)
		a.closers = append(a.closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return repository.NewRedisTokenStore(rdb, repository.RedisTokenStoreConfig{
			KeyPrefix: rc.KeyPrefix,
			Scope:     sc.Scope,
			TTL:       rc.TTL,
		}), nil

	case config.StoreSurreal:
		dc := a.cfg.Database
		db := database.NewSurrealDB(database.Config{
			Host:      dc.Host,
			Port:      dc.Port,
			User:      dc.User,
			Password:  dc.Password,
			Namespace: dc.Namespace,
			Database:  dc.Database,
		})
		if err := db.Connect(ctx); err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		if err := database.Migrate(ctx, db); err != nil {
			return nil, err
		}
		a.logger.Debug("connected to database",
			slog.String("host", dc.Host),
			slog.String("database", dc.Database),
		)
		return repository.NewSurrealTokenStore(db, sc.Scope), nil
	}

	return nil, fmt.Errorf("unknown token store %q", sc.Store)
}

// close writes the metrics textfile and releases connections
func (a *app) close() {
	if path := a.cfg.Metrics.TextfilePath; path != "" && a.registry != nil {
		if err := prometheus.WriteToTextfile(path, a.registry); err != nil {
			a.logger.Error("failed to write metrics", slog.String("error", err.Error()))
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("failed to close connection", slog.String("error", err.Error()))
		}
	}
	a.closers = nil
}

// run connects, runs fn and releases everything afterwards
func (a *app) run(ctx context.Context, fn func(ctx context.Context) error) error {
	defer a.close()
	if err := a.connect(ctx); err != nil {
		return err
	}
	return fn(ctx)
}

// viewer returns the signed-in identity or a hint to log in
func (a *app) viewer() (*model.Identity, error) {
	id, err := a.session.Identity()
	if err != nil {
		return nil, fmt.Errorf("%w: run 'vidgram login' first", err)
	}
	return id, nil
}
