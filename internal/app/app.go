package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/markdave123-py/SpiderCare/internal/api/handlers"
	middleware "github.com/markdave123-py/SpiderCare/internal/api/middlewares"
	"github.com/markdave123-py/SpiderCare/internal/config"
	"github.com/markdave123-py/SpiderCare/internal/core"
	db "github.com/markdave123-py/SpiderCare/internal/core/database"
	"github.com/markdave123-py/SpiderCare/internal/core/llm"
	objectclient "github.com/markdave123-py/SpiderCare/internal/core/object-client"
	"github.com/markdave123-py/SpiderCare/internal/core/persona"
	"github.com/markdave123-py/SpiderCare/internal/security"
	"github.com/markdave123-py/SpiderCare/internal/services"
)

type App struct {
	cfg     *config.Config
	DB      core.DbClient
	LLM     core.LLMProvider
	Objects core.ObjectClient
	Server  *Server

	limiter *middleware.RateLimiter
	closers []func() error
}

// NewApp connects every collaborator named by cfg and wires the server.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	var store core.DbClient
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, using in-memory store")
		store = db.NewMemoryClient()
	} else {
		pg, err := db.NewDatabaseClient(appCtx, cfg)
		if err != nil {
			return nil, err
		}
		store = pg
		log.Info().Msg("database initialized and ready")
	}
	closers = append(closers, store.Close)

	p, err := persona.Load(cfg.PersonaFile)
	if err != nil {
		closeAll()
		return nil, err
	}

	var provider core.LLMProvider
	if cfg.AIEnabled {
		g, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("couldn't initialize the completion client, %w", err)
		}
		closers = append(closers, g.Close)
		provider = g
	} else {
		log.Info().Msg("AI disabled, using canned replies")
		provider = llm.NewCannedLLM(p)
	}

	var objects core.ObjectClient
	if cfg.AssetBucket != "" {
		s3c, err := objectclient.NewS3Client(appCtx, cfg)
		if err != nil {
			closeAll()
			return nil, err
		}
		objects = s3c
	}

	a, err := build(cfg, store, provider, objects, p)
	if err != nil {
		closeAll()
		return nil, err
	}
	a.closers = closers
	return a, nil
}

// build wires services, the dispatcher and the server around ready
// collaborators.
func build(cfg *config.Config, store core.DbClient, provider core.LLMProvider, objects core.ObjectClient, p persona.Persona) (*App, error) {
	scheme, err := security.ParseScheme(cfg.PasswordScheme)
	if err != nil {
		return nil, err
	}
	hasher := security.NewHasher(scheme)
	limiter := middleware.NewRateLimiter(rate.Limit(cfg.AuthRateLimit), cfg.AuthRateBurst, 10*time.Minute)

	dispatcher := newDispatcher(routeDeps{
		auth:    services.NewAuthService(store, hasher, cfg.SessionTTL),
		chat:    services.NewChatService(store, provider, p),
		users:   services.NewUserService(store, hasher),
		store:   store,
		static:  handlers.NewStaticHandler(objects, cfg.AssetBucket, cfg.StaticDir),
		limiter: limiter,
	})

	return &App{
		cfg:     cfg,
		DB:      store,
		LLM:     provider,
		Objects: objects,
		Server:  NewServer(cfg, dispatcher),
		limiter: limiter,
	}, nil
}

// Run serves HTTP alongside the session sweeper and the limiter's
// eviction loop. The first failure stops all of them.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Server.Run(gctx) })
	g.Go(func() error { return db.RunSessionSweeper(gctx, a.DB, a.cfg.SweepInterval) })
	g.Go(func() error { return a.limiter.Run(gctx) })
	return g.Wait()
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn().Err(err).Msg("close")
		}
	}
}
