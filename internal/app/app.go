package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/fourball-matchplay/internal/config"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/match"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/standing"
	"github.com/riskibarqy/fourball-matchplay/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/fourball-matchplay/internal/infrastructure/account/static"
	"github.com/riskibarqy/fourball-matchplay/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fourball-matchplay/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fourball-matchplay/internal/interfaces/httpapi"
	"github.com/riskibarqy/fourball-matchplay/internal/platform/cache"
	idgen "github.com/riskibarqy/fourball-matchplay/internal/platform/id"
	"github.com/riskibarqy/fourball-matchplay/internal/platform/logging"
	"github.com/riskibarqy/fourball-matchplay/internal/platform/resilience"
	"github.com/riskibarqy/fourball-matchplay/internal/usecase"
)

// NewHTTPServer wires the stores, services and router. The returned cleanup
// releases the database pool and must run after the server stops.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	store, cleanup, err := newMatchStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	verifier, err := newTokenVerifier(cfg, logger)
	if err != nil {
		_ = cleanup()
		return nil, nil, err
	}

	var standingsCache *cache.Store[[]standing.Entry]
	if cfg.CacheEnabled {
		standingsCache = cache.NewStore[[]standing.Entry](cfg.CacheTTL)
	}

	standingSvc := usecase.NewStandingService(store, standingsCache, logger)
	matchSvc := usecase.NewMatchService(store, idgen.NewUUIDGenerator(), standingSvc, logger)
	holeSvc := usecase.NewHoleService(store, standingSvc, logger)
	scorecardSvc := usecase.NewScorecardService(store, standingSvc, logger)

	handler := httpapi.NewHandler(matchSvc, holeSvc, scorecardSvc, standingSvc, cfg.RebuildWorkers, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, cleanup, nil
}

func newMatchStore(cfg config.Config, logger *logging.Logger) (match.Store, func() error, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("match store ready", "driver", cfg.StorageDriver, "db_name", dbNameFromURL(cfg.DBURL))
		return postgres.NewMatchStore(db), db.Close, nil
	default:
		logger.Info("match store ready", "driver", config.StorageMemory)
		return memory.NewMatchStore(), func() error { return nil }, nil
	}
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)
	return db, nil
}

func newTokenVerifier(cfg config.Config, logger *logging.Logger) (httpapi.TokenVerifier, error) {
	switch cfg.AuthMode {
	case config.AuthModeAnubis:
		return anubis.NewClient(
			&http.Client{Timeout: cfg.AnubisTimeout},
			anubis.Options{
				BaseURL:        cfg.AnubisBaseURL,
				IntrospectPath: cfg.AnubisIntrospectURL,
				AdminKey:       cfg.AnubisAdminKey,
				PrincipalTTL:   cfg.AnubisCacheTTL,
				Breaker: resilience.CircuitBreakerConfig{
					Enabled:          cfg.AnubisCircuitEnabled,
					FailureThreshold: cfg.AnubisCircuitFailureCount,
					OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
					HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
				},
			},
			logger,
		), nil
	case config.AuthModeStatic:
		if len(cfg.AuthTokens) == 0 {
			logger.Warn("static auth has no tokens configured, every request will be rejected")
		}
		return static.NewVerifier(cfg.AuthTokens), nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.AuthMode)
	}
}
