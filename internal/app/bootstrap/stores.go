package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"

	appconfig "github.com/wolfman30/portfolio-api/internal/config"
	"github.com/wolfman30/portfolio-api/internal/connect"
	"github.com/wolfman30/portfolio-api/internal/mentorship"
	"github.com/wolfman30/portfolio-api/internal/pitch"
	"github.com/wolfman30/portfolio-api/pkg/logging"
)

// Stores bundles the repositories selected by STORAGE_DRIVER.
type Stores struct {
	Mentorships mentorship.Repository
	Connects    connect.Repository
	Pitches     pitch.Repository

	pool  *pgxpool.Pool
	mongo *mongo.Client
}

// Close releases database connections.
func (s *Stores) Close(ctx context.Context) {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.mongo != nil {
		_ = s.mongo.Disconnect(ctx)
	}
}

// BuildStores opens the configured backends. With the mongo driver,
// mentorships live in Mongo while connect and pitch records use Postgres
// when DATABASE_URL is set and memory otherwise.
func BuildStores(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*Stores, error) {
	if logger == nil {
		logger = logging.Default()
	}
	stores := &Stores{}

	if cfg.StorageDriver == "postgres" || cfg.StorageDriver == "mongo" {
		pool, err := BuildPostgresPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		stores.pool = pool
	}
	if cfg.StorageDriver == "mongo" {
		client, err := BuildMongoClient(ctx, cfg.MongoURI, logger)
		if err != nil {
			stores.Close(ctx)
			return nil, err
		}
		stores.mongo = client
	}

	switch {
	case stores.mongo != nil:
		stores.Mentorships = mentorship.NewMongoRepository(stores.mongo.Database(cfg.MongoDBName))
	case stores.pool != nil:
		stores.Mentorships = mentorship.NewPostgresRepository(stores.pool)
	case cfg.StorageDriver == "memory":
		stores.Mentorships = mentorship.NewInMemoryRepository()
	default:
		return nil, fmt.Errorf("bootstrap: storage driver %q has no backend", cfg.StorageDriver)
	}

	if stores.pool != nil {
		stores.Connects = connect.NewPostgresRepository(stores.pool)
		stores.Pitches = pitch.NewPostgresRepository(stores.pool)
	} else {
		if cfg.StorageDriver != "memory" {
			logger.Warn("DATABASE_URL not set; connect and pitch records are kept in memory")
		}
		stores.Connects = connect.NewInMemoryRepository()
		stores.Pitches = pitch.NewInMemoryRepository()
	}

	logger.Info("storage ready", "driver", cfg.StorageDriver)
	return stores, nil
}
