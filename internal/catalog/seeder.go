package catalog

import (
	"context"
	"fmt"

	"simple-shop/internal/config"
	"simple-shop/internal/database"
	"simple-shop/internal/model"
	"simple-shop/internal/repository"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// seedLockKey serialises seeding across processes sharing a database.
const seedLockKey int64 = 0x73686f70

// Seeder populates the catalogue at startup according to the seed mode.
type Seeder struct {
	tx          repository.Transactor
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	loader      Loader
	cfg         config.SeedConfig
	appEnv      string
	logger      zerolog.Logger
}

// NewSeeder creates a new seeder. loader may be nil when cfg.File is empty,
// in which case the built-in catalogue is used.
func NewSeeder(
	tx repository.Transactor,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	loader Loader,
	cfg config.SeedConfig,
	appEnv string,
	logger zerolog.Logger,
) *Seeder {
	return &Seeder{
		tx:          tx,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		loader:      loader,
		cfg:         cfg,
		appEnv:      appEnv,
		logger:      logger.With().Str("component", "seeder").Logger(),
	}
}

// Seed applies the configured seed mode and creates the default cart if one
// is configured. Both happen in one transaction holding an advisory lock, so
// replicas starting together seed at most once.
//
// Mode "reset" wipes carts and orders as well as products.
func (s *Seeder) Seed(ctx context.Context) error {
	switch s.cfg.Mode {
	case config.SeedModeNone:
		s.logger.Info().Msg("catalogue seeding disabled")
		return nil
	case config.SeedModeOnce:
		return s.seed(ctx, false)
	case config.SeedModeReset:
		if s.appEnv != config.EnvDevelopment {
			return fmt.Errorf("seed mode %q is only allowed in %s, got %q", config.SeedModeReset, config.EnvDevelopment, s.appEnv)
		}
		return s.seed(ctx, true)
	default:
		return fmt.Errorf("unknown seed mode %q", s.cfg.Mode)
	}
}

func (s *Seeder) seed(ctx context.Context, reset bool) (err error) {
	tx, err := s.tx.BeginTx(ctx)
	if err != nil {
		return errors.Wrap(err, "begin seed transaction")
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, seedLockKey); err != nil {
		return errors.Wrap(err, "acquire seed lock")
	}

	if reset {
		s.logger.Warn().Msg("resetting database, all carts and orders will be deleted")
		if err = database.Reset(ctx, tx); err != nil {
			return err
		}
	}

	seeded := false
	if !reset {
		var count int
		if count, err = s.productRepo.Count(ctx); err != nil {
			return errors.Wrap(err, "count products")
		}
		if count > 0 {
			s.logger.Info().Int("products", count).Msg("catalogue already seeded")
			seeded = true
		}
	}

	if !seeded {
		var products []model.Product
		if products, err = s.products(ctx); err != nil {
			return err
		}
		if err = s.productRepo.InsertMany(ctx, tx, products); err != nil {
			return errors.Wrap(err, "insert products")
		}
		s.logger.Info().
			Int("products", len(products)).
			Bool("reset", reset).
			Msg("catalogue seeded")
	}

	if err = s.ensureDefaultCart(ctx, tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit seed transaction")
	}

	return nil
}

func (s *Seeder) products(ctx context.Context) ([]model.Product, error) {
	if s.cfg.File == "" || s.loader == nil {
		products, err := Builtin()
		if err != nil {
			return nil, errors.Wrap(err, "load built-in catalogue")
		}
		return products, nil
	}

	products, err := s.loader.Load(ctx, s.cfg.File)
	if err != nil {
		return nil, errors.Wrap(err, "load catalogue")
	}
	return products, nil
}

func (s *Seeder) ensureDefaultCart(ctx context.Context, tx pgx.Tx) error {
	if s.cfg.DefaultSessionID == "" {
		return nil
	}

	created, err := s.cartRepo.Ensure(ctx, tx, s.cfg.DefaultSessionID)
	if err != nil {
		return errors.Wrap(err, "ensure default cart")
	}
	if created {
		s.logger.Info().
			Str("session_id", s.cfg.DefaultSessionID).
			Msg("default cart created")
	}

	return nil
}
