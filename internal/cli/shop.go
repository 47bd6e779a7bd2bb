package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/primecart/internal/catalog"
	"github.com/roach88/primecart/internal/config"
	"github.com/roach88/primecart/internal/domain"
	"github.com/roach88/primecart/internal/engine"
	"github.com/roach88/primecart/internal/store"
)

// errAdminRequired is returned by admin-only commands outside an admin session.
var errAdminRequired = errors.New("admin session required (run: primecart login admin)")

// shop is the state one command invocation works on.
type shop struct {
	cfg    config.Config
	store  *store.Store
	engine *engine.Engine
	logger *slog.Logger
	out    *OutputFormatter
}

// settings resolves the configuration, letting flags override the
// environment.
func (o *RootOptions) settings() (config.Config, error) {
	cfg, err := config.Load(o.EnvFile)
	if err != nil {
		return config.Config{}, err
	}
	if o.DB != "" {
		cfg.DBPath = o.DB
	}
	if o.Strict {
		cfg.Strict = true
	}
	return cfg, nil
}

func (o *RootOptions) logger(cmd *cobra.Command, cfg config.Config) *slog.Logger {
	level := cfg.LogLevel
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// withShop opens the store, loads the engine, runs fn and then closes the
// engine, which waits for every scheduled write.
func withShop(cmd *cobra.Command, opts *RootOptions, fn func(s *shop) error) (err error) {
	out := opts.formatter(cmd)

	cfg, err := opts.settings()
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeConfig, "load configuration", err)
	}
	logger := opts.logger(cmd, cfg)

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeStore, "open store", err)
	}

	engineOpts := []engine.Option{engine.WithLogger(logger)}
	if cfg.Strict {
		engineOpts = append(engineOpts, engine.WithStrictValidation(catalog.ValidateDraft))
	}
	logger.Debug("store opened", "path", cfg.DBPath, "strict", cfg.Strict)

	s := &shop{
		cfg:    cfg,
		store:  st,
		engine: engine.New(cmd.Context(), st, engineOpts...),
		logger: logger,
		out:    out,
	}

	defer func() {
		closeErr := errors.Join(s.engine.Close(cmd.Context()), st.Close())
		if closeErr != nil && err == nil {
			err = out.Fail(ExitCommandError, ErrCodeStore, "close store", closeErr)
		}
		if written, failed := s.engine.PersistStats(); failed > 0 {
			logger.Warn("some changes were not saved", "written", written, "failed", failed)
		}
	}()

	return fn(s)
}

// requireAdmin fails unless the session user is the store owner.
func (s *shop) requireAdmin() error {
	if u, ok := s.engine.User(); ok && u.IsAdmin() {
		return nil
	}
	return s.out.Fail(ExitFailure, ErrCodePermission, "permission denied", errAdminRequired)
}

// product looks up a catalog entry by id.
func (s *shop) product(id string) (domain.Product, error) {
	p, ok := s.engine.Product(id)
	if !ok {
		return domain.Product{}, s.out.Fail(ExitFailure, ErrCodeNotFound, "product not found: "+id, nil)
	}
	return p, nil
}
