package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nu9ve/academy/internal/config"
	"github.com/nu9ve/academy/internal/content"
	"github.com/nu9ve/academy/internal/logging"
	"github.com/nu9ve/academy/internal/profile"
	"github.com/nu9ve/academy/internal/store"
)

// appEnv holds everything a command needs once config is loaded.
type appEnv struct {
	ctx      context.Context
	cfg      *config.Config
	log      zerolog.Logger
	store    *store.Store
	catalog  *content.Catalog
	profiles *profile.Service

	closeLog func() error
}

// envOptions selects how openEnv sets up logging.
type envOptions struct {
	// tui sends logs to the log file only, since the terminal is taken.
	tui bool
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.DBPath = db
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

// openEnv loads config, logging, the store, the catalog and the profile.
func openEnv(cmd *cobra.Command, opts envOptions) (*appEnv, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logOpts := logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Console: !opts.tui}
	if opts.tui && logOpts.File == "" {
		if logOpts.File, err = logging.DefaultLogPath(); err != nil {
			return nil, err
		}
	}
	logger, closeLog, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}
	ctx := logging.IntoContext(cmd.Context(), logger)

	env := &appEnv{ctx: ctx, cfg: cfg, log: logger, closeLog: closeLog}
	if err := env.open(); err != nil {
		env.Close()
		return nil, err
	}
	return env, nil
}

func (e *appEnv) open() error {
	dbPath, err := resolveDBPath(e.cfg)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	e.store = st
	e.log.Debug().Str("db", dbPath).Msg("store opened")

	courses := content.Seed()
	dir, err := contentDir(e.cfg)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(dir); statErr == nil {
		extra, err := content.LoadDir(dir)
		if err != nil {
			return fmt.Errorf("load content from %s: %w", dir, err)
		}
		courses = append(courses, extra...)
		e.log.Debug().Str("dir", dir).Int("courses", len(extra)).Msg("content loaded")
	}
	if e.catalog, err = content.NewCatalog(courses...); err != nil {
		return err
	}

	e.profiles = profile.NewService(e.cfg.ProfileServiceConfig(), e.catalog, st.SnapshotRepo(), st.EventRepo())
	if err := e.profiles.Load(e.ctx); err != nil {
		return err
	}
	return nil
}

// Close releases the store and the log file.
func (e *appEnv) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.log.Warn().Err(err).Msg("close store")
		}
	}
	if e.closeLog != nil {
		_ = e.closeLog()
	}
}

// resolveDBPath returns the configured database path, falling back to
// ACADEMY_DB and then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// contentDir returns the directory of extra level files, by default next
// to the database under the XDG data dir.
func contentDir(cfg *config.Config) (string, error) {
	if cfg.ContentDir != "" {
		return cfg.ContentDir, nil
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "academy", "levels"), nil
}
