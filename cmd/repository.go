package cmd

import (
	"fmt"

	"gitmob/internal/coauthor"
	"gitmob/internal/config"
	"gitmob/internal/logger"
	"gitmob/internal/process"
)

// openRepository builds the co-author store selected by cfg. The returned
// close function must be called once the command is done with the store.
func openRepository(cfg *config.Config) (coauthor.Repository, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case config.BackendGit:
		logger.Debugf("using git config store (program=%s scope=%s dir=%q)", cfg.Git.Program, cfg.Git.Scope, cfg.Git.Dir)
		exec := process.NewCommandExecutor()
		exec.Dir = cfg.Git.Dir
		repo, err := coauthor.NewGitConfigRepository(exec, coauthor.GitConfigOptions{
			Program:   cfg.Git.Program,
			Scope:     cfg.Git.Scope,
			File:      cfg.Git.File,
			Namespace: cfg.Namespace,
		})
		if err != nil {
			return nil, noop, err
		}
		return repo, noop, nil

	case config.BackendFile:
		logger.Debugf("using config file store at %s", cfg.File.Path)
		return coauthor.NewFileRepository(cfg.File.Path, cfg.Namespace), noop, nil

	case config.BackendSQLite:
		logger.Debugf("using sqlite store at %s", cfg.SQLite.Path)
		repo, err := coauthor.NewSQLiteRepository(cfg.SQLite.Path)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open co-author database: %w", err)
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				logger.Warnf("failed to close co-author database: %v", err)
			}
		}, nil
	}

	return nil, noop, fmt.Errorf("unknown backend %q", cfg.Backend)
}
