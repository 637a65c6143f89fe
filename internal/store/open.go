package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nhle/sadhana/internal/model"
)

// Secret names Open asks a SecretFunc for.
const (
	SecretPostgresPassword = "postgres-password"
	SecretRESTAPIKey       = "rest-api-key"
)

// SecretFunc resolves a named credential such as SecretPostgresPassword.
type SecretFunc func(name string) (string, error)

// Open builds the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg model.StoreConfig, secret SecretFunc) (Store, error) {
	switch cfg.Backend {
	case model.BackendSQLite, "":
		path, err := model.ExpandPath(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		return NewSQLiteStore(path)

	case model.BackendFile:
		dir, err := model.ExpandPath(cfg.FileDir)
		if err != nil {
			return nil, err
		}
		return NewFileStore(dir), nil

	case model.BackendPostgres:
		password, err := secret(SecretPostgresPassword)
		if err != nil {
			return nil, fmt.Errorf("postgres password: %w", err)
		}
		s, err := NewPostgresStore(ctx, cfg.Postgres, password)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.EnsureSchema {
			if err := s.EnsureSchema(ctx); err != nil {
				s.Close()
				return nil, err
			}
		}
		return s, nil

	case model.BackendREST:
		if cfg.REST.URL == "" {
			return nil, fmt.Errorf("store.rest.url is required for the rest backend")
		}
		apiKey, err := secret(SecretRESTAPIKey)
		if err != nil {
			return nil, fmt.Errorf("rest api key: %w", err)
		}
		return NewRESTStore(cfg.REST.URL, apiKey, nil), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// ensureParentDir creates the directory holding a database file.
func ensureParentDir(path string) error {
	if path == ":memory:" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
