package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/quicklinks/internal/config"
	"github.com/idilsaglam/quicklinks/internal/ingest"
	"github.com/idilsaglam/quicklinks/internal/logging"
	"github.com/idilsaglam/quicklinks/internal/store"
	"github.com/idilsaglam/quicklinks/internal/store/jsonstore"
	"github.com/idilsaglam/quicklinks/internal/store/sqlitestore"
)

func (a *app) entry(surface string) *logrus.Entry {
	return logging.For(a.logger, surface)
}

func (a *app) adapter(ctx context.Context, log *logrus.Entry) (store.Adapter, error) {
	switch a.cfg.Backend {
	case config.BackendMemory:
		return store.NewMemory(), nil
	case config.BackendSQLite:
		db, err := sqlitestore.Open(ctx, a.cfg.DataDir, log)
		if err != nil {
			return nil, err
		}
		db.PollInterval = a.cfg.PollInterval
		a.closers = append(a.closers, db.Close)
		return db, nil
	case config.BackendJSON, "":
		return jsonstore.New(a.cfg.DataDir, log), nil
	}
	return nil, fmt.Errorf("unknown backend %q", a.cfg.Backend)
}

// openStore builds and initializes a Store for one surface.
func (a *app) openStore(ctx context.Context, surface string) (*store.Store, error) {
	log := a.entry(surface)
	ad, err := a.adapter(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", a.cfg.Backend, err)
	}
	s := store.New(ad, store.WithLogger(log), store.WithMaxFileBytes(a.cfg.MaxFileBytes))
	if err := s.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return s, nil
}

func (a *app) reader() ingest.Reader {
	return ingest.Reader{MaxBytes: a.cfg.MaxFileBytes}
}
