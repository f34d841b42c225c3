// Package store picks the persistence backend named in the configuration
// and opens the ledger on top of it.
package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/warp/payroll-ledger/auth"
	"github.com/warp/payroll-ledger/config"
	"github.com/warp/payroll-ledger/payroll"
	"github.com/warp/payroll-ledger/store/jsonfile"
	"github.com/warp/payroll-ledger/store/memory"
	"github.com/warp/payroll-ledger/store/sqlite"
)

// Open returns the persister for cfg and a func that releases it.
func Open(cfg config.StorageConfig) (payroll.Persister, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.BackendJSON:
		return jsonfile.New(cfg.Path), noop, nil
	case config.BackendSQLite:
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.BackendMemory:
		return memory.New(), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

// OpenLedger opens the configured backend and loads the ledger. A load
// failure is logged and the ledger starts empty; only an unusable backend
// is an error.
func OpenLedger(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*payroll.Store, func() error, error) {
	p, closeFn, err := Open(cfg.Storage)
	if err != nil {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(cfg.Auth.Password)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("hash bootstrap password: %w", err)
	}

	ledger := payroll.NewStore(p,
		payroll.WithLogger(log),
		payroll.WithBootstrapCredential(cfg.Auth.Username, hash))
	if err := ledger.Load(ctx); err != nil {
		log.WithError(err).WithField("backend", cfg.Storage.Backend).Warn("starting with an empty ledger")
	}

	fields := logrus.Fields{"backend": cfg.Storage.Backend}
	if c, ok := p.(employeeCounter); ok {
		if counts, err := c.EmployeeCount(ctx); err == nil {
			fields["hourly"] = counts[payroll.KindHourly]
			fields["salaried"] = counts[payroll.KindSalaried]
		} else {
			log.WithError(err).Debug("count employees")
		}
	}
	log.WithFields(fields).Info("ledger opened")
	return ledger, closeFn, nil
}

// employeeCounter is implemented by backends that can count rows without a
// full load.
type employeeCounter interface {
	EmployeeCount(ctx context.Context) (map[payroll.Kind]int, error)
}
