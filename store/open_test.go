package store

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-ledger/auth"
	"github.com/warp/payroll-ledger/config"
	"github.com/warp/payroll-ledger/payroll"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestOpen_Backends(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		backend string
		path    string
	}{
		{config.BackendJSON, filepath.Join(dir, "ledger.json")},
		{config.BackendSQLite, filepath.Join(dir, "ledger.db")},
		{config.BackendMemory, ""},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			p, closeFn, err := Open(config.StorageConfig{Backend: tt.backend, Path: tt.path})
			require.NoError(t, err)
			defer closeFn()

			snap, err := p.Load(context.Background())
			require.NoError(t, err)
			assert.Nil(t, snap)
		})
	}

	_, _, err := Open(config.StorageConfig{Backend: "etcd"})
	assert.Error(t, err)
}

func TestOpenLedger_SeedsAndPersists(t *testing.T) {
	cfg := config.Default()
	cfg.Storage = config.StorageConfig{Backend: config.BackendJSON, Path: filepath.Join(t.TempDir(), "ledger.json")}
	cfg.Auth = config.AuthConfig{Username: "boss", Password: "pw"}
	ctx := context.Background()

	// GIVEN: A fresh ledger file
	ledger, closeFn, err := OpenLedger(ctx, cfg, quietLogger())
	require.NoError(t, err)
	defer closeFn()

	// THEN: The configured credential is seeded as bcrypt
	assert.NoError(t, auth.NewAuthenticator(ledger).Check("boss", "pw"))

	// WHEN: An employee is registered and the ledger reopened
	require.NoError(t, ledger.Register(ctx, payroll.RegisterInput{Name: "Ali", Kind: payroll.KindHourly, Rate: decimal.NewFromInt(10)}))
	reopened, closeAgain, err := OpenLedger(ctx, cfg, quietLogger())
	require.NoError(t, err)
	defer closeAgain()

	// THEN: The employee survives
	e, err := reopened.Employee("Ali")
	require.NoError(t, err)
	assert.True(t, e.CurrentRate.Equal(decimal.NewFromInt(10)))
}

func TestOpenLedger_LogsEmployeeCounts(t *testing.T) {
	cfg := config.Default()
	cfg.Storage = config.StorageConfig{Backend: config.BackendSQLite, Path: filepath.Join(t.TempDir(), "ledger.db")}
	ctx := context.Background()

	// GIVEN: A SQLite ledger with two hourly employees and one salaried
	ledger, closeFn, err := OpenLedger(ctx, cfg, quietLogger())
	require.NoError(t, err)
	for _, in := range []payroll.RegisterInput{
		{Name: "Ali", Kind: payroll.KindHourly},
		{Name: "Omar", Kind: payroll.KindHourly},
		{Name: "Sara", Kind: payroll.KindSalaried},
	} {
		require.NoError(t, ledger.Register(ctx, in))
	}
	require.NoError(t, closeFn())

	// WHEN: It is reopened
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	_, closeAgain, err := OpenLedger(ctx, cfg, log)
	require.NoError(t, err)
	defer closeAgain()

	// THEN: The startup line carries the counts per kind
	out := buf.String()
	assert.Contains(t, out, `"msg":"ledger opened"`)
	assert.Contains(t, out, `"hourly":2`)
	assert.Contains(t, out, `"salaried":1`)
}
