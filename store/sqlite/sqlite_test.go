package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-ledger/generic"
	"github.com/warp/payroll-ledger/payroll"
	"github.com/warp/payroll-ledger/store/sqlite"
)

func newTestDB(t *testing.T) *sqlite.Store {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStore_EmptyLoadsNil(t *testing.T) {
	snap, err := newTestDB(t).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	// GIVEN: a ledger with both kinds and some entries
	s := payroll.NewStore(db, payroll.WithBootstrapCredential("admin", "h"))
	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.Register(ctx, payroll.RegisterInput{Name: "Ali", Kind: payroll.KindHourly, Rate: decimal.NewFromInt(10), Phone: "0790"}))
	require.NoError(t, s.Register(ctx, payroll.RegisterInput{Name: "Sara", Kind: payroll.KindSalaried, Rate: decimal.NewFromInt(1000)}))
	require.NoError(t, s.RecordAttendance(ctx, "Ali", "2024-02-01", 3, decimal.NewFromInt(2)))
	require.NoError(t, s.SetMonthlySalary(ctx, "Sara", 2, 2024, decimal.NewFromInt(1200)))

	// WHEN: a fresh store loads from the same database
	reloaded := payroll.NewStore(db)
	require.NoError(t, reloaded.Load(ctx))

	// THEN: computations agree
	p := generic.MonthPeriod(2024, 2)
	before, err := s.ComputeAll(p)
	require.NoError(t, err)
	after, err := reloaded.ComputeAll(p)
	require.NoError(t, err)
	assert.True(t, before.Total.Equal(after.Total))
	assert.True(t, after.Total.Equal(decimal.NewFromInt(1232)))

	ali, err := reloaded.Employee("Ali")
	require.NoError(t, err)
	assert.Equal(t, "0790", ali.Phone)
	_, ok := reloaded.Credential("admin")
	assert.True(t, ok)

	counts, err := db.EmployeeCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[payroll.KindHourly])
	assert.Equal(t, 1, counts[payroll.KindSalaried])
}

func TestStore_SaveReplacesEverything(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	s := payroll.NewStore(db)
	require.NoError(t, s.Register(ctx, payroll.RegisterInput{Name: "Ali", Kind: payroll.KindHourly}))
	require.NoError(t, s.Delete(ctx, "Ali"))
	require.NoError(t, s.Register(ctx, payroll.RegisterInput{Name: "Omar", Kind: payroll.KindHourly}))

	snap, err := db.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Len(t, snap.Employees, 1)
	assert.Contains(t, snap.Employees, "Omar")
}

func TestStore_FileDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "payroll.db")

	db, err := sqlite.New(path)
	require.NoError(t, err)
	s := payroll.NewStore(db)
	require.NoError(t, s.Register(ctx, payroll.RegisterInput{Name: "Ali", Kind: payroll.KindHourly, Rate: decimal.NewFromInt(5)}))
	require.NoError(t, db.Close())

	db, err = sqlite.New(path)
	require.NoError(t, err)
	defer db.Close()
	snap, err := db.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, snap.Employees["Ali"].CurrentRate.Equal(decimal.NewFromInt(5)))
}
