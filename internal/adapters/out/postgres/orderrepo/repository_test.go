package orderrepo_test

import (
	"testing"
	"time"

	"invoicing/internal/adapters/out/postgres/orderrepo"
	"invoicing/internal/core/domain/model/kernel"
	"invoicing/internal/core/domain/model/order"
	"invoicing/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// nopTracker satisfies aggregateTracker where tracking is irrelevant.
type nopTracker struct{}

func (nopTracker) TrackAggregate(kernel.UUID, any) {}

// newSQLiteRepository opens a fresh in-memory database per test, so the
// repository contract can be exercised without a running postgres.
func newSQLiteRepository(t *testing.T) *orderrepo.GormOrderRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.LineItemDTO{},
		&orderrepo.TaxLineDTO{},
		&orderrepo.MetadataDTO{},
	))

	return orderrepo.NewGormOrderRepository(db, nopTracker{})
}

func makeOrder(t *testing.T, lineTotals ...string) *order.Order {
	t.Helper()

	o, err := order.NewOrder(kernel.NewUUID(), time.Now().UTC().Truncate(time.Second), nil,
		order.Address{Address1: "1 Main St"}, order.Address{})
	require.NoError(t, err)

	for i, total := range lineTotals {
		amount, moneyErr := kernel.NewMoneyFromString(total)
		require.NoError(t, moneyErr)
		li, liErr := order.NewLineItem(
			"line", i+1, "", amount, amount, kernel.ZeroMoney(), kernel.ZeroMoney(), nil)
		require.NoError(t, liErr)
		o.AddLineItem(li)
	}

	o.RecalculateTotals()
	return o
}

func TestGormOrderRepository_AddAndGet(t *testing.T) {
	ctx := t.Context()
	repo := newSQLiteRepository(t)

	original := makeOrder(t, "30", "20")
	require.NoError(t, repo.Add(ctx, original))

	retrieved, err := repo.Get(ctx, original.ID())
	require.NoError(t, err)

	assert.Equal(t, original.ID(), retrieved.ID())
	assert.Equal(t, "1 Main St", retrieved.BillingAddress().Address1)
	require.Len(t, retrieved.LineItems(), 2)
	assert.True(t, retrieved.Total().IsEqual(original.Total()))
}

func TestGormOrderRepository_Get_NotFound(t *testing.T) {
	ctx := t.Context()
	repo := newSQLiteRepository(t)

	_, err := repo.Get(ctx, kernel.NewUUID())
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGormOrderRepository_Update_PersistsMergeFlags(t *testing.T) {
	ctx := t.Context()
	repo := newSQLiteRepository(t)

	src := makeOrder(t, "10")
	require.NoError(t, repo.Add(ctx, src))

	targetID := kernel.NewUUID()
	require.NoError(t, src.MarkMerged(targetID))
	require.NoError(t, repo.Update(ctx, src))

	retrieved, err := repo.Get(ctx, src.ID())
	require.NoError(t, err)
	assert.True(t, retrieved.IsMerged())

	into, ok := retrieved.MergedInto()
	require.True(t, ok)
	assert.True(t, targetID.IsEqual(into))
}

func TestGormOrderRepository_FindMerged(t *testing.T) {
	ctx := t.Context()
	repo := newSQLiteRepository(t)

	merged := makeOrder(t, "10")
	require.NoError(t, merged.MarkMerged(kernel.NewUUID()))
	require.NoError(t, repo.Add(ctx, merged))

	plain := makeOrder(t, "20")
	require.NoError(t, repo.Add(ctx, plain))

	found, err := repo.FindMerged(ctx)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, merged.ID(), found[0].ID())
}
