package commands_test

import (
	"errors"
	"testing"
	"time"

	"invoicing/internal/core/application/usecases/commands"
	"invoicing/internal/core/domain/model/kernel"
	"invoicing/internal/core/domain/model/order"
	"invoicing/internal/core/domain/services"
	"invoicing/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func metadataPolicy(t *testing.T) services.TrackingPolicy {
	t.Helper()
	policy, err := services.NewTrackingPolicy(services.TrackingMetadata)
	require.NoError(t, err)
	return policy
}

func storedSource(t *testing.T, lineTotal string) *order.Order {
	t.Helper()

	o, err := order.NewOrder(kernel.NewUUID(), time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC), nil,
		order.Address{Address1: "1 Main St"}, order.Address{})
	require.NoError(t, err)

	line, err := order.NewLineItem("item", 1, "",
		mustMoney(t, lineTotal), mustMoney(t, lineTotal), kernel.ZeroMoney(), kernel.ZeroMoney(), nil)
	require.NoError(t, err)
	o.AddLineItem(line)
	o.RecalculateTotals()
	return o
}

func newMergeHandler(factory commands.OrderUoWFactory, policy services.TrackingPolicy) commands.MergeOrdersCommandHandler {
	return commands.NewMergeOrdersCommandHandler(factory, services.NewOrderMerger(), policy)
}

func TestMergeOrdersCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	srcA := storedSource(t, "100")
	srcB := storedSource(t, "50")
	cmd, err := commands.NewMergeOrdersCommand([]kernel.UUID{srcA.ID(), srcB.ID()})
	require.NoError(t, err)

	var added *order.Order
	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		repo.On("Get", mock.Anything, srcA.ID()).Return(srcA, nil).Once(),
		repo.On("Get", mock.Anything, srcB.ID()).Return(srcB, nil).Once(),
		repo.On("Update", mock.Anything, srcA).Return(nil).Once(),
		repo.On("Update", mock.Anything, srcB).Return(nil).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Run(func(args mock.Arguments) {
			added = args.Get(1).(*order.Order)
		}).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	uow.On("OrderRepository").Return(repo).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newMergeHandler(factory, metadataPolicy(t))
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, []kernel.UUID{srcA.ID(), srcB.ID()}, result.SourceIDs)

	require.NotNil(t, added)
	assert.True(t, result.TargetID.IsEqual(added.ID()))
	assert.True(t, added.IsAggregate())
	assert.Len(t, added.LineItems(), 2)
	assert.Equal(t, "1 Main St", added.BillingAddress().Address1)

	assert.True(t, srcA.IsMerged())
	assert.True(t, srcB.IsMerged())
	into, ok := srcA.MergedInto()
	require.True(t, ok)
	assert.True(t, into.IsEqual(added.ID()))

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestMergeOrdersCommandHandler_Handle_DuplicateSourceMergedOnce(t *testing.T) {
	ctx := t.Context()

	srcA := storedSource(t, "100")
	srcB := storedSource(t, "50")
	cmd, err := commands.NewMergeOrdersCommand([]kernel.UUID{srcA.ID(), srcA.ID(), srcB.ID()})
	require.NoError(t, err)

	var added *order.Order
	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		repo.On("Get", mock.Anything, srcA.ID()).Return(srcA, nil).Once(),
		repo.On("Get", mock.Anything, srcB.ID()).Return(srcB, nil).Once(),
		repo.On("Update", mock.Anything, srcA).Return(nil).Once(),
		repo.On("Update", mock.Anything, srcB).Return(nil).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Run(func(args mock.Arguments) {
			added = args.Get(1).(*order.Order)
		}).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	uow.On("OrderRepository").Return(repo).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newMergeHandler(factory, metadataPolicy(t))
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	// The repeated source counts once: one line per distinct source.
	assert.Equal(t, []kernel.UUID{srcA.ID(), srcB.ID()}, result.SourceIDs)
	require.NotNil(t, added)
	assert.Len(t, added.LineItems(), 2)
	assert.True(t, added.Total().IsEqual(mustMoney(t, "150")))

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestMergeOrdersCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	factory := new(MockOrderUoWFactory)

	h := newMergeHandler(factory, metadataPolicy(t))
	_, err := h.Handle(ctx, commands.MergeOrdersCommand{})
	require.Error(t, err)
	factory.AssertNotCalled(t, "Create")
}

func TestMergeOrdersCommandHandler_Handle_SourceNotFound(t *testing.T) {
	ctx := t.Context()

	srcA := storedSource(t, "100")
	missingID := kernel.NewUUID()
	cmd, err := commands.NewMergeOrdersCommand([]kernel.UUID{srcA.ID(), missingID})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		repo.On("Get", mock.Anything, srcA.ID()).Return(srcA, nil).Once(),
		repo.On("Get", mock.Anything, missingID).
			Return(nil, errs.NewObjectNotFoundError("order", missingID.String())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	uow.On("OrderRepository").Return(repo).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newMergeHandler(factory, metadataPolicy(t))
	_, err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)

	// No orphan target: nothing was added or updated.
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestMergeOrdersCommandHandler_Handle_SourceAlreadyMerged(t *testing.T) {
	ctx := t.Context()

	srcA := storedSource(t, "100")
	srcB := storedSource(t, "50")
	require.NoError(t, srcB.MarkMerged(kernel.NewUUID()))

	cmd, err := commands.NewMergeOrdersCommand([]kernel.UUID{srcA.ID(), srcB.ID()})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		repo.On("Get", mock.Anything, srcA.ID()).Return(srcA, nil).Once(),
		repo.On("Get", mock.Anything, srcB.ID()).Return(srcB, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	uow.On("OrderRepository").Return(repo).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newMergeHandler(factory, metadataPolicy(t))
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, commands.ErrSourceAlreadyMerged)

	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestMergeOrdersCommandHandler_Handle_UpdateError(t *testing.T) {
	ctx := t.Context()

	srcA := storedSource(t, "100")
	srcB := storedSource(t, "50")
	cmd, err := commands.NewMergeOrdersCommand([]kernel.UUID{srcA.ID(), srcB.ID()})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		repo.On("Get", mock.Anything, srcA.ID()).Return(srcA, nil).Once(),
		repo.On("Get", mock.Anything, srcB.ID()).Return(srcB, nil).Once(),
		repo.On("Update", mock.Anything, srcA).Return(errors.New("update error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	uow.On("OrderRepository").Return(repo).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newMergeHandler(factory, metadataPolicy(t))
	_, err = h.Handle(ctx, cmd)
	require.Error(t, err)

	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestMergeOrdersCommandHandler_Handle_StatusStrategy(t *testing.T) {
	ctx := t.Context()

	policy, err := services.NewTrackingPolicy(services.TrackingStatus)
	require.NoError(t, err)

	srcA := storedSource(t, "100")
	srcB := storedSource(t, "50")
	cmd, err := commands.NewMergeOrdersCommand([]kernel.UUID{srcA.ID(), srcB.ID()})
	require.NoError(t, err)

	var added *order.Order
	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("Get", mock.Anything, srcA.ID()).Return(srcA, nil).Once()
	repo.On("Get", mock.Anything, srcB.ID()).Return(srcB, nil).Once()
	repo.On("Update", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Twice()
	repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Run(func(args mock.Arguments) {
		added = args.Get(1).(*order.Order)
	}).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newMergeHandler(factory, policy)
	_, err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, order.Merged, srcA.Status())
	assert.Equal(t, order.Merged, srcB.Status())
	require.NotNil(t, added)
	assert.Equal(t, order.Aggregated, added.Status())
}
