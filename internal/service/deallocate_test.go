package service

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warehouse/inventory/internal/apperr"
	"github.com/warehouse/inventory/internal/db"
	"github.com/warehouse/inventory/internal/domain"
)

func paymentRejectedFact(t *testing.T, orderID, sku string) domain.PaymentRejected {
	t.Helper()
	fact, err := domain.NewPaymentRejected(orderID, sku)
	require.NoError(t, err)
	return fact
}

func TestDeallocateWorkerReversesAllocation(t *testing.T) {
	f := newFixture()
	f.seedCounter(t, "SKU-1", 10)
	allocate := NewAllocateOrderStockWorker(f.repository, f.events, zap.NewNop())
	deallocate := NewDeallocateOrderPaymentRejectedWorker(f.repository, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, allocate.Handle(ctx, orderFact(t, "order-1", "SKU-1", 5)))
	assert.Equal(t, int64(5), f.counterUnits(t, "SKU-1"))

	require.NoError(t, deallocate.Handle(ctx, paymentRejectedFact(t, "order-1", "SKU-1")))

	// Net effect on the counter is zero; the record keeps its units and
	// carries the rejected status as audit trail.
	assert.Equal(t, int64(10), f.counterUnits(t, "SKU-1"))
	allocation, err := f.repository.GetOrderAllocation(ctx, "SKU-1", "order-1")
	require.NoError(t, err)
	require.NotNil(t, allocation)
	assert.Equal(t, domain.AllocationStatusPaymentRejected, allocation.Status)
	assert.Equal(t, int64(5), allocation.Units)
}

func TestDeallocateWorkerNoAllocation(t *testing.T) {
	f := newFixture()
	f.seedCounter(t, "SKU-1", 10)
	deallocate := NewDeallocateOrderPaymentRejectedWorker(f.repository, zap.NewNop())

	// Without an allocation there is nothing to compensate; the fact is
	// dropped without touching the counter.
	require.NoError(t, deallocate.Handle(context.Background(), paymentRejectedFact(t, "order-ghost", "SKU-1")))
	assert.Equal(t, int64(10), f.counterUnits(t, "SKU-1"))
}

func TestDeallocateWorkerAlreadyCompensated(t *testing.T) {
	f := newFixture()
	f.seedCounter(t, "SKU-1", 10)
	allocate := NewAllocateOrderStockWorker(f.repository, f.events, zap.NewNop())
	deallocate := NewDeallocateOrderPaymentRejectedWorker(f.repository, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, allocate.Handle(ctx, orderFact(t, "order-1", "SKU-1", 5)))
	require.NoError(t, deallocate.Handle(ctx, paymentRejectedFact(t, "order-1", "SKU-1")))

	// The record is already PAYMENT_REJECTED, so the re-read snapshot
	// fails the status precondition and the counter is not credited again.
	err := deallocate.Handle(ctx, paymentRejectedFact(t, "order-1", "SKU-1"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidDeallocation, apperr.KindOf(err))
	assert.False(t, apperr.IsTransient(err))
	assert.Equal(t, int64(10), f.counterUnits(t, "SKU-1"))
}

func TestDeallocateWorkerStaleSnapshotConflict(t *testing.T) {
	f := newFixture()
	f.seedCounter(t, "SKU-1", 10)
	allocate := NewAllocateOrderStockWorker(f.repository, f.events, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, allocate.Handle(ctx, orderFact(t, "order-1", "SKU-1", 5)))

	// A conflicting writer changes the record's units after the worker's
	// read; commit must fail without mutating the counter.
	conflicting := &unitsMutatingStore{fixture: f, newUnits: 2}
	deallocate := NewDeallocateOrderPaymentRejectedWorker(conflicting, zap.NewNop())

	err := deallocate.Handle(ctx, paymentRejectedFact(t, "order-1", "SKU-1"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidDeallocation, apperr.KindOf(err))
	assert.Equal(t, int64(5), f.counterUnits(t, "SKU-1"))
}

// unitsMutatingStore interposes on the read-then-write flow, rewriting
// the stored record between the two steps.
type unitsMutatingStore struct {
	fixture  fixture
	newUnits int64
}

func (s *unitsMutatingStore) GetOrderAllocation(ctx context.Context, sku, orderID string) (*domain.OrderAllocation, error) {
	snapshot, err := s.fixture.repository.GetOrderAllocation(ctx, sku, orderID)
	if err != nil || snapshot == nil {
		return snapshot, err
	}

	pk, sk := db.AllocationKey(sku, orderID)
	item := s.fixture.fake.Item(pk, sk)
	var record db.AllocationRecord
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return nil, err
	}
	record.Units = s.newUnits
	mutated, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, err
	}
	s.fixture.fake.Seed(mutated)

	return snapshot, nil
}

func (s *unitsMutatingStore) DeallocateOrderStock(ctx context.Context, snapshot domain.OrderAllocation) error {
	return s.fixture.repository.DeallocateOrderStock(ctx, snapshot)
}
