package external

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockStub_CheckAvailability(t *testing.T) {
	// Arrange
	stock := NewStockStub(map[int64]int64{1: 5, 2: 1})
	ctx := context.Background()

	// Act
	ok, err := stock.CheckAvailability(ctx, []int64{1, 2}, []int64{5, 1})
	require.NoError(t, err)
	short, err := stock.CheckAvailability(ctx, []int64{1, 2, 3}, []int64{6, 1, 1})
	require.NoError(t, err)

	// Assert
	assert.True(t, ok.Available)
	assert.Empty(t, ok.UnavailableProductIDs)
	assert.False(t, short.Available)
	assert.Equal(t, []int64{1, 3}, short.UnavailableProductIDs)
}

func TestStockStub_CheckAvailabilitySumsRepeatedProducts(t *testing.T) {
	stock := NewStockStub(map[int64]int64{1: 4})

	res, err := stock.CheckAvailability(context.Background(), []int64{1, 1}, []int64{2, 3})

	require.NoError(t, err)
	assert.Equal(t, []int64{1}, res.UnavailableProductIDs)
}

func TestStockStub_CheckAvailabilityRejectsMismatchedLists(t *testing.T) {
	stock := NewStockStub(nil)

	_, err := stock.CheckAvailability(context.Background(), []int64{1, 2}, []int64{1})

	assert.Error(t, err)
}

func TestStockStub_DebitIsAllOrNothing(t *testing.T) {
	// Arrange
	stock := NewStockStub(map[int64]int64{1: 5, 2: 1})
	ctx := context.Background()

	// Act
	failed, err := stock.Debit(ctx, []int64{1, 2}, []int64{2, 2})
	require.NoError(t, err)

	// Assert
	assert.False(t, failed.Success)
	assert.Equal(t, int64(5), stock.Level(1))
	assert.Equal(t, int64(1), stock.Level(2))

	done, err := stock.Debit(ctx, []int64{1, 2}, []int64{2, 1})
	require.NoError(t, err)
	assert.True(t, done.Success)
	assert.Equal(t, int64(3), stock.Level(1))
	assert.Equal(t, int64(0), stock.Level(2))
}

func TestStockStub_RejectDebits(t *testing.T) {
	stock := NewStockStub(map[int64]int64{1: 5})
	stock.RejectDebits(true)

	res, err := stock.Debit(context.Background(), []int64{1}, []int64{1})

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, int64(5), stock.Level(1))
}

func TestStockStub_ConcurrentDebitsNeverOversell(t *testing.T) {
	// Arrange
	stock := NewStockStub(map[int64]int64{1: 10})
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)

	// Act
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := stock.Debit(context.Background(), []int64{1}, []int64{1})
			if err == nil && res.Success {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Assert
	assert.Equal(t, 10, successes)
	assert.Equal(t, int64(0), stock.Level(1))
}

func TestPaymentStub_AuthorizeIssuesSequentialIDs(t *testing.T) {
	// Arrange
	payment := NewPaymentStub()
	ctx := context.Background()

	// Act
	first, err := payment.Authorize(ctx, 1, decimal.RequireFromString("30.00"))
	require.NoError(t, err)
	second, err := payment.Authorize(ctx, 2, decimal.RequireFromString("10.00"))
	require.NoError(t, err)

	// Assert
	assert.True(t, first.Authorized)
	assert.Equal(t, int64(firstTransactionID), first.TransactionID)
	assert.Equal(t, int64(firstTransactionID+1), second.TransactionID)

	auth, ok := payment.Authorization(first.TransactionID)
	require.True(t, ok)
	assert.Equal(t, int64(1), auth.CustomerID)
	assert.True(t, decimal.RequireFromString("30").Equal(auth.Amount))
}

func TestPaymentStub_DeclinedCustomer(t *testing.T) {
	payment := NewPaymentStub()
	payment.Decline(7)

	res, err := payment.Authorize(context.Background(), 7, decimal.RequireFromString("1.00"))

	require.NoError(t, err)
	assert.False(t, res.Authorized)
	assert.Zero(t, res.TransactionID)
}

func TestPaymentStub_ConcurrentAuthorizationsHaveUniqueIDs(t *testing.T) {
	payment := NewPaymentStub()
	ids := make(chan int64, 50)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(customerID int64) {
			defer wg.Done()
			res, _ := payment.Authorize(context.Background(), customerID, decimal.NewFromInt(1))
			ids <- res.TransactionID
		}(int64(i))
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicated transaction id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, 50)
}

func TestPaymentStub_Cancel(t *testing.T) {
	// Arrange
	payment := NewPaymentStub()
	ctx := context.Background()
	res, err := payment.Authorize(ctx, 1, decimal.RequireFromString("30.00"))
	require.NoError(t, err)

	// Act / Assert
	require.NoError(t, payment.Cancel(ctx, 1, res.TransactionID))
	require.NoError(t, payment.Cancel(ctx, 1, res.TransactionID))

	auth, _ := payment.Authorization(res.TransactionID)
	assert.True(t, auth.Cancelled)

	assert.ErrorIs(t, payment.Cancel(ctx, 2, res.TransactionID), ErrUnknownTransaction)
	assert.ErrorIs(t, payment.Cancel(ctx, 1, 42), ErrUnknownTransaction)
}

func TestPaymentStub_FailCancellations(t *testing.T) {
	payment := NewPaymentStub()
	res, _ := payment.Authorize(context.Background(), 1, decimal.NewFromInt(5))
	payment.FailCancellations(true)

	err := payment.Cancel(context.Background(), 1, res.TransactionID)

	assert.ErrorIs(t, err, ErrCancelUnavailable)
	auth, _ := payment.Authorization(res.TransactionID)
	assert.False(t, auth.Cancelled)
}
