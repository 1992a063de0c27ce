package snapshots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/mt5-bridge/internal/events"
	"github.com/aristath/mt5-bridge/internal/modules/positions"
)

func newTestService() (*Service, *Store) {
	log := testLogger()
	store := NewStore(log)
	return NewService(store, events.NewBus(log), log), store
}

func TestIngestStoresSnapshot(t *testing.T) {
	service, store := newTestService()

	snap := service.Ingest(IngestBatch{
		Account: "12345",
		Profit:  250.5,
		Positions: []positions.RawPosition{
			{Symbol: "EURUSD", Side: "BUY", Volume: 1.5, OpenPrice: 1.1},
			{Symbol: "EURUSD", Side: "SELL", Volume: 0.5, OpenPrice: 1.2},
		},
	})

	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, "12345", snap.AccountID)
	assert.False(t, snap.At.IsZero())
	require.NotNil(t, snap.AccountProfit)
	assert.Equal(t, 250.5, *snap.AccountProfit)
	assert.InDelta(t, 2.0, snap.Volumes["EURUSD"], 1e-12)
	assert.Len(t, snap.Positions, 2)

	stored, ok := store.Get("12345")
	require.True(t, ok)
	assert.Equal(t, snap, stored)
}

func TestIngestDefaultsMissingAccountToUnknown(t *testing.T) {
	service, store := newTestService()

	snap := service.Ingest(IngestBatch{})
	assert.Equal(t, "unknown", snap.AccountID)

	_, ok := store.Get("unknown")
	assert.True(t, ok)
}

func TestIngestNumericAccountID(t *testing.T) {
	service, _ := newTestService()

	// The EA posts the login as a JSON number
	snap := service.Ingest(IngestBatch{Account: 987654.0})
	assert.Equal(t, "987654", snap.AccountID)
}

func TestIngestMissingPositionListIsEmptyBatch(t *testing.T) {
	service, _ := newTestService()

	snap := service.Ingest(IngestBatch{Account: "a"})
	assert.Empty(t, snap.Positions)
	assert.Empty(t, snap.Volumes)
	assert.Empty(t, snap.BreakEven)
}

func TestIngestUnparseableProfitIsAbsent(t *testing.T) {
	service, _ := newTestService()

	snap := service.Ingest(IngestBatch{Account: "a", Profit: "n/a"})
	assert.Nil(t, snap.AccountProfit)
}

func TestIngestReplacesPriorSnapshot(t *testing.T) {
	service, store := newTestService()

	service.Ingest(IngestBatch{
		Account: "a",
		Positions: []positions.RawPosition{
			{Symbol: "EURUSD", Side: "BUY", Volume: 1, OpenPrice: 1.1},
		},
	})
	service.Ingest(IngestBatch{
		Account: "a",
		Positions: []positions.RawPosition{
			{Symbol: "GBPUSD", Side: "SELL", Volume: 2, OpenPrice: 1.3},
		},
	})

	snap, ok := store.Get("a")
	require.True(t, ok)
	assert.NotContains(t, snap.Volumes, "EURUSD")
	assert.InDelta(t, 2.0, snap.Volumes["GBPUSD"], 1e-12)
	require.Len(t, snap.Positions, 1)
	assert.Equal(t, 1, store.Count())
}

func TestIngestPublishesEvent(t *testing.T) {
	log := testLogger()
	bus := events.NewBus(log)
	store := NewStore(log)
	service := NewService(store, bus, log)

	sub, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	service.Ingest(IngestBatch{Account: "a"})

	select {
	case evt := <-sub:
		assert.Equal(t, events.SnapshotIngested, evt.Type)
		assert.Equal(t, "a", evt.AccountID)
	default:
		t.Fatal("expected a snapshot.ingested event")
	}
}

func TestSummaryShapesStoreContents(t *testing.T) {
	service, _ := newTestService()

	service.Ingest(IngestBatch{
		Account: "a",
		Profit:  100.0,
		Positions: []positions.RawPosition{
			{Symbol: "EURUSD", Side: "BUY", Volume: 1, OpenPrice: 1.1},
		},
	})
	service.Ingest(IngestBatch{
		Account: "b",
		Profit:  -50.0,
		Positions: []positions.RawPosition{
			{Symbol: "GBPUSD", Side: "SELL", Volume: 3, OpenPrice: 1.25},
		},
	})

	summary := service.Summary()

	require.Len(t, summary.Accounts, 2)
	assert.Equal(t, 2, summary.Fleet.AccountCount)
	assert.InDelta(t, 4.0, summary.Fleet.TotalVolume, 1e-12)
	require.NotNil(t, summary.Fleet.MeanProfit)
	assert.InDelta(t, 25.0, *summary.Fleet.MeanProfit, 1e-12)

	a := summary.Accounts["a"]
	require.NotNil(t, a.Profit)
	assert.Equal(t, 100.0, *a.Profit)
	assert.InDelta(t, 1.0, a.Volumes["EURUSD"], 1e-12)
	require.NotNil(t, a.BreakEven["EURUSD"])
	assert.InDelta(t, 1.1, *a.BreakEven["EURUSD"], 1e-12)
}

func TestSummaryMeanProfitAbsentWhenNoAccountReports(t *testing.T) {
	service, _ := newTestService()

	service.Ingest(IngestBatch{Account: "a"})

	summary := service.Summary()
	assert.Nil(t, summary.Fleet.MeanProfit)
	assert.Equal(t, 1, summary.Fleet.AccountCount)
}

func TestSummaryEmptyStore(t *testing.T) {
	service, _ := newTestService()

	summary := service.Summary()
	assert.Empty(t, summary.Accounts)
	assert.Equal(t, 0, summary.Fleet.AccountCount)
	assert.Equal(t, 0.0, summary.Fleet.TotalVolume)
	assert.Nil(t, summary.Fleet.MeanProfit)
}
