package snapshots

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/mt5-bridge/internal/events"
	"github.com/aristath/mt5-bridge/internal/modules/positions"
)

// Service builds snapshots from raw ingest batches and assembles the summary
// view from the store
type Service struct {
	store *Store
	bus   *events.Bus
	log   zerolog.Logger
}

// NewService creates a new snapshot service
func NewService(store *Store, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		bus:   bus,
		log:   log.With().Str("component", "snapshot_service").Logger(),
	}
}

// Ingest normalizes and aggregates one account's batch and replaces that
// account's snapshot in the store. A missing account id defaults to "unknown",
// a missing position list to an empty batch; nothing in the payload causes
// rejection. Returns the stored snapshot.
func (s *Service) Ingest(batch IngestBatch) AccountSnapshot {
	accountID := positions.CoerceString(batch.Account)
	if accountID == "" {
		accountID = "unknown"
	}

	normalized := positions.Normalize(batch.Positions)
	volumes, breakEven := positions.Aggregate(normalized)

	var accountProfit *float64
	if profit, ok := positions.CoerceFloat(batch.Profit); ok {
		accountProfit = &profit
	}

	snap := AccountSnapshot{
		ID:            uuid.New().String(),
		AccountID:     accountID,
		At:            time.Now().UTC(),
		AccountProfit: accountProfit,
		Volumes:       volumes,
		Positions:     normalized,
		BreakEven:     breakEven,
	}

	s.store.Put(snap)

	if s.bus != nil {
		s.bus.Publish(events.Event{
			Type:      events.SnapshotIngested,
			AccountID: accountID,
			At:        snap.At,
		})
	}

	s.log.Debug().
		Str("account", accountID).
		Int("positions", len(normalized)).
		Int("symbols", len(volumes)).
		Msg("Snapshot ingested")

	return snap
}

// Summary reshapes the current store contents into the dashboard response.
// Reshaping is presentation-only; all computation happened at ingest time.
func (s *Service) Summary() Summary {
	all := s.store.GetAll()

	accounts := make(map[string]AccountSummary, len(all))
	profits := make([]float64, 0, len(all))
	totalVolume := 0.0

	for accountID, snap := range all {
		accounts[accountID] = AccountSummary{
			At:        snap.At,
			Profit:    snap.AccountProfit,
			Volumes:   snap.Volumes,
			Positions: snap.Positions,
			BreakEven: snap.BreakEven,
		}
		if snap.AccountProfit != nil {
			profits = append(profits, *snap.AccountProfit)
		}
		for _, vol := range snap.Volumes {
			totalVolume += vol
		}
	}

	var meanProfit *float64
	if len(profits) > 0 {
		mean := stat.Mean(profits, nil)
		meanProfit = &mean
	}

	return Summary{
		Accounts: accounts,
		Fleet: FleetStats{
			AccountCount: len(all),
			TotalVolume:  totalVolume,
			MeanProfit:   meanProfit,
		},
	}
}

// Count returns the number of distinct accounts tracked
func (s *Service) Count() int {
	return s.store.Count()
}
