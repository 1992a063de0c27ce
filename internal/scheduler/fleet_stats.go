package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/aristath/mt5-bridge/internal/modules/snapshots"
)

// FleetStatsJob periodically logs a one-line view of the tracked fleet so the
// service log doubles as a coarse activity history.
type FleetStatsJob struct {
	service *snapshots.Service
	log     zerolog.Logger
}

// NewFleetStatsJob creates a new fleet stats job
func NewFleetStatsJob(service *snapshots.Service, log zerolog.Logger) *FleetStatsJob {
	return &FleetStatsJob{
		service: service,
		log:     log.With().Str("job", "fleet_stats").Logger(),
	}
}

// Name returns the job name
func (j *FleetStatsJob) Name() string {
	return "fleet_stats"
}

// Run logs the current fleet aggregates
func (j *FleetStatsJob) Run() error {
	summary := j.service.Summary()

	evt := j.log.Info().
		Int("accounts", summary.Fleet.AccountCount).
		Float64("total_volume", summary.Fleet.TotalVolume)

	if summary.Fleet.MeanProfit != nil {
		evt = evt.Float64("mean_profit", *summary.Fleet.MeanProfit)
	}

	evt.Msg("Fleet stats")
	return nil
}
