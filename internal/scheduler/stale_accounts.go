package scheduler

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/mt5-bridge/internal/modules/snapshots"
)

// StaleAccountsJob warns about accounts whose terminal has stopped posting.
// Snapshots are never evicted, the store keeps the last known state; this job
// only makes the silence visible in the log.
type StaleAccountsJob struct {
	store      *snapshots.Store
	staleAfter time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

// NewStaleAccountsJob creates a new stale accounts job
func NewStaleAccountsJob(store *snapshots.Store, staleAfter time.Duration, log zerolog.Logger) *StaleAccountsJob {
	return &StaleAccountsJob{
		store:      store,
		staleAfter: staleAfter,
		now:        time.Now,
		log:        log.With().Str("job", "stale_accounts").Logger(),
	}
}

// Name returns the job name
func (j *StaleAccountsJob) Name() string {
	return "stale_accounts"
}

// Run logs a warning per account that has not reported within the threshold
func (j *StaleAccountsJob) Run() error {
	cutoff := j.now().Add(-j.staleAfter)

	for accountID, snap := range j.store.GetAll() {
		if snap.At.Before(cutoff) {
			j.log.Warn().
				Str("account", accountID).
				Time("last_seen", snap.At).
				Dur("stale_after", j.staleAfter).
				Msg("Account has stopped reporting")
		}
	}

	return nil
}
