package retention

import (
	"chatpulse/backend/internal/metrics"
	"chatpulse/backend/internal/storage"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper deletes chat groups that have seen no activity for the retention
// period, together with all of their messages. It is a pure function of the
// clock and the store, so the schedule that triggers it stays external.
type Sweeper struct {
	Storage   storage.Storage
	Retention time.Duration
}

func NewSweeper(s storage.Storage, retentionDays int) *Sweeper {
	return &Sweeper{
		Storage:   s,
		Retention: time.Duration(retentionDays) * 24 * time.Hour,
	}
}

// Run is the cron entrypoint. Errors are logged and swallowed: the next
// scheduled run is the retry mechanism.
func (s *Sweeper) Run() {
	log.Info().Msg("running chat group cleanup job")
	if _, _, err := s.Sweep(time.Now()); err != nil {
		log.Error().Err(err).Msg("chat group cleanup failed")
	}
}

// Sweep deletes every group whose last activity predates now minus the
// retention period, messages first so no window exposes messages of a deleted
// group. It returns the deleted message and group counts. Rerunning after a
// completed sweep is a no-op: deleted groups are not reselected.
func (s *Sweeper) Sweep(now time.Time) (int64, int64, error) {
	cutoff := now.Add(-s.Retention)

	staleIDs, err := s.Storage.ListStaleGroupIDs(cutoff)
	if err != nil {
		return 0, 0, err
	}
	if len(staleIDs) == 0 {
		log.Info().Msg("no stale chat groups to delete")
		return 0, 0, nil
	}
	log.Info().Int("groups", len(staleIDs)).Time("cutoff", cutoff).Msg("found stale chat groups")

	deletedMessages, err := s.Storage.DeleteMessagesByRooms(staleIDs)
	if err != nil {
		return 0, 0, err
	}
	deletedGroups, err := s.Storage.DeleteGroupsByIDs(staleIDs)
	if err != nil {
		return deletedMessages, 0, err
	}

	metrics.SweepDeletedGroups.Add(float64(deletedGroups))
	log.Info().
		Int64("messages", deletedMessages).
		Int64("groups", deletedGroups).
		Msg("deleted stale chat groups")
	return deletedMessages, deletedGroups, nil
}
