package dashboard

import (
	"context"
	"log"

	"github.com/b0ase/path402/apps/aveumdash/internal/notify"
	"github.com/b0ase/path402/apps/aveumdash/internal/status"
)

// GenericAPIError is shown for any failed stats refresh.
const GenericAPIError = "An error occurred. Please try again."

// StatsSource fetches the lightweight counters the stats panel shows.
type StatsSource interface {
	StatusSource
	MiningStats(ctx context.Context) (*status.MiningStats, error)
}

// StatsPanel is the page-level stats view: reward totals with their unit
// and the like counter, with API errors reported as alerts at the top of
// the page rather than as toasts.
type StatsPanel struct {
	page   Page
	src    StatsSource
	alerts notify.Notifier
}

func NewStatsPanel(p Page, src StatsSource, alerts notify.Notifier) *StatsPanel {
	return &StatsPanel{page: p, src: src, alerts: alerts}
}

// UpdateMiningStats shows total rewards with the AVEUM unit.
func (s *StatsPanel) UpdateMiningStats(ms *status.MiningStats) {
	s.page.SetText(IDTotalRewards, status.FormatNumber(ms.TotalRewards)+" AVEUM")
}

// UpdateAutoLikeStats shows the total like count.
func (s *StatsPanel) UpdateAutoLikeStats(snap *status.Snapshot) {
	s.page.SetText(IDTotalLikes, status.FormatNumber(snap.TotalLikes))
}

// HandleAPIError logs err and raises the generic danger alert.
func (s *StatsPanel) HandleAPIError(err error) {
	log.Printf("[stats] API error: %v", err)
	s.alerts.Notify(GenericAPIError, notify.Danger)
}

// Refresh fetches mining stats and the like counter and shows them. The
// first failure is reported and ends the refresh.
func (s *StatsPanel) Refresh(ctx context.Context) error {
	ms, err := s.src.MiningStats(ctx)
	if err != nil {
		s.HandleAPIError(err)
		return err
	}
	s.UpdateMiningStats(ms)

	snap, err := s.src.Status(ctx)
	if err != nil {
		s.HandleAPIError(err)
		return err
	}
	if !snap.Success {
		err := ErrUnsuccessful
		s.HandleAPIError(err)
		return err
	}
	s.UpdateAutoLikeStats(snap)
	return nil
}
