package server

import (
	"context"
	"time"

	"windfarm-observer/src/analysis"
	"windfarm-observer/src/models"
)

// -----------------------------------------------------------------------------

// buildLiveUpdate computes one live feed message. Failures are reported in
// the message so subscribers learn that data is unavailable.
func buildLiveUpdate(ctx context.Context, dashboard *analysis.DashboardService, rangeKey, kind string) *models.MLiveUpdate {
	update := &models.MLiveUpdate{
		Type:      kind,
		Range:     rangeKey,
		Timestamp: time.Now().Unix(),
	}

	summary, err := dashboard.MetricsSummary(ctx, rangeKey)
	if err != nil {
		update.Error = err.Error()
		return update
	}
	update.Summary = &summary

	page, err := dashboard.TurbineStatus(ctx, dashboard.Facade.Settings.DefaultTurbineLimit, 0)
	if err != nil {
		update.Error = err.Error()
		return update
	}
	update.Turbines = &page
	return update
}

// -----------------------------------------------------------------------------

// RunLiveFeed recomputes and broadcasts updates for every subscribed range
// until ctx is cancelled.
func (s *FastAPIServer) RunLiveFeed(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.Logger.Info("Live feed broadcasting every %s", interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.PublishLive(ctx)
		}
	}
}

// -----------------------------------------------------------------------------

// PublishLive broadcasts one round of updates
func (s *FastAPIServer) PublishLive(ctx context.Context) {
	for _, rangeKey := range s.SubscribedRanges() {
		update := buildLiveUpdate(ctx, s.Dashboard, rangeKey, UpdateLive)
		if update.Error != "" {
			s.Logger.Warning("Live update for %s failed: %s", rangeKey, update.Error)
		}
		s.Broadcast(update)
	}
}
