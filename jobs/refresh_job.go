package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/ipowatch/ipo-analyzer/database"
	"github.com/ipowatch/ipo-analyzer/services"
	"github.com/sirupsen/logrus"
)

// RefreshJob runs the full scrape-normalize-score pipeline and persists
// the resulting batch. It is triggered on a timer from main and on
// demand from the admin endpoint.
type RefreshJob struct {
	Pipeline *services.Pipeline
	Store    *database.IPOStore
}

func NewRefreshJob(pipeline *services.Pipeline, store *database.IPOStore) *RefreshJob {
	return &RefreshJob{
		Pipeline: pipeline,
		Store:    store,
	}
}

func (j *RefreshJob) Run() {
	logrus.Info("Starting IPO refresh job")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	records, err := j.Pipeline.Run(ctx)
	if err != nil {
		if errors.Is(err, services.ErrNoListings) {
			logrus.Error("Refresh job aborted: no listings extracted from any source")
		} else {
			logrus.WithError(err).Error("Refresh job failed")
		}
		return
	}

	if j.Store == nil {
		logrus.WithField("records", len(records)).
			Warn("No database configured, discarding scored batch")
		return
	}

	if err := j.Store.SaveBatch(ctx, records); err != nil {
		logrus.WithError(err).Error("Failed to persist scored batch")
		return
	}

	logrus.WithField("records", len(records)).Info("IPO refresh job completed")
}
