package services

import (
	"time"

	"github.com/ipowatch/ipo-analyzer/models"
)

const isoDateLayout = "2006-01-02"

// DeriveStatus determines the lifecycle status of an issue from its
// normalized open/close dates and a reference day. Comparison is at day
// granularity; an unknown open date always reads as upcoming, and an
// unknown close date keeps an already-open issue open.
func DeriveStatus(openDate, closeDate *string, now time.Time) models.IPOStatus {
	if openDate == nil {
		return models.StatusUpcoming
	}
	open, err := time.Parse(isoDateLayout, *openDate)
	if err != nil {
		return models.StatusUpcoming
	}

	today := now.Truncate(24 * time.Hour)
	if today.Before(open) {
		return models.StatusUpcoming
	}

	if closeDate != nil {
		if close, err := time.Parse(isoDateLayout, *closeDate); err == nil {
			if today.After(close) {
				return models.StatusClosed
			}
			return models.StatusOpen
		}
	}

	// Close date unknown: anything at or past the open date counts as open.
	return models.StatusOpen
}
