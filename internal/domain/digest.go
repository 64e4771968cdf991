package domain

import (
	"strings"
	"time"
)

// DigestKind selects the reporting window of a digest.
type DigestKind string

const (
	DigestDaily  DigestKind = "daily"
	DigestWeekly DigestKind = "weekly"
)

func ParseDigestKind(s string) (DigestKind, bool) {
	switch DigestKind(strings.ToLower(strings.TrimSpace(s))) {
	case DigestDaily:
		return DigestDaily, true
	case DigestWeekly:
		return DigestWeekly, true
	}
	return "", false
}

// PeriodFor returns the reporting period of a digest kind at the given instant.
func (k DigestKind) PeriodFor(now time.Time) Period {
	if k == DigestWeekly {
		return PreviousWeek(now)
	}
	return Yesterday(now)
}

// DigestRun is the journal entry of one digest job.
type DigestRun struct {
	ID              string      `json:"id" db:"id"`
	Marketplace     Marketplace `json:"marketplace" db:"marketplace"`
	Kind            DigestKind  `json:"kind" db:"kind"`
	PeriodFrom      time.Time   `json:"period_from" db:"period_from"`
	PeriodTo        time.Time   `json:"period_to" db:"period_to"`
	Status          RunStatus   `json:"status" db:"status"`
	Delivered       bool        `json:"delivered" db:"delivered"`
	GrossRevenue    float64     `json:"gross_revenue" db:"gross_revenue"`
	NetRevenue      float64     `json:"net_revenue" db:"net_revenue"`
	Recommendations []string    `json:"recommendations" db:"recommendations"`
	Archives        []string    `json:"archives" db:"archives"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
}

// DigestRunFilter narrows journal listings.
type DigestRunFilter struct {
	Marketplace Marketplace
	Kind        DigestKind
	Limit       int
}
