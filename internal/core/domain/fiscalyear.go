package domain

import "time"

// FiscalYear is an organization-scoped accounting period. It owns the
// verification number counter for journal entries posted within it.
type FiscalYear struct {
	FiscalYearID   string     `json:"fiscalYearID"`   // Primary Key (UUID)
	OrganizationID string     `json:"organizationID"` // FK -> organizations.organization_id
	StartDate      time.Time  `json:"startDate"`
	EndDate        time.Time  `json:"endDate"` // Inclusive; >= StartDate, non-overlapping per organization
	IsClosed       bool       `json:"isClosed"`
	ClosedAt       *time.Time `json:"closedAt"`
	// NextVerificationNumber starts at 1 and only ever increases. Allocation
	// is serialized per fiscal year so issued numbers are gap-free.
	NextVerificationNumber int64 `json:"nextVerificationNumber"`
	AuditFields
}

// Contains reports whether the given date falls within the fiscal year bounds.
// Only the calendar date matters, not the time of day.
func (fy FiscalYear) Contains(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	start := fy.StartDate.Truncate(24 * time.Hour)
	end := fy.EndDate.Truncate(24 * time.Hour)
	return !d.Before(start) && !d.After(end)
}

// Overlaps reports whether two fiscal year ranges intersect.
func (fy FiscalYear) Overlaps(other FiscalYear) bool {
	return !fy.StartDate.After(other.EndDate) && !other.StartDate.After(fy.EndDate)
}

// ClosedAtRFC3339 returns the close timestamp in RFC 3339 form, or "unknown"
// when no timestamp was recorded for a closed year.
func (fy FiscalYear) ClosedAtRFC3339() string {
	if fy.ClosedAt == nil {
		return "unknown"
	}
	return fy.ClosedAt.Format(time.RFC3339)
}
