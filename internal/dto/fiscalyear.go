package dto

import (
	"time"

	"github.com/klarbok/klarbok/internal/core/domain"
)

// CreateFiscalYearRequest defines the payload for opening a new fiscal year.
type CreateFiscalYearRequest struct {
	StartDate time.Time `json:"startDate" binding:"required" time_format:"2006-01-02"`
	EndDate   time.Time `json:"endDate" binding:"required" time_format:"2006-01-02"`
}

// FiscalYearResponse defines the data returned for a fiscal year.
type FiscalYearResponse struct {
	FiscalYearID           string     `json:"fiscalYearID"`
	StartDate              time.Time  `json:"startDate"`
	EndDate                time.Time  `json:"endDate"`
	IsClosed               bool       `json:"isClosed"`
	ClosedAt               *time.Time `json:"closedAt,omitempty"`
	NextVerificationNumber int64      `json:"nextVerificationNumber"`
}

// ToFiscalYearResponse converts a domain.FiscalYear to FiscalYearResponse.
func ToFiscalYearResponse(fy *domain.FiscalYear) FiscalYearResponse {
	return FiscalYearResponse{
		FiscalYearID:           fy.FiscalYearID,
		StartDate:              fy.StartDate,
		EndDate:                fy.EndDate,
		IsClosed:               fy.IsClosed,
		ClosedAt:               fy.ClosedAt,
		NextVerificationNumber: fy.NextVerificationNumber,
	}
}

// ToFiscalYearResponses converts a slice of domain fiscal years.
func ToFiscalYearResponses(years []domain.FiscalYear) []FiscalYearResponse {
	out := make([]FiscalYearResponse, len(years))
	for i := range years {
		out[i] = ToFiscalYearResponse(&years[i])
	}
	return out
}
