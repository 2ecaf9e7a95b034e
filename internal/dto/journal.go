package dto

import (
	"time"

	"github.com/klarbok/klarbok/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest is one debit or credit row of a draft entry request.
// Exactly one of the two amounts must be greater than zero.
type EntryLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
}

// CreateJournalEntryRequest defines the payload for creating a draft entry.
type CreateJournalEntryRequest struct {
	FiscalYearID string             `json:"fiscalYearID" binding:"required"`
	EntryDate    time.Time          `json:"entryDate" binding:"required"`
	Description  string             `json:"description" binding:"required"`
	SourceType   domain.EntrySource `json:"sourceType" binding:"omitempty,oneof=MANUAL IMPORT RECURRING TEMPLATE"`
	Lines        []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateJournalEntryRequest defines the payload for editing a draft entry.
// Nil fields are left unchanged; a non-nil Lines replaces all lines.
type UpdateJournalEntryRequest struct {
	EntryDate   *time.Time          `json:"entryDate"`
	Description *string             `json:"description"`
	Lines       *[]EntryLineRequest `json:"lines" binding:"omitempty,min=2,dive"`
}

// EntryLineResponse defines the data returned for a journal entry line.
type EntryLineResponse struct {
	LineID       string          `json:"lineID"`
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	LineOrder    int             `json:"lineOrder"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID            string              `json:"entryID"`
	FiscalYearID       string              `json:"fiscalYearID"`
	VerificationNumber int64               `json:"verificationNumber,omitempty"`
	EntryDate          time.Time           `json:"entryDate"`
	Description        string              `json:"description"`
	Status             domain.EntryStatus  `json:"status"`
	SourceType         domain.EntrySource  `json:"sourceType"`
	PostedAt           *time.Time          `json:"postedAt,omitempty"`
	OriginalEntryID    *string             `json:"originalEntryID,omitempty"`
	ReversingEntryID   *string             `json:"reversingEntryID,omitempty"`
	Lines              []EntryLineResponse `json:"lines,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	CreatedBy          string              `json:"createdBy"`
}

// ListJournalEntriesParams holds query parameters for listing entries.
type ListJournalEntriesParams struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// ToEntryLineResponse converts a domain line.
func ToEntryLineResponse(l *domain.JournalEntryLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:       l.LineID,
		AccountID:    l.AccountID,
		DebitAmount:  l.DebitAmount,
		CreditAmount: l.CreditAmount,
		LineOrder:    l.LineOrder,
	}
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:            e.EntryID,
		FiscalYearID:       e.FiscalYearID,
		VerificationNumber: e.VerificationNumber,
		EntryDate:          e.EntryDate,
		Description:        e.Description,
		Status:             e.Status,
		SourceType:         e.SourceType,
		PostedAt:           e.PostedAt,
		OriginalEntryID:    e.OriginalEntryID,
		ReversingEntryID:   e.ReversingEntryID,
		CreatedAt:          e.CreatedAt,
		CreatedBy:          e.CreatedBy,
	}
	for i := range e.Lines {
		resp.Lines = append(resp.Lines, ToEntryLineResponse(&e.Lines[i]))
	}
	return resp
}
