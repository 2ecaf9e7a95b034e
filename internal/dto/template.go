package dto

import (
	"time"

	"github.com/klarbok/klarbok/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TemplateLineRequest is one line of a save-as-template request. Lines without
// an account are dropped during capture rather than rejected.
type TemplateLineRequest struct {
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
}

// SaveTemplateRequest captures a draft entry's line shape as a template.
// When IncludeAmounts is false the stored lines carry zero amounts.
type SaveTemplateRequest struct {
	Name               string                `json:"name" binding:"required"`
	Description        string                `json:"description"`
	DefaultDescription string                `json:"defaultDescription"`
	IncludeAmounts     bool                  `json:"includeAmounts"`
	Lines              []TemplateLineRequest `json:"lines" binding:"required,dive"`
}

// InstantiateTemplateRequest overrides applied when rehydrating a template
// into a draft entry payload.
type InstantiateTemplateRequest struct {
	EntryDate   time.Time `json:"entryDate" binding:"required"`
	Description string    `json:"description"`
}

// TemplateLineResponse defines the data returned for a template line.
type TemplateLineResponse struct {
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	LineOrder    int             `json:"lineOrder"`
}

// TemplateResponse defines the data returned for a template.
type TemplateResponse struct {
	TemplateID         string                 `json:"templateID"`
	Name               string                 `json:"name"`
	Description        string                 `json:"description"`
	DefaultDescription string                 `json:"defaultDescription"`
	UseCount           int64                  `json:"useCount"`
	LastUsedAt         *time.Time             `json:"lastUsedAt,omitempty"`
	Lines              []TemplateLineResponse `json:"lines,omitempty"`
	CreatedAt          time.Time              `json:"createdAt"`
}

// DraftEntryPayload is the draft-shaped result of instantiating a template.
// It is not persisted; the caller feeds it into the journal entry engine.
type DraftEntryPayload struct {
	EntryDate   time.Time          `json:"entryDate"`
	Description string             `json:"description"`
	SourceType  domain.EntrySource `json:"sourceType"`
	Lines       []EntryLineRequest `json:"lines"`
}

// ToTemplateResponse converts a domain template to its response DTO.
func ToTemplateResponse(t *domain.JournalEntryTemplate) TemplateResponse {
	resp := TemplateResponse{
		TemplateID:         t.TemplateID,
		Name:               t.Name,
		Description:        t.Description,
		DefaultDescription: t.DefaultDescription,
		UseCount:           t.UseCount,
		LastUsedAt:         t.LastUsedAt,
		CreatedAt:          t.CreatedAt,
	}
	for _, l := range t.Lines {
		resp.Lines = append(resp.Lines, TemplateLineResponse{
			AccountID:    l.AccountID,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			LineOrder:    l.LineOrder,
		})
	}
	return resp
}

// ToTemplateResponses converts a slice of domain templates.
func ToTemplateResponses(templates []domain.JournalEntryTemplate) []TemplateResponse {
	out := make([]TemplateResponse, len(templates))
	for i := range templates {
		out[i] = ToTemplateResponse(&templates[i])
	}
	return out
}
