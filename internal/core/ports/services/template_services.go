package services

import (
	"context"

	"github.com/klarbok/klarbok/internal/core/domain"
	"github.com/klarbok/klarbok/internal/dto"
)

// TemplateSvcFacade exposes journal entry template operations.
type TemplateSvcFacade interface {
	SaveAsTemplate(ctx context.Context, organizationID string, req dto.SaveTemplateRequest, creatorUserID string) (*domain.JournalEntryTemplate, error)
	GetTemplateByID(ctx context.Context, organizationID, templateID string) (*domain.JournalEntryTemplate, error)
	ListTemplates(ctx context.Context, organizationID string) ([]domain.JournalEntryTemplate, error)
	// Instantiate produces a draft-shaped payload from a template and records
	// the usage, whether or not the draft is ultimately saved.
	Instantiate(ctx context.Context, organizationID, templateID string, req dto.InstantiateTemplateRequest) (*dto.DraftEntryPayload, error)
	DeleteTemplate(ctx context.Context, organizationID, templateID string) error
}
