package repositories

import (
	"context"
	"time"

	"github.com/klarbok/klarbok/internal/core/domain"
)

// TemplateReader defines read operations for journal entry templates.
type TemplateReader interface {
	// FindTemplateByID retrieves a template with its lines.
	FindTemplateByID(ctx context.Context, organizationID, templateID string) (*domain.JournalEntryTemplate, error)

	// ListTemplatesByOrganization retrieves templates most-used first.
	ListTemplatesByOrganization(ctx context.Context, organizationID string) ([]domain.JournalEntryTemplate, error)
}

// TemplateWriter defines write operations for journal entry templates.
type TemplateWriter interface {
	// SaveTemplate inserts a template and its lines.
	SaveTemplate(ctx context.Context, template domain.JournalEntryTemplate) error

	// DeleteTemplate removes a template. Entries created from it are unaffected.
	DeleteTemplate(ctx context.Context, organizationID, templateID string) error

	// RecordTemplateUse increments use_count and sets last_used_at.
	RecordTemplateUse(ctx context.Context, templateID string, usedAt time.Time) error
}

// TemplateRepositoryFacade combines all template repository interfaces.
type TemplateRepositoryFacade interface {
	TemplateReader
	TemplateWriter
}
