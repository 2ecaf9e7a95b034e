package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/klarbok/klarbok/internal/apperrors"
	"github.com/klarbok/klarbok/internal/core/domain"
	portsrepo "github.com/klarbok/klarbok/internal/core/ports/repositories"
	portssvc "github.com/klarbok/klarbok/internal/core/ports/services"
	"github.com/klarbok/klarbok/internal/dto"
	"github.com/klarbok/klarbok/internal/middleware"
	"github.com/shopspring/decimal"
)

var ErrTemplateNoLines = errors.New("template needs at least two account-bearing lines")

type templateService struct {
	templateRepo portsrepo.TemplateRepositoryFacade
	accountSvc   portssvc.AccountSvcFacade
}

// NewTemplateService creates a new template service.
func NewTemplateService(templateRepo portsrepo.TemplateRepositoryFacade, accountSvc portssvc.AccountSvcFacade) portssvc.TemplateSvcFacade {
	return &templateService{templateRepo: templateRepo, accountSvc: accountSvc}
}

var _ portssvc.TemplateSvcFacade = (*templateService)(nil)

func (s *templateService) SaveAsTemplate(ctx context.Context, organizationID string, req dto.SaveTemplateRequest, creatorUserID string) (*domain.JournalEntryTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Lines without an account are dropped, not rejected: a half-filled draft
	// is still worth capturing.
	lines := make([]domain.TemplateLine, 0, len(req.Lines))
	accountIDs := make([]string, 0, len(req.Lines))
	for _, lr := range req.Lines {
		if lr.AccountID == "" {
			continue
		}
		line := domain.TemplateLine{
			AccountID: lr.AccountID,
			LineOrder: len(lines),
		}
		if req.IncludeAmounts {
			line.DebitAmount = lr.DebitAmount
			line.CreditAmount = lr.CreditAmount
		} else {
			line.DebitAmount = decimal.Zero
			line.CreditAmount = decimal.Zero
		}
		lines = append(lines, line)
		accountIDs = append(accountIDs, lr.AccountID)
	}
	// A single-line template could never rehydrate into a postable entry.
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTemplateNoLines, len(lines))
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, organizationID, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}

	now := time.Now().UTC()
	template := domain.JournalEntryTemplate{
		TemplateID:         uuid.NewString(),
		OrganizationID:     organizationID,
		Name:               req.Name,
		Description:        req.Description,
		DefaultDescription: req.DefaultDescription,
		UseCount:           0,
		Lines:              lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.templateRepo.SaveTemplate(ctx, template); err != nil {
		logger.Error("Failed to save template in repository", slog.String("error", err.Error()), slog.String("template_id", template.TemplateID))
		return nil, err
	}

	logger.Info("Template saved", slog.String("template_id", template.TemplateID), slog.Int("line_count", len(lines)))
	return &template, nil
}

func (s *templateService) GetTemplateByID(ctx context.Context, organizationID, templateID string) (*domain.JournalEntryTemplate, error) {
	return s.templateRepo.FindTemplateByID(ctx, organizationID, templateID)
}

func (s *templateService) ListTemplates(ctx context.Context, organizationID string) ([]domain.JournalEntryTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	templates, err := s.templateRepo.ListTemplatesByOrganization(ctx, organizationID)
	if err != nil {
		logger.Error("Failed to list templates from repository", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, err
	}
	if templates == nil {
		return []domain.JournalEntryTemplate{}, nil
	}
	return templates, nil
}

func (s *templateService) Instantiate(ctx context.Context, organizationID, templateID string, req dto.InstantiateTemplateRequest) (*dto.DraftEntryPayload, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	template, err := s.templateRepo.FindTemplateByID(ctx, organizationID, templateID)
	if err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = template.DefaultDescription
	}

	payload := &dto.DraftEntryPayload{
		EntryDate:   req.EntryDate,
		Description: description,
		SourceType:  domain.SourceTemplate,
	}
	for _, line := range template.Lines {
		payload.Lines = append(payload.Lines, dto.EntryLineRequest{
			AccountID:    line.AccountID,
			DebitAmount:  line.DebitAmount,
			CreditAmount: line.CreditAmount,
		})
	}

	// Usage is recorded even when the caller never saves the resulting draft.
	if err := s.templateRepo.RecordTemplateUse(ctx, templateID, time.Now().UTC()); err != nil {
		logger.Warn("Failed to record template use", slog.String("error", err.Error()), slog.String("template_id", templateID))
	}

	logger.Info("Template instantiated", slog.String("template_id", templateID))
	return payload, nil
}

func (s *templateService) DeleteTemplate(ctx context.Context, organizationID, templateID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.templateRepo.DeleteTemplate(ctx, organizationID, templateID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to delete template in repository", slog.String("error", err.Error()), slog.String("template_id", templateID))
		}
		return err
	}

	logger.Info("Template deleted", slog.String("template_id", templateID))
	return nil
}
