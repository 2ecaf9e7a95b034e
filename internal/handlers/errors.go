package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klarbok/klarbok/internal/apperrors"
	"github.com/klarbok/klarbok/internal/core/services"
	"github.com/klarbok/klarbok/internal/sie"
)

// respondServiceError translates service errors into HTTP responses. Known
// domain failures surface their message; everything else becomes an opaque 500.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, services.ErrEntryMinLines),
		errors.Is(err, services.ErrEntryUnbalanced),
		errors.Is(err, services.ErrDescriptionMissing),
		errors.Is(err, services.ErrDateOutsideFiscalYear),
		errors.Is(err, services.ErrAccountInactive),
		errors.Is(err, services.ErrFiscalYearInverted),
		errors.Is(err, services.ErrLedgerRangeInverted),
		errors.Is(err, services.ErrTemplateNoLines):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, services.ErrEntryNotDraft),
		errors.Is(err, services.ErrEntryNotPosted),
		errors.Is(err, services.ErrFiscalYearClosed),
		errors.Is(err, services.ErrAlreadyClosed),
		errors.Is(err, services.ErrFiscalYearOverlap),
		errors.Is(err, services.ErrAlreadyReversed),
		errors.Is(err, services.ErrReversalOfReversal):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, sie.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, sie.ErrUnsupportedFormat):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	case errors.Is(err, sie.ErrTimeout):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": err.Error()})
	default:
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
