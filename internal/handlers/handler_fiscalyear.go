package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/klarbok/klarbok/internal/core/ports/services"
	"github.com/klarbok/klarbok/internal/dto"
	"github.com/klarbok/klarbok/internal/middleware"
)

// fiscalYearHandler handles HTTP requests for fiscal years.
type fiscalYearHandler struct {
	fyService portssvc.FiscalYearSvcFacade
}

func newFiscalYearHandler(fyService portssvc.FiscalYearSvcFacade) *fiscalYearHandler {
	return &fiscalYearHandler{fyService: fyService}
}

func (h *fiscalYearHandler) createFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	var req dto.CreateFiscalYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createFiscalYear", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, _ := middleware.GetActorFromContext(c.Request.Context())
	fy, err := h.fyService.CreateFiscalYear(c.Request.Context(), orgID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToFiscalYearResponse(fy))
}

func (h *fiscalYearHandler) getFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	fy, err := h.fyService.GetFiscalYearByID(c.Request.Context(), c.Param("orgID"), c.Param("fiscalYearID"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalYearResponse(fy))
}

func (h *fiscalYearHandler) listFiscalYears(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	years, err := h.fyService.ListFiscalYears(c.Request.Context(), c.Param("orgID"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalYearResponses(years))
}

func (h *fiscalYearHandler) closeFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, _ := middleware.GetActorFromContext(c.Request.Context())
	fy, err := h.fyService.CloseFiscalYear(c.Request.Context(), c.Param("orgID"), c.Param("fiscalYearID"), actorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalYearResponse(fy))
}

// registerFiscalYearRoutes registers fiscal year specific routes
func registerFiscalYearRoutes(group *gin.RouterGroup, fyService portssvc.FiscalYearSvcFacade) {
	h := newFiscalYearHandler(fyService)

	years := group.Group("/fiscal-years")
	{
		years.POST("", h.createFiscalYear)
		years.GET("", h.listFiscalYears)
		years.GET("/:fiscalYearID", h.getFiscalYear)
		years.POST("/:fiscalYearID/close", h.closeFiscalYear)
	}
}
