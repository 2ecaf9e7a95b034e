package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/klarbok/klarbok/internal/core/ports/services"
	"github.com/klarbok/klarbok/internal/middleware"
)

// organizationHandler handles HTTP requests for organizations.
type organizationHandler struct {
	orgService portssvc.OrganizationSvcFacade
}

func newOrganizationHandler(orgService portssvc.OrganizationSvcFacade) *organizationHandler {
	return &organizationHandler{orgService: orgService}
}

type createOrganizationRequest struct {
	Name               string `json:"name" binding:"required"`
	OrganizationNumber string `json:"organizationNumber"`
}

func (h *organizationHandler) createOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createOrganization", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, _ := middleware.GetActorFromContext(c.Request.Context())
	org, err := h.orgService.CreateOrganization(c.Request.Context(), req.Name, req.OrganizationNumber, actorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, org)
}

func (h *organizationHandler) getOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	org, err := h.orgService.GetOrganizationByID(c.Request.Context(), orgID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, org)
}

// registerOrganizationRoutes registers organization specific routes
func registerOrganizationRoutes(group *gin.RouterGroup, orgService portssvc.OrganizationSvcFacade) {
	h := newOrganizationHandler(orgService)

	orgs := group.Group("/organizations")
	{
		orgs.POST("", h.createOrganization)
		orgs.GET("/:orgID", h.getOrganization)
	}
}
