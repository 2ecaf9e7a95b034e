package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	portssvc "github.com/klarbok/klarbok/internal/core/ports/services"
	"github.com/klarbok/klarbok/internal/dto"
	"github.com/klarbok/klarbok/internal/middleware"
)

// importHandler handles SIE file upload, validation, import and export.
type importHandler struct {
	importService portssvc.ImportSvcFacade
}

func newImportHandler(importService portssvc.ImportSvcFacade) *importHandler {
	return &importHandler{importService: importService}
}

// readUpload pulls the uploaded file bytes out of the multipart form.
func readUpload(c *gin.Context) ([]byte, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return raw, fileHeader.Filename, nil
}

// validateImport parses the uploaded SIE file and reconciles it against the
// organization without writing anything.
func (h *importHandler) validateImport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	raw, filename, err := readUpload(c)
	if err != nil {
		logger.Warn("Failed to read SIE upload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file upload named 'file' is required"})
		return
	}

	parsed, err := h.importService.ParseFile(c.Request.Context(), raw, filename)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	result, err := h.importService.ValidateImport(c.Request.Context(), orgID, parsed)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// runImport parses the upload again and writes the accounts the caller opted in to.
func (h *importHandler) runImport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	raw, filename, err := readUpload(c)
	if err != nil {
		logger.Warn("Failed to read SIE upload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file upload named 'file' is required"})
		return
	}

	opts := dto.ImportOptions{
		ImportAccounts: c.DefaultPostForm("importAccounts", "true") == "true",
		SkipExisting:   c.DefaultPostForm("skipExisting", "true") == "true",
	}

	parsed, err := h.importService.ParseFile(c.Request.Context(), raw, filename)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	actorID, _ := middleware.GetActorFromContext(c.Request.Context())
	report, err := h.importService.ImportAccounts(c.Request.Context(), orgID, parsed, opts, actorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *importHandler) exportSIE4(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	out, err := h.importService.ExportSIE4(c.Request.Context(), c.Param("orgID"), c.Param("fiscalYearID"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="export.se"`)
	c.Data(http.StatusOK, "application/octet-stream", out)
}

func (h *importHandler) exportSIE5(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	out, err := h.importService.ExportSIE5(c.Request.Context(), c.Param("orgID"), c.Param("fiscalYearID"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="export.sie"`)
	c.Data(http.StatusOK, "application/xml", out)
}

// registerImportRoutes registers SIE import and export routes. Uploads are
// rate limited per client IP.
func registerImportRoutes(group *gin.RouterGroup, importService portssvc.ImportSvcFacade, limiterInstance *limiter.Limiter) {
	h := newImportHandler(importService)

	imports := group.Group("/sie", middleware.RateLimit(limiterInstance))
	{
		imports.POST("/validate", h.validateImport)
		imports.POST("/import", h.runImport)
	}

	exports := group.Group("/fiscal-years/:fiscalYearID/export")
	{
		exports.GET("/sie4", h.exportSIE4)
		exports.GET("/sie5", h.exportSIE5)
	}
}
