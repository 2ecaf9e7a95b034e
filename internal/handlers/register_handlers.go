package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/klarbok/klarbok/internal/core/domain"
	portssvc "github.com/klarbok/klarbok/internal/core/ports/services"
	"github.com/klarbok/klarbok/internal/middleware"
	"github.com/klarbok/klarbok/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// registerValidators installs custom binding rules on the Gin validator engine.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	// basaccount accepts four digit BAS account numbers in classes 1 to 8.
	_ = v.RegisterValidation("basaccount", func(fl validator.FieldLevel) bool {
		_, err := domain.AccountClassForNumber(fl.Field().String())
		return err == nil
	})
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.ActorMiddleware())

	registerOrganizationRoutes(v1, services.Organization)

	// All bookkeeping data hangs off one organization.
	orgScoped := v1.Group("/organizations/:orgID")
	registerAccountRoutes(orgScoped, services.Account)
	registerFiscalYearRoutes(orgScoped, services.FiscalYear)
	registerJournalRoutes(orgScoped, services.Journal)
	registerLedgerRoutes(orgScoped, services.Ledger)
	registerTemplateRoutes(orgScoped, services.Template)
	registerImportRoutes(orgScoped, services.Import, newImportRateLimiter(cfg))
}

// newImportRateLimiter builds the in-memory limiter applied to SIE uploads.
func newImportRateLimiter(cfg *config.Config) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(cfg.ImportRateLimit)
	if err != nil {
		rate, _ = limiter.NewRateFromFormatted("10-M")
	}
	return limiter.New(memory.NewStore(), rate)
}
