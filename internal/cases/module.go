// Package cases provides the case lifecycle bounded context module.
package cases

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"caseflow_backend/internal/audit"
	"caseflow_backend/internal/cases/domain"
	"caseflow_backend/internal/cases/handler"
	"caseflow_backend/internal/cases/repository"
	"caseflow_backend/internal/cases/service"
	"caseflow_backend/internal/events"
	apphttp "caseflow_backend/internal/http"
	leadrepo "caseflow_backend/internal/leads/repository"
	"caseflow_backend/platform/config"
	"caseflow_backend/platform/logger"
	"caseflow_backend/platform/validator"
)

// Module is the cases bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
	leads   *leadrepo.Repository
	log     *logger.Logger
}

// NewModule creates and initializes the cases module. The status transition
// table is chosen once at startup from configuration.
func NewModule(pool *pgxpool.Pool, auditor *audit.Recorder, bus events.Bus, val *validator.Validator, cfg config.CaseConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	leads := leadrepo.New(pool)

	transitions := domain.TableFor(cfg.GetStatusStrict())
	svc := service.New(repo, leads, auditor, bus, log, transitions)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
		leads:   leads,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "cases"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts case routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/leads/:id/convert", m.handler.ConvertLead)

	group := ctx.Protected.Group("/cases")
	group.GET("", m.handler.ListCases)
	group.GET("/stats", m.handler.GetCaseStats)
	group.POST("/bulk-assign", m.handler.BulkAssignCases)
	group.GET("/:id", m.handler.GetCaseByID)
	group.PATCH("/:id/status", m.handler.UpdateCaseStatus)
	group.PATCH("/:id/priority", m.handler.UpdateCasePriority)
	group.POST("/:id/assign", m.handler.AssignCase)
	group.GET("/:id/history", m.handler.GetAssignmentHistory)
	group.DELETE("/:id", m.handler.DeleteCase)
}

// RegisterHandlers subscribes to domain events for lead activity bookkeeping.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.CaseAssigned{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.CaseAssigned:
		return m.leads.AddActivity(ctx, e.LeadID, e.AssignedBy, "case_assigned", map[string]interface{}{
			"caseId":    e.CaseID.String(),
			"newUserId": e.NewUserID.String(),
		})
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
