package audit

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "caseflow_backend/internal/http"
	"caseflow_backend/platform/logger"
	"caseflow_backend/platform/validator"
)

// Module is the audit bounded context module implementing http.Module.
type Module struct {
	handler  *Handler
	recorder *Recorder
	repo     *Repository
}

// NewModule creates and initializes the audit module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	recorder := NewRecorder(repo, log)
	h := NewHandler(repo, val)

	return &Module{
		handler:  h,
		recorder: recorder,
		repo:     repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "audit"
}

// Recorder returns the write side used by other modules.
func (m *Module) Recorder() *Recorder {
	return m.recorder
}

// RegisterRoutes mounts the audit log read API. Role gating happens in the
// handler so non-admin callers get the uniform permission error.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/audit-log", m.handler.List)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
