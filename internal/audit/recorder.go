package audit

import (
	"context"
	"time"

	"caseflow_backend/platform/logger"
)

// Recorder writes audit entries without ever failing the operation that
// produced them. A write failure is logged and swallowed; audit logging is
// observability, not a precondition for business writes.
type Recorder struct {
	repo *Repository
	log  *logger.Logger
}

func NewRecorder(repo *Repository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record persists the entry on a detached context so an already-cancelled
// request cannot drop the trail of a mutation that committed.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := r.repo.Insert(writeCtx, entry); err != nil {
		r.log.AuditWriteFailed(entry.ActionType, entry.EntityType, entry.EntityID, err)
	}
}
