package scheduler

import (
	"context"
	"fmt"

	casesrepo "caseflow_backend/internal/cases/repository"
	leadrepo "caseflow_backend/internal/leads/repository"
	"caseflow_backend/platform/config"
	"caseflow_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	cases  *casesrepo.Repository
	leads  *leadrepo.Repository
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		cases:  casesrepo.New(pool),
		leads:  leadrepo.New(pool),
		log:    log,
	}

	mux.HandleFunc(TaskStaleQuerySweep, w.handleStaleQuerySweep)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleStaleQuerySweep surfaces cases parked in QUERY_RAISED since before
// the cutoff. Each hit gets a nudge on its lead activity trail; the sweep
// never mutates case state itself.
func (w *Worker) handleStaleQuerySweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseStaleQuerySweepPayload(task)
	if err != nil {
		return err
	}

	stale, err := w.cases.ListStaleQueryRaised(ctx, payload.Cutoff)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	for _, item := range stale {
		if err := w.leads.AddActivity(ctx, item.LeadID, uuid.Nil, "case_query_stale", map[string]interface{}{
			"caseId":     item.ID.String(),
			"caseNumber": item.CaseNumber,
			"staleSince": item.UpdatedAt,
		}); err != nil {
			w.log.Warn("stale query nudge failed", "caseId", item.ID.String(), "error", err)
		}
	}

	w.log.Info("stale query sweep completed", "cutoff", payload.Cutoff, "stale", len(stale))
	return nil
}
