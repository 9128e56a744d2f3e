// Package scheduler runs background work for the case lifecycle over asynq:
// periodically sweeping cases that have been sitting in QUERY_RAISED too long
// so someone chases the open query.
package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskStaleQuerySweep = "cases.stale_query_sweep"

type StaleQuerySweepPayload struct {
	Cutoff time.Time `json:"cutoff"`
}

func NewStaleQuerySweepTask(payload StaleQuerySweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStaleQuerySweep, data), nil
}

func ParseStaleQuerySweepPayload(task *asynq.Task) (StaleQuerySweepPayload, error) {
	var payload StaleQuerySweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return StaleQuerySweepPayload{}, err
	}
	return payload, nil
}
