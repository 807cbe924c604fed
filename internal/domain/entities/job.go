package entities

import (
	"time"

	"github.com/google/uuid"
)

// ScheduledJob is a named command re-run every Interval seconds.
// Jobs live only in memory and disappear when the process exits.
type ScheduledJob struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Command   string     `json:"command"`
	Interval  int        `json:"interval"`
	CreatedAt time.Time  `json:"created_at"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	NextRun   time.Time  `json:"next_run"`
	Runs      int        `json:"runs"`
}

func NewScheduledJob(name, command string, interval int, now time.Time) *ScheduledJob {
	job := &ScheduledJob{
		ID:        uuid.New().String(),
		Name:      name,
		Command:   command,
		Interval:  interval,
		CreatedAt: now,
	}
	job.NextRun = now.Add(job.Period())
	return job
}

func (j *ScheduledJob) Period() time.Duration {
	return time.Duration(j.Interval) * time.Second
}

func (j *ScheduledJob) Due(now time.Time) bool {
	return !now.Before(j.NextRun)
}

// MarkRun records a fire at now and schedules the next one.
// If the loop fell behind by several periods the missed fires are skipped.
func (j *ScheduledJob) MarkRun(now time.Time) {
	ran := now
	j.LastRun = &ran
	j.Runs++
	j.NextRun = j.NextRun.Add(j.Period())
	if !j.NextRun.After(now) {
		j.NextRun = now.Add(j.Period())
	}
}
