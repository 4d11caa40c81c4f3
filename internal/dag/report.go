// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package dag

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/specialistvlad/assetgrid/internal/task"
)

// clock is swapped in tests.
var clock = time.Now

// Outcome is what happened to one task during a run.
type Outcome struct {
	Task   string
	Status Status
	Err    error
	Result *task.Result
	Start  time.Time
	End    time.Time
}

// Report collects the outcome of every task of a run. It is safe for
// concurrent use by the executor's workers.
type Report struct {
	mu       sync.Mutex
	outcomes map[string]*Outcome
	canceled error
}

func newReport(ids []string) *Report {
	r := &Report{outcomes: make(map[string]*Outcome, len(ids))}
	for _, id := range ids {
		r.outcomes[id] = &Outcome{Task: id, Status: Pending}
	}
	return r
}

func (r *Report) start(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.outcomes[id]
	o.Status = Running
	o.Start = clock()
}

func (r *Report) settle(id string, status Status, res *task.Result, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.outcomes[id]
	o.Status = status
	o.Result = res
	o.Err = err
	o.End = clock()
}

// cancel records why tasks were skipped without an upstream failure.
func (r *Report) cancel(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.canceled == nil {
		r.canceled = err
	}
}

// Outcome returns a copy of the outcome recorded for the given task.
func (r *Report) Outcome(id string) (Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.outcomes[id]
	if !ok {
		return Outcome{}, false
	}
	return *o, true
}

// Outcomes returns copies of all outcomes, sorted by task name.
func (r *Report) Outcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Outcome, 0, len(r.outcomes))
	for _, o := range r.outcomes {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Task < out[j].Task })
	return out
}

// WithStatus returns the sorted names of tasks that ended with the status.
func (r *Report) WithStatus(s Status) []string {
	var ids []string
	for _, o := range r.Outcomes() {
		if o.Status == s {
			ids = append(ids, o.Task)
		}
	}
	return ids
}

// Outputs returns every file written during the run, sorted.
func (r *Report) Outputs() []string {
	var files []string
	for _, o := range r.Outcomes() {
		if o.Result != nil {
			files = append(files, o.Result.Outputs...)
		}
	}
	sort.Strings(files)
	return files
}

// Err joins the errors of the tasks that failed, followed by the context
// error when the run was cut short. Tasks skipped because of an upstream
// failure are symptoms of that failure and are not included.
func (r *Report) Err() error {
	var errs []error
	for _, o := range r.Outcomes() {
		if o.Status == Failed && o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	r.mu.Lock()
	if r.canceled != nil {
		errs = append(errs, r.canceled)
	}
	r.mu.Unlock()
	return errors.Join(errs...)
}
