// Package cleanup holds the teardown side of fixtures: every deletion is
// attempted, failures are collected and nothing is ever raised.
package cleanup

import (
	"context"
	"fmt"
	"sync"
)

type Failure struct {
	Target string `json:"target" bson:"target"`
	Reason string `json:"reason" bson:"reason"`
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %s", f.Target, f.Reason)
}

// Report is the outcome of a best-effort teardown.
type Report struct {
	Attempted int       `json:"attempted" bson:"attempted"`
	Failures  []Failure `json:"failures,omitempty" bson:"failures,omitempty"`
}

// Attempt runs fn and records its failure, including a panic, under target.
func (r *Report) Attempt(target string, fn func() error) {
	r.Attempted++
	defer func() {
		if rec := recover(); rec != nil {
			r.Fail(target, fmt.Errorf("panic: %v", rec))
		}
	}()
	if err := fn(); err != nil {
		r.Fail(target, err)
	}
}

func (r *Report) Fail(target string, err error) {
	r.Failures = append(r.Failures, Failure{Target: target, Reason: err.Error()})
}

func (r *Report) Merge(other Report) {
	r.Attempted += other.Attempted
	r.Failures = append(r.Failures, other.Failures...)
}

func (r Report) OK() bool {
	return len(r.Failures) == 0
}

func (r Report) Warnings() []string {
	warnings := make([]string, 0, len(r.Failures))
	for _, failure := range r.Failures {
		warnings = append(warnings, failure.String())
	}
	return warnings
}

type Task func(ctx context.Context) Report

type namedTask struct {
	name string
	run  Task
}

// Registry collects teardown tasks while a scenario runs and replays them
// newest first.
type Registry struct {
	mu    sync.Mutex
	tasks []namedTask
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(name string, task Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, namedTask{name: name, run: task})
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// Run executes and clears every registered task. A panicking task is
// recorded and the remaining tasks still run.
func (r *Registry) Run(ctx context.Context) Report {
	r.mu.Lock()
	tasks := r.tasks
	r.tasks = nil
	r.mu.Unlock()

	var report Report
	for i := len(tasks) - 1; i >= 0; i-- {
		task := tasks[i]
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					report.Attempted++
					report.Fail(task.name, fmt.Errorf("panic: %v", rec))
				}
			}()
			report.Merge(task.run(ctx))
		}()
	}
	return report
}
