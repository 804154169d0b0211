package runs

import (
	"context"
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/app/models"
	"sort"
	"sync"
)

// RunMemoryRepository keeps runs for the lifetime of the process. It backs
// the runner when no MongoDB is configured.
type RunMemoryRepository struct {
	mu   sync.RWMutex
	runs map[string]models.Run
}

func NewRunMemoryRepository() contracts.RunRepository {
	return &RunMemoryRepository{
		runs: make(map[string]models.Run),
	}
}

func (repo *RunMemoryRepository) CreateRun(ctx context.Context, run *models.Run) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.runs[run.ID] = cloneRun(run)
	return nil
}

func (repo *RunMemoryRepository) UpdateRun(ctx context.Context, run *models.Run) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.runs[run.ID]; !ok {
		return nil
	}
	repo.runs[run.ID] = cloneRun(run)
	return nil
}

func (repo *RunMemoryRepository) FindRunByID(ctx context.Context, runID string) (*models.Run, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	run, ok := repo.runs[runID]
	if !ok {
		return nil, nil
	}
	return &run, nil
}

func (repo *RunMemoryRepository) ListRuns(ctx context.Context, limit int) ([]models.Run, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	runs := make([]models.Run, 0, len(repo.runs))
	for _, run := range repo.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// cloneRun copies the result slices so callers mutating a run in flight do
// not race with readers of the stored copy.
func cloneRun(run *models.Run) models.Run {
	stored := *run
	stored.Suites = append([]string(nil), run.Suites...)
	stored.Results = make([]models.SuiteResult, len(run.Results))
	for i, suite := range run.Results {
		suite.Cases = append([]models.CaseResult(nil), suite.Cases...)
		stored.Results[i] = suite
	}
	return stored
}
