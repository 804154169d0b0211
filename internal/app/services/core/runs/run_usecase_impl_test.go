package runs

import (
	"context"
	"errors"
	"openmrs-billing-e2e/internal/app/config"
	"openmrs-billing-e2e/internal/app/models"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/dto/requests"
	"openmrs-billing-e2e/internal/pkg/dto/responses"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExecutor struct {
	suites  []responses.Suite
	results map[string][]models.CaseResult
	block   chan struct{}
}

func (f *fakeExecutor) Suites() []responses.Suite {
	return f.suites
}

func (f *fakeExecutor) HasSuite(name string) bool {
	for _, suite := range f.suites {
		if suite.Name == name {
			return true
		}
	}
	return false
}

func (f *fakeExecutor) Execute(ctx context.Context, runID string, suiteNames []string, onCase func(result models.CaseResult)) []models.SuiteResult {
	if f.block != nil {
		<-f.block
	}
	results := make([]models.SuiteResult, 0, len(suiteNames))
	for _, name := range suiteNames {
		suite := models.SuiteResult{Name: name}
		for _, result := range f.results[name] {
			result.Suite = name
			onCase(result)
			suite.Cases = append(suite.Cases, result)
		}
		results = append(results, suite)
	}
	return results
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.RunEvent
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, event *models.RunEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, *event)
	return f.err
}

func (f *fakePublisher) Close() error {
	return nil
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]string, 0, len(f.events))
	for _, event := range f.events {
		types = append(types, event.Type)
	}
	return types
}

func newTestExecutor() *fakeExecutor {
	return &fakeExecutor{
		suites: []responses.Suite{
			{Name: "billing-basic", Cases: 1},
			{Name: "billing-operations", Serial: true, Cases: 2},
		},
		results: map[string][]models.CaseResult{
			"billing-basic": {
				{Name: "Load billing dashboard", Status: constvars.CaseStatusPassed},
			},
			"billing-operations": {
				{Name: "Create and pay in full", Status: constvars.CaseStatusPassed},
				{Name: "Remove line item", Status: constvars.CaseStatusFailed, Error: "assertion failed: 1 line items"},
			},
		},
	}
}

func newTestRunUsecase(executor *fakeExecutor, publisher *fakePublisher) (*runUsecase, *RunMemoryRepository) {
	repo := NewRunMemoryRepository().(*RunMemoryRepository)
	internalConfig := &config.InternalConfig{App: config.App{RunTimeoutInMinutes: 1}}
	usecase := NewRunUsecase(repo, publisher, executor, internalConfig, zap.NewNop()).(*runUsecase)
	return usecase, repo
}

func TestExecuteRun(t *testing.T) {
	t.Run("Runs Requested Suites", func(t *testing.T) {
		publisher := &fakePublisher{}
		usecase, repo := newTestRunUsecase(newTestExecutor(), publisher)
		ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")

		run, err := usecase.ExecuteRun(ctx, &requests.StartRun{Suites: []string{"billing-basic"}})
		require.NoError(t, err)

		assert.Equal(t, constvars.RunStatusPassed, run.Status)
		assert.Equal(t, "req-1", run.RequestID)
		assert.Equal(t, models.RunSummary{Passed: 1}, run.Summary)
		require.NotNil(t, run.FinishedAt)

		stored, err := repo.FindRunByID(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, constvars.RunStatusPassed, stored.Status)
		assert.Equal(t, []string{
			constvars.RunEventStarted,
			constvars.RunEventCaseFinished,
			constvars.RunEventFinished,
		}, publisher.types())
	})

	t.Run("Empty Request Runs Every Suite", func(t *testing.T) {
		usecase, _ := newTestRunUsecase(newTestExecutor(), &fakePublisher{})

		run, err := usecase.ExecuteRun(context.Background(), &requests.StartRun{})
		require.NoError(t, err)

		assert.Equal(t, []string{"billing-basic", "billing-operations"}, run.Suites)
		assert.Equal(t, constvars.RunStatusFailed, run.Status)
		assert.Equal(t, models.RunSummary{Passed: 2, Failed: 1}, run.Summary)
	})

	t.Run("Unknown Suite Is Rejected", func(t *testing.T) {
		publisher := &fakePublisher{}
		usecase, repo := newTestRunUsecase(newTestExecutor(), publisher)

		_, err := usecase.ExecuteRun(context.Background(), &requests.StartRun{Suites: []string{"billing-refunds"}})
		require.Error(t, err)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
		assert.Contains(t, customErr.DevMessage, "billing-refunds")
		assert.Empty(t, publisher.types())

		runs, err := repo.ListRuns(context.Background(), 10)
		require.NoError(t, err)
		assert.Empty(t, runs)
	})

	t.Run("Blank Suite Name Fails Validation", func(t *testing.T) {
		usecase, _ := newTestRunUsecase(newTestExecutor(), &fakePublisher{})

		_, err := usecase.ExecuteRun(context.Background(), &requests.StartRun{Suites: []string{""}})
		require.Error(t, err)
		assert.Equal(t, constvars.StatusBadRequest, err.(*exceptions.CustomError).StatusCode)
	})

	t.Run("Publish Failure Does Not Fail The Run", func(t *testing.T) {
		publisher := &fakePublisher{err: errors.New("channel closed")}
		usecase, _ := newTestRunUsecase(newTestExecutor(), publisher)

		run, err := usecase.ExecuteRun(context.Background(), &requests.StartRun{Suites: []string{"billing-basic"}})
		require.NoError(t, err)
		assert.Equal(t, constvars.RunStatusPassed, run.Status)
		assert.Len(t, publisher.types(), 3)
	})
}

func TestStartRun(t *testing.T) {
	t.Run("Returns Before The Suites Finish", func(t *testing.T) {
		executor := newTestExecutor()
		executor.block = make(chan struct{})
		usecase, repo := newTestRunUsecase(executor, &fakePublisher{})
		ctx, cancel := context.WithCancel(context.Background())

		run, err := usecase.StartRun(ctx, &requests.StartRun{Suites: []string{"billing-operations"}})
		require.NoError(t, err)
		assert.Equal(t, constvars.RunStatusRunning, run.Status)

		// the request context ending must not stop the run
		cancel()
		close(executor.block)
		usecase.Wait()

		stored, err := repo.FindRunByID(context.Background(), run.ID)
		require.NoError(t, err)
		assert.Equal(t, constvars.RunStatusFailed, stored.Status)
		require.Len(t, stored.Results, 1)
		assert.Len(t, stored.Results[0].Cases, 2)
		assert.Equal(t, constvars.RunStatusRunning, run.Status)
	})
}

func TestGetRun(t *testing.T) {
	t.Run("Unknown Run", func(t *testing.T) {
		usecase, _ := newTestRunUsecase(newTestExecutor(), &fakePublisher{})

		_, err := usecase.GetRun(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, constvars.StatusNotFound, err.(*exceptions.CustomError).StatusCode)
	})

	t.Run("Known Run", func(t *testing.T) {
		usecase, repo := newTestRunUsecase(newTestExecutor(), &fakePublisher{})
		require.NoError(t, repo.CreateRun(context.Background(), models.NewRun("run-1", "", []string{"billing-basic"})))

		run, err := usecase.GetRun(context.Background(), "run-1")
		require.NoError(t, err)
		assert.Equal(t, "run-1", run.ID)
	})
}

func TestListRuns(t *testing.T) {
	usecase, repo := newTestRunUsecase(newTestExecutor(), &fakePublisher{})
	ctx := context.Background()
	base := time.Now()
	for i, id := range []string{"oldest", "middle", "newest"} {
		run := models.NewRun(id, "", nil)
		run.StartedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.CreateRun(ctx, run))
	}

	t.Run("Newest First", func(t *testing.T) {
		runs, err := usecase.ListRuns(ctx, 2)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "newest", runs[0].ID)
		assert.Equal(t, "middle", runs[1].ID)
	})

	t.Run("Zero Limit Uses Default", func(t *testing.T) {
		runs, err := usecase.ListRuns(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, runs, 3)
	})
}

func TestListSuites(t *testing.T) {
	usecase, _ := newTestRunUsecase(newTestExecutor(), &fakePublisher{})
	suites := usecase.ListSuites(context.Background())
	require.Len(t, suites, 2)
	assert.True(t, suites[1].Serial)
}
