package contracts

import (
	"context"
	"openmrs-billing-e2e/internal/app/models"
	"openmrs-billing-e2e/internal/pkg/dto/requests"
	"openmrs-billing-e2e/internal/pkg/dto/responses"
)

type RunUsecase interface {
	StartRun(ctx context.Context, request *requests.StartRun) (*models.Run, error)
	ExecuteRun(ctx context.Context, request *requests.StartRun) (*models.Run, error)
	GetRun(ctx context.Context, runID string) (*models.Run, error)
	ListRuns(ctx context.Context, limit int) ([]models.Run, error)
	ListSuites(ctx context.Context) []responses.Suite
	Wait()
}

type RunRepository interface {
	CreateRun(ctx context.Context, run *models.Run) error
	UpdateRun(ctx context.Context, run *models.Run) error
	FindRunByID(ctx context.Context, runID string) (*models.Run, error)
	ListRuns(ctx context.Context, limit int) ([]models.Run, error)
}

type RunEventPublisher interface {
	Publish(ctx context.Context, event *models.RunEvent) error
	Close() error
}

// SuiteExecutor runs registered suites. onCase is called as every case
// finishes, possibly from several goroutines at once.
type SuiteExecutor interface {
	Suites() []responses.Suite
	HasSuite(name string) bool
	Execute(ctx context.Context, runID string, suiteNames []string, onCase func(result models.CaseResult)) []models.SuiteResult
}
