package runs

import (
	"context"
	"openmrs-billing-e2e/internal/app/config"
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/app/models"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/dto/requests"
	"openmrs-billing-e2e/internal/pkg/dto/responses"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"openmrs-billing-e2e/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

type runUsecase struct {
	RunRepository  contracts.RunRepository
	Publisher      contracts.RunEventPublisher
	Executor       contracts.SuiteExecutor
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
	inFlight       sync.WaitGroup
}

func NewRunUsecase(
	runRepository contracts.RunRepository,
	publisher contracts.RunEventPublisher,
	executor contracts.SuiteExecutor,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.RunUsecase {
	return &runUsecase{
		RunRepository:  runRepository,
		Publisher:      publisher,
		Executor:       executor,
		InternalConfig: internalConfig,
		Log:            logger,
	}
}

// StartRun persists a new run and executes it in the background. The run
// outlives the request that started it and is bounded by the run timeout.
func (uc *runUsecase) StartRun(ctx context.Context, request *requests.StartRun) (*models.Run, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("runUsecase.StartRun called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Strings(constvars.LoggingSuiteKey, request.Suites),
	)

	run, err := uc.createRun(ctx, request)
	if err != nil {
		return nil, err
	}
	snapshot := *run

	uc.inFlight.Add(1)
	go func() {
		defer uc.inFlight.Done()
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.runTimeout())
		defer cancel()
		uc.execute(runCtx, run)
	}()

	uc.Log.Info("runUsecase.StartRun succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRunIDKey, snapshot.ID),
	)
	return &snapshot, nil
}

// ExecuteRun is the blocking variant of StartRun used by the CLI.
func (uc *runUsecase) ExecuteRun(ctx context.Context, request *requests.StartRun) (*models.Run, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("runUsecase.ExecuteRun called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Strings(constvars.LoggingSuiteKey, request.Suites),
	)

	run, err := uc.createRun(ctx, request)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, uc.runTimeout())
	defer cancel()
	uc.execute(runCtx, run)

	uc.Log.Info("runUsecase.ExecuteRun succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRunIDKey, run.ID),
		zap.String(constvars.LoggingCaseStatusKey, run.Status),
	)
	return run, nil
}

func (uc *runUsecase) GetRun(ctx context.Context, runID string) (*models.Run, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("runUsecase.GetRun called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRunIDKey, runID),
	)

	run, err := uc.RunRepository.FindRunByID(ctx, runID)
	if err != nil {
		uc.Log.Error("runUsecase.GetRun error finding run",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRunIDKey, runID),
			zap.Error(err),
		)
		return nil, err
	}
	if run == nil {
		return nil, exceptions.ErrRunNotFound(nil, runID)
	}
	return run, nil
}

func (uc *runUsecase) ListRuns(ctx context.Context, limit int) ([]models.Run, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	switch {
	case limit <= 0:
		limit = constvars.DefaultRunListLimit
	case limit > constvars.MaxRunListLimit:
		limit = constvars.MaxRunListLimit
	}
	uc.Log.Info("runUsecase.ListRuns called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, limit),
	)

	runs, err := uc.RunRepository.ListRuns(ctx, limit)
	if err != nil {
		uc.Log.Error("runUsecase.ListRuns error listing runs",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return runs, nil
}

func (uc *runUsecase) ListSuites(ctx context.Context) []responses.Suite {
	return uc.Executor.Suites()
}

// Wait blocks until every run started by StartRun has finished.
func (uc *runUsecase) Wait() {
	uc.inFlight.Wait()
}

func (uc *runUsecase) createRun(ctx context.Context, request *requests.StartRun) (*models.Run, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	suiteNames := request.Suites
	if len(suiteNames) == 0 {
		for _, suite := range uc.Executor.Suites() {
			suiteNames = append(suiteNames, suite.Name)
		}
	}
	for _, name := range suiteNames {
		if !uc.Executor.HasSuite(name) {
			uc.Log.Error("runUsecase.createRun unknown suite requested",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSuiteKey, name),
			)
			return nil, exceptions.ErrUnknownSuite(name)
		}
	}

	run := models.NewRun(utils.GenerateRunID(), requestID, suiteNames)
	if err := uc.RunRepository.CreateRun(ctx, run); err != nil {
		uc.Log.Error("runUsecase.createRun error persisting run",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.publish(ctx, &models.RunEvent{
		Type:   constvars.RunEventStarted,
		RunID:  run.ID,
		Status: run.Status,
	})
	return run, nil
}

// execute runs the suites and keeps the stored run current as cases finish.
// Persistence and publishing failures are logged; they never fail the run.
func (uc *runUsecase) execute(ctx context.Context, run *models.Run) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	var mu sync.Mutex

	onCase := func(result models.CaseResult) {
		mu.Lock()
		run.Record(result)
		uc.update(ctx, run)
		mu.Unlock()

		uc.publish(ctx, &models.RunEvent{
			Type:   constvars.RunEventCaseFinished,
			RunID:  run.ID,
			Status: result.Status,
			Case:   &result,
		})
	}

	results := uc.Executor.Execute(ctx, run.ID, run.Suites, onCase)

	mu.Lock()
	run.Finish(results)
	uc.update(ctx, run)
	summary := run.Summary
	mu.Unlock()

	uc.publish(ctx, &models.RunEvent{
		Type:    constvars.RunEventFinished,
		RunID:   run.ID,
		Status:  run.Status,
		Summary: &summary,
	})

	uc.Log.Info("runUsecase.execute finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRunIDKey, run.ID),
		zap.String(constvars.LoggingCaseStatusKey, run.Status),
		zap.Int("passed", summary.Passed),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
	)
}

func (uc *runUsecase) update(ctx context.Context, run *models.Run) {
	if err := uc.RunRepository.UpdateRun(context.WithoutCancel(ctx), run); err != nil {
		uc.Log.Error("runUsecase.update error persisting run",
			zap.String(constvars.LoggingRunIDKey, run.ID),
			zap.Error(err),
		)
	}
}

func (uc *runUsecase) publish(ctx context.Context, event *models.RunEvent) {
	event.OccurredAt = time.Now()
	if err := uc.Publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		uc.Log.Warn("runUsecase.publish error publishing run event",
			zap.String(constvars.LoggingRunIDKey, event.RunID),
			zap.String(constvars.LoggingEventTypeKey, event.Type),
			zap.Error(err),
		)
	}
}

func (uc *runUsecase) runTimeout() time.Duration {
	return time.Duration(uc.InternalConfig.App.RunTimeoutInMinutes) * time.Minute
}
