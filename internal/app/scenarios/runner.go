package scenarios

import (
	"context"
	"fmt"
	"openmrs-billing-e2e/internal/app/config"
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/app/models"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/dto/responses"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"openmrs-billing-e2e/internal/pkg/utils"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	stepOpenPage     = "Open a browser page"
	stepSuiteLock    = "Lock the suite"
	stepBeforeAll    = "Prepare the suite fixtures"
	stepTestPatient  = "Given a random test patient"
	screenshotFailed = "failure screenshot: "
	closePageFailed  = "close page: "
)

type suiteExecutor struct {
	Pages          contracts.PageFactory
	Fixtures       contracts.FixtureUsecase
	Artifacts      contracts.ArtifactStorage
	Locker         contracts.LockerService
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
	suites         []Suite
}

func NewSuiteExecutor(
	pageFactory contracts.PageFactory,
	fixtures contracts.FixtureUsecase,
	artifacts contracts.ArtifactStorage,
	lockerService contracts.LockerService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
	suites []Suite,
) contracts.SuiteExecutor {
	return &suiteExecutor{
		Pages:          pageFactory,
		Fixtures:       fixtures,
		Artifacts:      artifacts,
		Locker:         lockerService,
		InternalConfig: internalConfig,
		Log:            logger,
		suites:         suites,
	}
}

func (e *suiteExecutor) Suites() []responses.Suite {
	summaries := make([]responses.Suite, 0, len(e.suites))
	for _, suite := range e.suites {
		summaries = append(summaries, responses.Suite{
			Name:        suite.Name,
			Description: suite.Description,
			Serial:      suite.Serial,
			Cases:       len(suite.Cases),
		})
	}
	return summaries
}

func (e *suiteExecutor) HasSuite(name string) bool {
	_, ok := e.suite(name)
	return ok
}

func (e *suiteExecutor) suite(name string) (Suite, bool) {
	for _, suite := range e.suites {
		if suite.Name == name {
			return suite, true
		}
	}
	return Suite{}, false
}

// Execute runs the named suites, all of them when none is named. Suites run
// concurrently and never share fixtures; unknown names are skipped.
func (e *suiteExecutor) Execute(ctx context.Context, runID string, suiteNames []string, onCase func(result models.CaseResult)) []models.SuiteResult {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	e.Log.Info("suiteExecutor.Execute called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRunIDKey, runID),
		zap.Strings(constvars.LoggingSuiteKey, suiteNames),
	)

	selected := make([]Suite, 0, len(e.suites))
	if len(suiteNames) == 0 {
		selected = append(selected, e.suites...)
	}
	for _, name := range suiteNames {
		suite, ok := e.suite(name)
		if !ok {
			e.Log.Warn("suiteExecutor.Execute unknown suite skipped",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSuiteKey, name),
			)
			continue
		}
		selected = append(selected, suite)
	}

	if onCase == nil {
		onCase = func(models.CaseResult) {}
	}

	results := make([]models.SuiteResult, len(selected))
	var group errgroup.Group
	for i, suite := range selected {
		i, suite := i, suite
		group.Go(func() error {
			results[i] = e.executeSuite(ctx, runID, suite, onCase)
			return nil
		})
	}
	_ = group.Wait()

	e.Log.Info("suiteExecutor.Execute succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRunIDKey, runID),
		zap.Int(constvars.LoggingCountKey, len(results)),
	)
	return results
}

func (e *suiteExecutor) executeSuite(ctx context.Context, runID string, suite Suite, onCase func(models.CaseResult)) models.SuiteResult {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	result := models.SuiteResult{
		Name:   suite.Name,
		Serial: suite.Serial,
		Cases:  make([]models.CaseResult, len(suite.Cases)),
	}

	if suite.Serial {
		release, err := e.lockSuite(ctx, suite.Name)
		if err != nil {
			e.Log.Error("suiteExecutor.executeSuite error locking suite",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSuiteKey, suite.Name),
				zap.Error(err),
			)
			e.failAll(&result, suite, stepSuiteLock, err, onCase)
			return result
		}
		defer release()
	}

	var state *SuiteState
	if suite.BeforeAll != nil {
		var err error
		state, err = suite.BeforeAll(ctx, e.Fixtures, e.InternalConfig)
		if err != nil {
			e.Log.Error("suiteExecutor.executeSuite error preparing suite",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSuiteKey, suite.Name),
				zap.Error(err),
			)
			e.failAll(&result, suite, stepBeforeAll, err, onCase)
			return result
		}
	}

	run := func(i int) {
		result.Cases[i] = e.runCase(ctx, runID, suite, state, suite.Cases[i])
		onCase(result.Cases[i])
	}

	if suite.Serial {
		for i := range suite.Cases {
			run(i)
		}
		return result
	}

	var group errgroup.Group
	group.SetLimit(e.workers())
	for i := range suite.Cases {
		i := i
		group.Go(func() error {
			run(i)
			return nil
		})
	}
	_ = group.Wait()
	return result
}

func (e *suiteExecutor) workers() int {
	if e.InternalConfig.App.Workers > 0 {
		return e.InternalConfig.App.Workers
	}
	return 1
}

// lockSuite keeps two runners from driving the same serial suite against
// one OpenMRS at the same time.
func (e *suiteExecutor) lockSuite(ctx context.Context, suiteName string) (func(), error) {
	key := fmt.Sprintf(constvars.RedisKeySuiteLockFormat, suiteName)
	ttl := time.Duration(e.InternalConfig.Fixture.SuiteLockTTLInMinutes) * time.Minute
	acquired, lockValue, err := e.Locker.TryLock(ctx, key, ttl)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, exceptions.ErrSuiteLocked(suiteName)
	}
	return func() {
		if err := e.Locker.Unlock(context.WithoutCancel(ctx), key, lockValue); err != nil {
			e.Log.Warn("suiteExecutor.lockSuite error releasing suite lock",
				zap.String(constvars.LoggingSuiteKey, suiteName),
				zap.Error(err),
			)
		}
	}, nil
}

// failAll marks every case of the suite failed without running it. Cases
// with a skip reason stay skipped.
func (e *suiteExecutor) failAll(result *models.SuiteResult, suite Suite, stepName string, err error, onCase func(models.CaseResult)) {
	for i, c := range suite.Cases {
		caseResult := newCaseResult(suite, c)
		if c.Skip != "" {
			skipCase(&caseResult, c.Skip)
		} else {
			failCase(&caseResult, stepName, err)
		}
		result.Cases[i] = caseResult
		onCase(caseResult)
	}
}

func newCaseResult(suite Suite, c Case) models.CaseResult {
	return models.CaseResult{
		Suite:     suite.Name,
		Name:      c.Name,
		Steps:     []models.StepResult{},
		StartedAt: time.Now(),
	}
}

func skipCase(result *models.CaseResult, reason string) {
	result.Status = constvars.CaseStatusSkipped
	result.SkipReason = reason
}

func failCase(result *models.CaseResult, stepName string, err error) {
	result.Status = constvars.CaseStatusFailed
	result.FailedStep = stepName
	result.Error = exceptions.MessageOf(err)
	result.ErrorKind = string(exceptions.KindOf(err))
}

// runCase runs one case in its own page. Steps stop at the first failure;
// teardown always runs and only ever adds warnings.
func (e *suiteExecutor) runCase(ctx context.Context, runID string, suite Suite, state *SuiteState, c Case) (result models.CaseResult) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	result = newCaseResult(suite, c)
	defer func() {
		result.Duration = time.Since(result.StartedAt)
		e.Log.Info("suiteExecutor.runCase finished",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSuiteKey, suite.Name),
			zap.String(constvars.LoggingCaseKey, c.Name),
			zap.String(constvars.LoggingCaseStatusKey, result.Status),
			zap.Duration(constvars.LoggingDurationKey, result.Duration),
		)
	}()

	if c.Skip != "" {
		skipCase(&result, c.Skip)
		return result
	}

	page, closePage, err := e.Pages.NewPage(ctx)
	if err != nil {
		failCase(&result, stepOpenPage, err)
		return result
	}

	world := newWorld(page, e.Fixtures, e.InternalConfig, state, e.Log)
	defer func() {
		report := world.Cleanup.Run(context.WithoutCancel(ctx))
		result.Warnings = append(result.Warnings, report.Warnings()...)
		if err := closePage(); err != nil {
			result.Warnings = append(result.Warnings, closePageFailed+err.Error())
		}
	}()

	if c.NeedsPatient {
		patient, err := e.Fixtures.GenerateRandomPatient(ctx, "")
		if err != nil {
			failCase(&result, stepTestPatient, err)
			return result
		}
		world.Patient = patient
		world.trackPatient(patient.UUID)
		result.PatientUUID = patient.UUID
	}

	result.Status = constvars.CaseStatusPassed
	for i, step := range c.Steps(world) {
		stepResult, err := e.runStep(ctx, i, step)
		result.Steps = append(result.Steps, stepResult)
		if err == nil {
			continue
		}

		e.Log.Error("suiteExecutor.runCase step failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSuiteKey, suite.Name),
			zap.String(constvars.LoggingCaseKey, c.Name),
			zap.String(constvars.LoggingStepKey, step.Name),
			zap.Int(constvars.LoggingStepIndexKey, i),
			zap.Error(err),
		)
		failCase(&result, step.Name, err)
		artifact, err := e.captureFailure(ctx, runID, suite.Name, c.Name, step.Name, page)
		if err != nil {
			result.Warnings = append(result.Warnings, screenshotFailed+err.Error())
		} else {
			result.Artifacts = append(result.Artifacts, artifact)
		}
		break
	}
	return result
}

// runStep turns a panic inside a step into a failure of that step.
func (e *suiteExecutor) runStep(ctx context.Context, index int, step Step) (result models.StepResult, err error) {
	result = models.StepResult{Index: index, Name: step.Name}
	if step.Skip != "" {
		result.Status = constvars.CaseStatusSkipped
		result.SkipReason = step.Skip
		return result, nil
	}

	started := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
		result.Duration = time.Since(started)
		result.Status = constvars.CaseStatusPassed
		if err != nil {
			result.Status = constvars.CaseStatusFailed
			result.Error = exceptions.MessageOf(err)
		}
	}()
	return result, step.Run(ctx)
}

func (e *suiteExecutor) captureFailure(ctx context.Context, runID, suiteName, caseName, stepName string, page playwright.Page) (string, error) {
	screenshot, err := page.Screenshot(playwright.PageScreenshotOptions{FullPage: playwright.Bool(true)})
	if err != nil {
		return "", err
	}
	objectKey := fmt.Sprintf(constvars.ArtifactObjectKeyFormat, runID, utils.Slugify(suiteName), utils.GenerateArtifactName(caseName, stepName))
	return e.Artifacts.SaveArtifact(context.WithoutCancel(ctx), objectKey, constvars.MIMEImagePNG, screenshot)
}
