package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/dto/requests"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"openmrs-billing-e2e/internal/pkg/utils"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type RunController struct {
	Log        *zap.Logger
	RunUsecase contracts.RunUsecase
}

func NewRunController(logger *zap.Logger, runUsecase contracts.RunUsecase) *RunController {
	return &RunController{
		Log:        logger,
		RunUsecase: runUsecase,
	}
}

// StartRun accepts an empty body, which runs every registered suite.
func (ctrl *RunController) StartRun(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("RunController.StartRun requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("RunController.StartRun called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.StartRun)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil && !errors.Is(err, io.EOF) {
		ctrl.Log.Error("RunController.StartRun error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	run, err := ctrl.RunUsecase.StartRun(ctx, request)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.StartRunSuccessMessage, run)
}

func (ctrl *RunController) GetRun(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	runID := chi.URLParam(r, constvars.URLParamRunID)
	ctrl.Log.Info("RunController.GetRun called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRunIDKey, runID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	run, err := ctrl.RunUsecase.GetRun(ctx, runID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetRunSuccessMessage, run)
}

func (ctrl *RunController) ListRuns(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("RunController.ListRuns called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get(constvars.QueryParamLimit))
	if err != nil {
		limit = 0
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	runs, err := ctrl.RunUsecase.ListRuns(ctx, limit)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetRunsSuccessMessage, runs)
}

func (ctrl *RunController) ListSuites(w http.ResponseWriter, r *http.Request) {
	suites := ctrl.RunUsecase.ListSuites(r.Context())
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetSuitesSuccessMessage, suites)
}
