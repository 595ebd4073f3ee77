// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package server exposes the Sentinel evaluation pipeline over HTTP and
// WebSocket. Editor extensions talk to the WebSocket endpoint; the
// HTTP API serves one-shot evaluations and history lookups.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/sentinel/datatypes"
	"github.com/AleutianAI/sentinel/evaluation"
	"github.com/AleutianAI/sentinel/store"
)

// ServiceVersion is the Sentinel service version.
const ServiceVersion = "0.1.0"

// defaultListLimit bounds history pages when the client gives no limit.
const defaultListLimit = 50

// Handlers contains the HTTP handlers for the Sentinel API.
type Handlers struct {
	evaluator *evaluation.Evaluator
	history   *store.History

	// defaultIterations is applied to requests that omit
	// max_iterations. Zero falls through to the datatypes default.
	defaultIterations atomic.Int32
}

// NewHandlers creates handlers for the given evaluator.
func NewHandlers(evaluator *evaluation.Evaluator) *Handlers {
	return &Handlers{evaluator: evaluator}
}

// WithHistory sets the evaluation history store. Without it, results
// are returned to the caller but not persisted and the history
// endpoints report 503.
func (h *Handlers) WithHistory(history *store.History) *Handlers {
	h.history = history
	return h
}

// SetDefaultIterations sets the TDD loop length for requests that do
// not ask for one. Safe to call on a live server, so a config reload
// takes effect on the next request.
func (h *Handlers) SetDefaultIterations(n int) {
	h.defaultIterations.Store(int32(n))
}

// applyDefaults fills request fields the client left unset.
func (h *Handlers) applyDefaults(task *datatypes.TaskContext) {
	if task.MaxIterations == 0 {
		task.MaxIterations = int(h.defaultIterations.Load())
	}
}

// HandleEvaluate handles POST /v1/sentinel/evaluate.
//
// Description:
//
//	Runs the full evaluation pipeline on one proposed code change and
//	returns the accept/reject verdict. The result is persisted to the
//	history store when one is configured.
//
// Request Body:
//
//	datatypes.TaskContext
//
// Response:
//
//	200 OK: datatypes.EvaluationResult
//	400 Bad Request: Missing code or invalid iteration count
//	500 Internal Server Error: Pipeline failure
func (h *Handlers) HandleEvaluate(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleEvaluate")

	var task datatypes.TaskContext
	if err := c.ShouldBindJSON(&task); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	h.applyDefaults(&task)

	result, err := h.evaluator.Evaluate(c.Request.Context(), &task)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "EVALUATION_FAILED"

		if errors.Is(err, datatypes.ErrNoCode) {
			statusCode = http.StatusBadRequest
			errCode = "NO_CODE"
		} else if errors.Is(err, datatypes.ErrBadIterations) {
			statusCode = http.StatusBadRequest
			errCode = "BAD_ITERATIONS"
		}

		logger.Error("Evaluation failed", "error", err)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	if h.history != nil {
		if err := h.history.Put(result); err != nil {
			// Persistence is best effort; the verdict still ships.
			logger.Warn("Failed to persist evaluation", "id", result.ID, "error", err)
		}
	}

	logger.Info("Evaluation complete",
		"id", result.ID,
		"accept", result.Accept,
		"tdd_score", result.TDDScore)

	c.JSON(http.StatusOK, result)
}

// HandleListEvaluations handles GET /v1/sentinel/evaluations.
//
// Query Parameters:
//
//	limit - Max results to return, newest first (default 50)
//
// Response:
//
//	200 OK: ListResponse
//	503 Service Unavailable: No history store configured
func (h *Handlers) HandleListEvaluations(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "Evaluation history is not configured",
			Code:  "NO_HISTORY",
		})
		return
	}

	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "limit must be a positive integer",
				Code:  "INVALID_LIMIT",
			})
			return
		}
		limit = n
	}

	results, err := h.history.List(limit)
	if err != nil {
		slog.Error("Failed to list evaluations", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
			Code:  "LIST_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Count:       len(results),
		Evaluations: results,
	})
}

// HandleGetEvaluation handles GET /v1/sentinel/evaluations/:id.
//
// Response:
//
//	200 OK: datatypes.EvaluationResult
//	404 Not Found: Unknown evaluation ID
//	503 Service Unavailable: No history store configured
func (h *Handlers) HandleGetEvaluation(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "Evaluation history is not configured",
			Code:  "NO_HISTORY",
		})
		return
	}

	result, err := h.history.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "Evaluation not found",
				Code:  "NOT_FOUND",
			})
			return
		}
		slog.Error("Failed to load evaluation", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
			Code:  "GET_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleHealth handles GET /v1/sentinel/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: ServiceVersion,
	})
}

// HandleReady handles GET /v1/sentinel/ready.
//
// Response:
//
//	200 OK: ReadyResponse (Ready=true)
func (h *Handlers) HandleReady(c *gin.Context) {
	c.JSON(http.StatusOK, ReadyResponse{
		Ready:   true,
		StoreOK: h.history != nil,
	})
}

// getOrCreateRequestID gets or creates a request ID.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
