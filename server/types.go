// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package server

import "github.com/AleutianAI/sentinel/datatypes"

// HealthResponse is the liveness check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ReadyResponse is the readiness check response.
type ReadyResponse struct {
	Ready   bool `json:"ready"`
	StoreOK bool `json:"store_ok"`
}

// ErrorResponse is the standard error envelope for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ListResponse wraps a page of stored evaluation results.
type ListResponse struct {
	Count       int                          `json:"count"`
	Evaluations []datatypes.EvaluationResult `json:"evaluations"`
}
