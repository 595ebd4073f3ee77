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

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RegisterRoutes registers all Sentinel routes with the router.
//
// Description:
//
//	Registers all /v1/sentinel/* endpoints with the given Gin router
//	group. The router group should already have any required middleware
//	applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Core Endpoints:
//
//	POST /v1/sentinel/evaluate - Evaluate a proposed code change
//	GET  /v1/sentinel/evaluations - List stored evaluations, newest first
//	GET  /v1/sentinel/evaluations/:id - Get one stored evaluation
//	GET  /v1/sentinel/ws - WebSocket endpoint for editor extensions
//
// Health Endpoints:
//
//	GET  /v1/sentinel/health - Liveness check
//	GET  /v1/sentinel/ready - Readiness check
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	sentinel := rg.Group("/sentinel")

	sentinel.POST("/evaluate", handlers.HandleEvaluate)
	sentinel.GET("/evaluations", handlers.HandleListEvaluations)
	sentinel.GET("/evaluations/:id", handlers.HandleGetEvaluation)
	sentinel.GET("/ws", handlers.HandleWebSocket)

	sentinel.GET("/health", handlers.HandleHealth)
	sentinel.GET("/ready", handlers.HandleReady)
}

// NewRouter builds the Sentinel gin engine with recovery and tracing
// middleware, the /v1 API group, and the Prometheus scrape endpoint
// at /metrics.
func NewRouter(handlers *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("sentinel"))

	v1 := router.Group("/v1")
	RegisterRoutes(v1, handlers)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
