// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command sentinel runs the Sentinel evaluation service.
//
// Usage:
//
//	# Start the HTTP/WebSocket server
//	sentinel serve
//	sentinel serve --config /etc/sentinel/config.json
//
//	# Evaluate one proposed change from a file
//	sentinel evaluate --file proposed.py --task "implement a stack"
//
// Example requests against a running server:
//
//	# Health check
//	curl http://localhost:8720/v1/sentinel/health
//
//	# Evaluate a change
//	curl -X POST http://localhost:8720/v1/sentinel/evaluate \
//	  -H "Content-Type: application/json" \
//	  -d '{"proposed_code": "def add(a, b):\n    return a + b", "task_description": "add two numbers"}'
package main

import (
	"log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
