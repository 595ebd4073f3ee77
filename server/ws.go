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
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/AleutianAI/sentinel/datatypes"
)

// maxMessageBytes caps incoming WebSocket messages. Proposed code plus
// original code for a single file fits comfortably under this.
const maxMessageBytes = 4 * 1024 * 1024

// WSMessage is the envelope for every message in both directions.
//
// Client to server types: "evaluate" (payload: datatypes.TaskContext).
// Server to client types: "session", "evaluation", "error".
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WSError is the payload of "error" messages.
type WSError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024 * 1024,
	WriteBufferSize: 1024 * 1024,
}

func sendMessage(ws *websocket.Conn, msgType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal WebSocket payload", "type", msgType, "error", err)
		return err
	}
	if err := ws.WriteJSON(WSMessage{Type: msgType, Payload: raw}); err != nil {
		slog.Warn("Failed to write WebSocket JSON", "type", msgType, "error", err)
		return err
	}
	return nil
}

func sendError(ws *websocket.Conn, code, msg string) error {
	return sendMessage(ws, "error", WSError{Error: msg, Code: code})
}

// HandleWebSocket handles GET /v1/sentinel/ws.
//
// Description:
//
//	Upgrades the connection and serves the editor extension protocol.
//	Each connection gets a session ID announced in an initial "session"
//	message. The client sends "evaluate" messages carrying a
//	TaskContext payload; the server replies with an "evaluation"
//	message carrying the EvaluationResult. Evaluations on one
//	connection run sequentially in message order.
func (h *Handlers) HandleWebSocket(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("failed to upgrade the websocket", "error", err)
		return
	}
	defer ws.Close()
	ws.SetReadLimit(maxMessageBytes)

	sessionID := uuid.NewString()
	slog.Info("Websocket session started", "session_id", sessionID)

	if err := sendMessage(ws, "session", gin.H{"session_id": sessionID}); err != nil {
		return
	}

	for {
		var msg WSMessage
		if err := ws.ReadJSON(&msg); err != nil {
			slog.Info("Websocket client disconnected", "session_id", sessionID, "error", err.Error())
			return
		}

		switch msg.Type {
		case "evaluate":
			var task datatypes.TaskContext
			if err := json.Unmarshal(msg.Payload, &task); err != nil {
				if sendError(ws, "INVALID_PAYLOAD", "evaluate payload must be a task context") != nil {
					return
				}
				continue
			}
			h.applyDefaults(&task)

			result, err := h.evaluator.Evaluate(c.Request.Context(), &task)
			if err != nil {
				slog.Warn("Websocket evaluation failed", "session_id", sessionID, "error", err)
				if sendError(ws, "EVALUATION_FAILED", err.Error()) != nil {
					return
				}
				continue
			}

			if h.history != nil {
				if err := h.history.Put(result); err != nil {
					slog.Warn("Failed to persist evaluation", "id", result.ID, "error", err)
				}
			}

			if sendMessage(ws, "evaluation", result) != nil {
				return
			}

		default:
			if sendError(ws, "UNKNOWN_TYPE", "unsupported message type: "+msg.Type) != nil {
				return
			}
		}
	}
}
