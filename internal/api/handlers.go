// Package api provides HTTP handlers and the main API server logic for
// CoachCore.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lymhealth/coachcore/internal/models"
)

// turnRequest is the payload for processing one conversation turn.
type turnRequest struct {
	UserID  string                     `json:"user_id"`
	Message string                     `json:"message"`
	Context models.ConversationContext `json:"context"`
}

// executeRequest is the payload for executing a previously offered action.
type executeRequest struct {
	UserID        string                     `json:"user_id"`
	Action        models.ActionProposal     `json:"action"`
	UserConfirmed bool                       `json:"user_confirmed"`
	Context       models.ConversationContext `json:"context"`
}

func (s *Server) turnHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("method not allowed"))
		return
	}
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("invalid JSON payload"))
		return
	}
	if req.UserID == "" || req.Message == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("user_id and message are required"))
		return
	}
	req.Context.User.ID = req.UserID

	response, err := s.engine.ProcessTurn(r.Context(), req.Message, req.Context)
	if err != nil {
		slog.Error("Server.turnHandler: turn processing failed", "error", err, "userID", req.UserID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("failed to process turn"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(response))
}

func (s *Server) executeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("method not allowed"))
		return
	}
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("invalid JSON payload"))
		return
	}
	if req.UserID == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("user_id is required"))
		return
	}
	req.Context.User.ID = req.UserID

	// Policy refusals are results, not transport errors: always 200.
	result, err := s.engine.ExecuteAction(r.Context(), req.Action, req.Context, req.UserConfirmed)
	if err != nil {
		slog.Error("Server.executeHandler: execution failed", "error", err, "userID", req.UserID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("failed to execute action"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(result))
}

func (s *Server) turnsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("method not allowed"))
		return
	}
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("user_id is required"))
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	turns, err := s.engine.RecentTurns(r.Context(), userID, limit)
	if err != nil {
		slog.Error("Server.turnsHandler: turn lookup failed", "error", err, "userID", userID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("failed to load turns"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(turns))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]string{"status": "ok"}))
}
