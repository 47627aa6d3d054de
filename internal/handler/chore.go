package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/oasis-pandey/chorechamp/internal/auth"
	"github.com/oasis-pandey/chorechamp/internal/chore"
	"github.com/oasis-pandey/chorechamp/internal/model"
	"github.com/oasis-pandey/chorechamp/internal/scoring"
	"github.com/oasis-pandey/chorechamp/internal/websocket"
)

type ChoreHandler struct {
	chores *chore.Service
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewChoreHandler(chores *chore.Service, hub *websocket.Hub, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{chores: chores, hub: hub, logger: logger}
}

func (h *ChoreHandler) broadcast(groupID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.BroadcastGroup(groupID, msg)
	}
}

type choreRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
	GroupID     *int64 `json:"group_id"`
	AssignedTo  *int64 `json:"assigned_to"`
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	c, err := h.chores.Create(auth.UserID(r.Context()), chore.CreateInput{
		GroupID:     req.GroupID,
		Name:        req.Name,
		Description: req.Description,
		Frequency:   model.ChoreFrequency(req.Frequency),
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.broadcast(c.GroupID, websocket.NewMessage("chore", "created", c.ID, nil))

	writeJSON(w, http.StatusCreated, c)
}

func (h *ChoreHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	// The body is optional; a missing note is fine.
	json.NewDecoder(r.Body).Decode(&req)

	c, err := h.chores.Complete(auth.UserID(r.Context()), id, req.Note)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.broadcast(c.GroupID, websocket.NewMessage("chore", "completed", id, nil))

	writeJSON(w, http.StatusOK, map[string]any{
		"chore":          c,
		"points_awarded": scoring.CompletionPoints,
	})
}

func (h *ChoreHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	removed, err := h.chores.Remove(auth.UserID(r.Context()), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.broadcast(removed.GroupID, websocket.NewMessage("chore", "removed", id, nil))

	w.WriteHeader(http.StatusNoContent)
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	deleted, err := h.chores.Delete(auth.UserID(r.Context()), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.broadcast(deleted.GroupID, websocket.NewMessage("chore", "deleted", id, nil))

	w.WriteHeader(http.StatusNoContent)
}

func (h *ChoreHandler) ListForGroup(w http.ResponseWriter, r *http.Request) {
	groupIDStr := r.PathValue("group_id")
	groupID, err := strconv.ParseInt(groupIDStr, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid group_id"})
		return
	}

	chores, err := h.chores.ListForGroup(groupID, auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, chores)
}

func (h *ChoreHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.chores.Dashboard(auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
