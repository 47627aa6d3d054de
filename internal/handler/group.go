package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/oasis-pandey/chorechamp/internal/apperr"
	"github.com/oasis-pandey/chorechamp/internal/auth"
	"github.com/oasis-pandey/chorechamp/internal/group"
	"github.com/oasis-pandey/chorechamp/internal/scoring"
	"github.com/oasis-pandey/chorechamp/internal/websocket"
)

type GroupHandler struct {
	groups  *group.Service
	scoring *scoring.Engine
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewGroupHandler(groups *group.Service, scoring *scoring.Engine, hub *websocket.Hub, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{groups: groups, scoring: scoring, hub: hub, logger: logger}
}

func (h *GroupHandler) broadcast(groupID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.BroadcastGroup(groupID, msg)
	}
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	g, err := h.groups.Create(auth.UserID(r.Context()), req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.broadcast(g.ID, websocket.NewMessage("group", "created", g.ID, nil))

	writeJSON(w, http.StatusCreated, g)
}

func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InviteCode string `json:"invite_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	g, err := h.groups.Join(auth.UserID(r.Context()), req.InviteCode)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.broadcast(g.ID, websocket.NewMessage("group", "joined", g.ID, nil))

	writeJSON(w, http.StatusOK, g)
}

func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.groups.Leave(auth.UserID(r.Context()), id); err != nil {
		h.writeError(w, err)
		return
	}

	h.broadcast(id, websocket.NewMessage("group", "left", id, nil))

	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	detail, err := h.groups.Get(id, auth.UserID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.ListForUser(auth.UserID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	board, err := h.scoring.Leaderboard(id, auth.UserID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *GroupHandler) writeError(w http.ResponseWriter, err error) {
	writeServiceError(w, h.logger, err)
}

// --- shared helpers ---

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case apperr.IsForbidden(err):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, apperr.ErrInvalidState),
		errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrNoGroup):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
