package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/oasis-pandey/chorechamp/internal/auth"
	"github.com/oasis-pandey/chorechamp/internal/chore"
	"github.com/oasis-pandey/chorechamp/internal/group"
	"github.com/oasis-pandey/chorechamp/internal/handler"
	"github.com/oasis-pandey/chorechamp/internal/middleware"
	"github.com/oasis-pandey/chorechamp/internal/scoring"
	"github.com/oasis-pandey/chorechamp/internal/store"
	ws "github.com/oasis-pandey/chorechamp/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	authH       *handler.AuthHandler
	groupH      *handler.GroupHandler
	choreH      *handler.ChoreHandler
	tokens      *auth.TokenIssuer
	userStore   *store.UserStore
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, jwtSecret string, logger *slog.Logger) *Server {
	userStore := store.NewUserStore(db)
	groupStore := store.NewGroupStore(db)
	choreStore := store.NewChoreStore(db)

	hub := ws.NewHub(groupStore, logger.With("component", "websocket"))

	tokens := auth.NewTokenIssuer(jwtSecret)

	scoringEngine := scoring.NewEngine(userStore, groupStore, logger.With("component", "scoring"))
	groupService := group.NewService(groupStore, logger.With("component", "group"))
	choreService := chore.NewService(choreStore, userStore, groupStore, scoringEngine, logger.With("component", "chore"))

	return &Server{
		db:          db,
		hub:         hub,
		authH:       handler.NewAuthHandler(userStore, tokens, logger.With("component", "auth")),
		groupH:      handler.NewGroupHandler(groupService, scoringEngine, hub, logger.With("component", "group_handler")),
		choreH:      handler.NewChoreHandler(choreService, hub, logger.With("component", "chore_handler")),
		tokens:      tokens,
		userStore:   userStore,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.tokens, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	// Apply request logging middleware
	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Group routes
	mux.HandleFunc("POST /api/groups", s.groupH.Create)
	mux.HandleFunc("GET /api/groups", s.groupH.List)
	mux.HandleFunc("POST /api/groups/join", s.groupH.Join)
	mux.HandleFunc("GET /api/groups/{id}", s.groupH.Get)
	mux.HandleFunc("POST /api/groups/{id}/leave", s.groupH.Leave)
	mux.HandleFunc("GET /api/groups/{id}/leaderboard", s.groupH.Leaderboard)

	// Chore routes
	mux.HandleFunc("POST /api/chores", s.choreH.Create)
	mux.HandleFunc("GET /api/chores/group/{group_id}", s.choreH.ListForGroup)
	mux.HandleFunc("POST /api/chores/{id}/complete", s.choreH.Complete)
	mux.HandleFunc("DELETE /api/chores/{id}/remove", s.choreH.Remove)
	mux.HandleFunc("DELETE /api/chores/{id}/delete", s.choreH.Delete)

	// Dashboard
	mux.HandleFunc("GET /api/dashboard", s.choreH.Dashboard)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}
