package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/oasis-pandey/chorechamp/internal/auth"
	"github.com/oasis-pandey/chorechamp/internal/store"
)

// RequireAuth verifies the bearer token, resolves it to a user, and installs
// the caller Identity into the request context. Core operations never see an
// unauthenticated request.
func RequireAuth(tokens *auth.TokenIssuer, userStore *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "missing bearer token")
				return
			}

			userID, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}

			user, err := userStore.GetByID(userID)
			if err != nil || user == nil {
				unauthorized(w, "invalid token")
				return
			}

			identity := auth.Identity{
				UserID:   user.ID,
				Username: user.Username,
			}

			ctx := auth.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
