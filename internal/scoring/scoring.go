// Package scoring awards points for completed chores and serves the
// per-group leaderboard built from them.
package scoring

import (
	"fmt"
	"log/slog"

	"github.com/oasis-pandey/chorechamp/internal/apperr"
	"github.com/oasis-pandey/chorechamp/internal/model"
	"github.com/oasis-pandey/chorechamp/internal/store"
)

// CompletionPoints is the fixed award per completed chore.
const CompletionPoints = 10

type Engine struct {
	users  *store.UserStore
	groups *store.GroupStore
	logger *slog.Logger
}

func NewEngine(users *store.UserStore, groups *store.GroupStore, logger *slog.Logger) *Engine {
	return &Engine{users: users, groups: groups, logger: logger}
}

// AwardPoints adds amount to the user's points. Callers are responsible for
// invoking it at most once per completion event; the primitive itself is not
// idempotent.
func (e *Engine) AwardPoints(userID int64, amount int) error {
	if err := e.users.AddPoints(userID, amount); err != nil {
		return fmt.Errorf("award points: %w", err)
	}
	e.logger.Info("points awarded", "user_id", userID, "amount", amount)
	return nil
}

// Leaderboard returns the group's members ordered by points descending.
// Members only.
func (e *Engine) Leaderboard(groupID, callerID int64) ([]model.MemberProfile, error) {
	member, err := e.groups.IsMember(groupID, callerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("%w: user %d may not view group %d", apperr.ErrForbidden, callerID, groupID)
	}

	board, err := e.groups.ListLeaderboard(groupID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		board = []model.MemberProfile{}
	}
	return board, nil
}
