package chore

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oasis-pandey/chorechamp/internal/apperr"
	"github.com/oasis-pandey/chorechamp/internal/model"
	"github.com/oasis-pandey/chorechamp/internal/scoring"
	"github.com/oasis-pandey/chorechamp/internal/store"
)

// Service drives the chore lifecycle: create, complete, remove, delete.
// Every mutating transition runs the authorization predicates in policy.go
// first, and a successful completion triggers the scoring engine exactly once.
type Service struct {
	chores  *store.ChoreStore
	users   *store.UserStore
	groups  *store.GroupStore
	scoring *scoring.Engine
	logger  *slog.Logger
}

func NewService(chores *store.ChoreStore, users *store.UserStore, groups *store.GroupStore, scoring *scoring.Engine, logger *slog.Logger) *Service {
	return &Service{
		chores:  chores,
		users:   users,
		groups:  groups,
		scoring: scoring,
		logger:  logger,
	}
}

// CreateInput carries the fields for a new chore. GroupID may be nil, in
// which case the caller's earliest-joined group is used.
type CreateInput struct {
	GroupID     *int64
	Name        string
	Description string
	Frequency   model.ChoreFrequency
	AssignedTo  *int64
}

// Create makes a new pending chore in one of the caller's groups.
func (s *Service) Create(callerID int64, in CreateInput) (*model.Chore, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: chore name is required", apperr.ErrValidation)
	}
	if !model.ValidFrequency(in.Frequency) {
		return nil, fmt.Errorf("%w: frequency must be daily, weekly or monthly", apperr.ErrValidation)
	}

	callerGroups, err := s.users.GroupIDs(callerID)
	if err != nil {
		return nil, err
	}

	var groupID int64
	if in.GroupID != nil {
		if !containsGroup(callerGroups, *in.GroupID) {
			return nil, fmt.Errorf("%w: user %d is not a member of group %d", apperr.ErrForbidden, callerID, *in.GroupID)
		}
		groupID = *in.GroupID
	} else {
		if len(callerGroups) == 0 {
			return nil, fmt.Errorf("%w: create or join a group first", apperr.ErrNoGroup)
		}
		// Earliest-joined group is the deterministic default.
		groupID = callerGroups[0]
	}

	if in.AssignedTo != nil {
		member, err := s.groups.IsMember(groupID, *in.AssignedTo)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, fmt.Errorf("%w: assignee %d is not a member of group %d", apperr.ErrValidation, *in.AssignedTo, groupID)
		}
	}

	c, err := s.chores.Create(in.Name, in.Description, in.Frequency, in.AssignedTo, groupID, callerID)
	if err != nil {
		return nil, fmt.Errorf("create chore: %w", err)
	}

	s.logger.Info("chore created", "chore_id", c.ID, "group_id", groupID, "creator_id", callerID)
	return c, nil
}

// Complete transitions a pending chore to completed. Only the assignee may
// complete an assigned chore; an unassigned chore is claimed by whoever
// completes it. The transition is a compare-and-set, so of two concurrent
// completions exactly one wins; the winner is awarded points once.
func (s *Service) Complete(callerID, choreID int64, note string) (*model.Chore, error) {
	c, err := s.chores.GetByID(choreID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: chore %d", apperr.ErrNotFound, choreID)
	}

	if !CanComplete(c, callerID) {
		return nil, fmt.Errorf("%w: chore %d is assigned to another user", apperr.ErrForbidden, choreID)
	}

	completedAt := time.Now().UTC()
	won, err := s.chores.Complete(choreID, callerID, note, completedAt)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, fmt.Errorf("%w: chore %d is already completed", apperr.ErrInvalidState, choreID)
	}

	if err := s.scoring.AwardPoints(callerID, scoring.CompletionPoints); err != nil {
		// The completion is committed; surface the award failure rather
		// than pretending the whole operation failed.
		return nil, err
	}

	s.logger.Info("chore completed", "chore_id", choreID, "user_id", callerID)

	// Build the result from the state the CAS just wrote. Re-reading the row
	// could race with a concurrent remove and come back empty.
	completed := *c
	completed.Status = model.ChoreStatusCompleted
	completed.AssignedTo = &callerID
	completed.CompletionNote = note
	completed.LastCompleted = &completedAt
	completed.UpdatedAt = completedAt
	return &completed, nil
}

// Remove deletes a completed chore and, through the cascade, its logs. It
// returns the chore as it was, so callers still know which group it was in.
func (s *Service) Remove(callerID, choreID int64) (*model.Chore, error) {
	c, err := s.chores.GetByID(choreID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: chore %d", apperr.ErrNotFound, choreID)
	}

	if c.Status != model.ChoreStatusCompleted {
		return nil, fmt.Errorf("%w: only completed chores can be removed", apperr.ErrInvalidState)
	}

	callerGroups, err := s.users.GroupIDs(callerID)
	if err != nil {
		return nil, err
	}
	if !CanRemove(c, callerID, callerGroups) {
		return nil, fmt.Errorf("%w: user %d may not remove chore %d", apperr.ErrForbidden, callerID, choreID)
	}

	if err := s.chores.Delete(choreID); err != nil {
		return nil, err
	}

	s.logger.Info("chore removed", "chore_id", choreID, "user_id", callerID)
	return c, nil
}

// Delete deletes a pending chore and any logs it accumulated. It returns the
// chore as it was, so callers still know which group it was in.
func (s *Service) Delete(callerID, choreID int64) (*model.Chore, error) {
	c, err := s.chores.GetByID(choreID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: chore %d", apperr.ErrNotFound, choreID)
	}

	if c.Status == model.ChoreStatusCompleted {
		return nil, fmt.Errorf("%w: completed chores must be removed, not deleted", apperr.ErrInvalidState)
	}

	callerGroups, err := s.users.GroupIDs(callerID)
	if err != nil {
		return nil, err
	}
	if !CanDelete(c, callerID, callerGroups) {
		return nil, fmt.Errorf("%w: user %d may not delete chore %d", apperr.ErrForbidden, callerID, choreID)
	}

	if err := s.chores.Delete(choreID); err != nil {
		return nil, err
	}

	s.logger.Info("chore deleted", "chore_id", choreID, "user_id", callerID)
	return c, nil
}

// ListForGroup returns all of a group's chores, newest first. Members only.
func (s *Service) ListForGroup(groupID, callerID int64) ([]model.ChoreView, error) {
	member, err := s.groups.IsMember(groupID, callerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("%w: user %d may not view group %d", apperr.ErrForbidden, callerID, groupID)
	}

	chores, err := s.chores.ListByGroup(groupID)
	if err != nil {
		return nil, err
	}
	if chores == nil {
		chores = []model.ChoreView{}
	}
	return chores, nil
}
