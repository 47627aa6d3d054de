package group

import (
	"fmt"
	"log/slog"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/oasis-pandey/chorechamp/internal/apperr"
	"github.com/oasis-pandey/chorechamp/internal/model"
	"github.com/oasis-pandey/chorechamp/internal/store"
)

// Invite codes avoid lookalike characters so they survive being read aloud.
const (
	inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	inviteCodeLength   = 6
	maxCodeAttempts    = 5
)

// Detail is the member-facing projection of a group.
type Detail struct {
	model.Group
	Members []model.MemberProfile `json:"members"`
}

// Service manages group membership: creating groups, joining by invite
// code, leaving, and the membership reads other components depend on.
type Service struct {
	groups *store.GroupStore
	logger *slog.Logger
}

func NewService(groups *store.GroupStore, logger *slog.Logger) *Service {
	return &Service{groups: groups, logger: logger}
}

// Create makes a new group with a unique invite code and the creator as its
// first member. The group insert and the creator's membership row commit
// together, so neither can exist without the other.
func (s *Service) Create(callerID int64, name string) (*model.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", apperr.ErrValidation)
	}

	code, err := s.generateInviteCode()
	if err != nil {
		return nil, err
	}

	g, err := s.groups.CreateWithCreator(name, code, callerID)
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	s.logger.Info("group created", "group_id", g.ID, "creator_id", callerID)
	return g, nil
}

// generateInviteCode produces a fresh code, regenerating on the (unlikely)
// collision with an existing group.
func (s *Service) generateInviteCode() (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := gonanoid.Generate(inviteCodeAlphabet, inviteCodeLength)
		if err != nil {
			return "", fmt.Errorf("generate invite code: %w", err)
		}
		exists, err := s.groups.InviteCodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		s.logger.Warn("invite code collision, regenerating", "attempt", i+1)
	}
	return "", fmt.Errorf("generate invite code: exhausted %d attempts", maxCodeAttempts)
}

// Join adds the caller to the group carrying the invite code.
func (s *Service) Join(callerID int64, inviteCode string) (*model.Group, error) {
	inviteCode = strings.ToUpper(strings.TrimSpace(inviteCode))
	if inviteCode == "" {
		return nil, fmt.Errorf("%w: invite code is required", apperr.ErrValidation)
	}

	g, err := s.groups.GetByInviteCode(inviteCode)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("%w: no group with that invite code", apperr.ErrNotFound)
	}

	member, err := s.groups.IsMember(g.ID, callerID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, fmt.Errorf("%w: already a member of this group", apperr.ErrConflict)
	}

	if _, err := s.groups.AddMember(g.ID, callerID); err != nil {
		return nil, fmt.Errorf("join group: %w", err)
	}

	s.logger.Info("user joined group", "group_id", g.ID, "user_id", callerID)
	return g, nil
}

// Leave removes the caller from the group. Emptied groups are kept;
// orphan-group cleanup is deliberately out of scope.
func (s *Service) Leave(callerID, groupID int64) error {
	g, err := s.groups.GetByID(groupID)
	if err != nil {
		return err
	}
	if g == nil {
		return fmt.Errorf("%w: group %d", apperr.ErrNotFound, groupID)
	}

	member, err := s.groups.IsMember(groupID, callerID)
	if err != nil {
		return err
	}
	if !member {
		return fmt.Errorf("%w: user %d in group %d", apperr.ErrNotMember, callerID, groupID)
	}

	if err := s.groups.RemoveMember(groupID, callerID); err != nil {
		return fmt.Errorf("leave group: %w", err)
	}

	s.logger.Info("user left group", "group_id", groupID, "user_id", callerID)
	return nil
}

// Get returns the group with its member profiles. Members only.
func (s *Service) Get(groupID, callerID int64) (*Detail, error) {
	g, err := s.groups.GetByID(groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("%w: group %d", apperr.ErrNotFound, groupID)
	}

	member, err := s.groups.IsMember(groupID, callerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("%w: user %d may not view group %d", apperr.ErrForbidden, callerID, groupID)
	}

	members, err := s.groups.ListMembers(groupID)
	if err != nil {
		return nil, err
	}

	return &Detail{Group: *g, Members: members}, nil
}

// ListForUser returns the caller's groups, earliest joined first.
func (s *Service) ListForUser(callerID int64) ([]model.GroupSummary, error) {
	groups, err := s.groups.ListGroupsForUser(callerID)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []model.GroupSummary{}
	}
	return groups, nil
}
