package chore

import "github.com/oasis-pandey/chorechamp/internal/model"

const (
	completedLimit    = 10
	allCompletedLimit = 20
)

// Dashboard composes the four read-only chore views for one user. The
// sub-queries run independently; each reflects state at its own query time.
type Dashboard struct {
	Assigned           []model.ChoreView `json:"assigned"`
	AllGroupChores     []model.ChoreView `json:"all_group_chores"`
	Completed          []model.ChoreView `json:"completed"`
	AllCompletedChores []model.ChoreView `json:"all_completed_chores"`
}

// Dashboard builds the user's dashboard: their pending assignments, all
// pending chores across their groups, their own recent completions, and
// recent completions across their groups.
func (s *Service) Dashboard(callerID int64) (*Dashboard, error) {
	assigned, err := s.chores.ListPendingAssigned(callerID)
	if err != nil {
		return nil, err
	}

	allGroup, err := s.chores.ListPendingByUserGroups(callerID)
	if err != nil {
		return nil, err
	}

	completed, err := s.chores.ListCompletedByAssignee(callerID, completedLimit)
	if err != nil {
		return nil, err
	}

	allCompleted, err := s.chores.ListCompletedByUserGroups(callerID, allCompletedLimit)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Assigned:           assigned,
		AllGroupChores:     allGroup,
		Completed:          completed,
		AllCompletedChores: allCompleted,
	}
	// Empty slices, not nulls, in the JSON payload.
	if d.Assigned == nil {
		d.Assigned = []model.ChoreView{}
	}
	if d.AllGroupChores == nil {
		d.AllGroupChores = []model.ChoreView{}
	}
	if d.Completed == nil {
		d.Completed = []model.ChoreView{}
	}
	if d.AllCompletedChores == nil {
		d.AllCompletedChores = []model.ChoreView{}
	}
	return d, nil
}
