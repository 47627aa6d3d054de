package chore

import "github.com/oasis-pandey/chorechamp/internal/model"

// Authorization predicates for chore transitions. Each is evaluated fresh on
// every mutating call against the caller's current group memberships; no
// permission state is cached between requests.

// CanComplete allows the current assignee, or anyone when the chore is
// unassigned (the completer then claims it).
func CanComplete(c *model.Chore, callerID int64) bool {
	return c.AssignedTo == nil || *c.AssignedTo == callerID
}

// CanRemove allows the assignee or any member of the chore's group.
func CanRemove(c *model.Chore, callerID int64, callerGroupIDs []int64) bool {
	if c.AssignedTo != nil && *c.AssignedTo == callerID {
		return true
	}
	return containsGroup(callerGroupIDs, c.GroupID)
}

// CanDelete allows the creator, the assignee, or any member of the chore's
// group.
func CanDelete(c *model.Chore, callerID int64, callerGroupIDs []int64) bool {
	if c.CreatedBy == callerID {
		return true
	}
	return CanRemove(c, callerID, callerGroupIDs)
}

func containsGroup(groupIDs []int64, groupID int64) bool {
	for _, id := range groupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}
