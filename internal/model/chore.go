package model

import "time"

type ChoreStatus string

const (
	ChoreStatusPending   ChoreStatus = "pending"
	ChoreStatusCompleted ChoreStatus = "completed"
)

type ChoreFrequency string

const (
	FrequencyDaily   ChoreFrequency = "daily"
	FrequencyWeekly  ChoreFrequency = "weekly"
	FrequencyMonthly ChoreFrequency = "monthly"
)

// ValidFrequency reports whether f is one of the supported frequencies.
func ValidFrequency(f ChoreFrequency) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

type Chore struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Frequency      ChoreFrequency `json:"frequency"`
	Status         ChoreStatus    `json:"status"`
	AssignedTo     *int64         `json:"assigned_to"`
	GroupID        int64          `json:"group_id"`
	CreatedBy      int64          `json:"created_by"`
	CompletionNote string         `json:"completion_note"`
	LastCompleted  *time.Time     `json:"last_completed"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ChoreLog is the immutable record of one completion event.
type ChoreLog struct {
	ID          int64     `json:"id"`
	ChoreID     int64     `json:"chore_id"`
	UserID      int64     `json:"user_id"`
	Note        string    `json:"note"`
	CompletedAt time.Time `json:"completed_at"`
}

// ChoreView is a chore joined with the names a dashboard row needs.
type ChoreView struct {
	Chore
	GroupName        string `json:"group_name"`
	AssigneeUsername string `json:"assignee_username,omitempty"`
	CreatorUsername  string `json:"creator_username"`
}
