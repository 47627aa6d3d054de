package model

import "time"

type Group struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"invite_code"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type GroupMember struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberProfile is the read-side projection of a group member: just the
// user fields the group views need.
type MemberProfile struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Points   int    `json:"points"`
}

// GroupSummary is the list-view projection of a group.
type GroupSummary struct {
	Group
	MemberCount int `json:"member_count"`
}
