package store

import (
	"database/sql"
	"fmt"

	"github.com/oasis-pandey/chorechamp/internal/model"
)

type GroupStore struct {
	db *sql.DB
}

func NewGroupStore(db *sql.DB) *GroupStore {
	return &GroupStore{db: db}
}

func scanGroup(scanner interface{ Scan(...any) error }) (*model.Group, error) {
	var g model.Group
	err := scanner.Scan(&g.ID, &g.Name, &g.InviteCode, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

const groupCols = `id, name, invite_code, created_at, updated_at`

// CreateWithCreator inserts the group and the creator's membership row in a
// single transaction, so a group never exists without its creator as member.
func (s *GroupStore) CreateWithCreator(name, inviteCode string, creatorID int64) (*model.Group, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO groups (name, invite_code) VALUES (?, ?)`,
		name, inviteCode,
	)
	if err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO group_members (group_id, user_id) VALUES (?, ?)`,
		id, creatorID,
	); err != nil {
		return nil, fmt.Errorf("insert creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *GroupStore) GetByID(id int64) (*model.Group, error) {
	row := s.db.QueryRow(`SELECT `+groupCols+` FROM groups WHERE id = ?`, id)
	g, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}

func (s *GroupStore) GetByInviteCode(code string) (*model.Group, error) {
	row := s.db.QueryRow(`SELECT `+groupCols+` FROM groups WHERE invite_code = ?`, code)
	g, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group by invite code: %w", err)
	}
	return g, nil
}

// InviteCodeExists reports whether any group already carries the code.
func (s *GroupStore) InviteCodeExists(code string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM groups WHERE invite_code = ?`, code).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check invite code: %w", err)
	}
	return n > 0, nil
}

func (s *GroupStore) AddMember(groupID, userID int64) (*model.GroupMember, error) {
	result, err := s.db.Exec(
		`INSERT INTO group_members (group_id, user_id) VALUES (?, ?)`,
		groupID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	var m model.GroupMember
	row := s.db.QueryRow(
		`SELECT id, group_id, user_id, created_at FROM group_members WHERE id = ?`, id,
	)
	if err := row.Scan(&m.ID, &m.GroupID, &m.UserID, &m.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan member: %w", err)
	}
	return &m, nil
}

func (s *GroupStore) RemoveMember(groupID, userID int64) error {
	_, err := s.db.Exec(
		`DELETE FROM group_members WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

// IsMember reports whether the user belongs to the group.
func (s *GroupStore) IsMember(groupID, userID int64) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM group_members WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return n > 0, nil
}

// MemberUserIDs returns the user IDs of the group's members.
func (s *GroupStore) MemberUserIDs(groupID int64) ([]int64, error) {
	rows, err := s.db.Query(
		`SELECT user_id FROM group_members WHERE group_id = ?`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list member user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan member user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListMembers returns member profiles for the group, in join order.
func (s *GroupStore) ListMembers(groupID int64) ([]model.MemberProfile, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.username, u.email, u.points
		 FROM group_members gm
		 JOIN users u ON u.id = gm.user_id
		 WHERE gm.group_id = ?
		 ORDER BY gm.created_at ASC, gm.id ASC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.MemberProfile
	for rows.Next() {
		var m model.MemberProfile
		if err := rows.Scan(&m.UserID, &m.Username, &m.Email, &m.Points); err != nil {
			return nil, fmt.Errorf("scan member profile: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// ListLeaderboard returns member profiles ordered by points descending.
func (s *GroupStore) ListLeaderboard(groupID int64) ([]model.MemberProfile, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.username, u.email, u.points
		 FROM group_members gm
		 JOIN users u ON u.id = gm.user_id
		 WHERE gm.group_id = ?
		 ORDER BY u.points DESC, u.username ASC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	defer rows.Close()

	var members []model.MemberProfile
	for rows.Next() {
		var m model.MemberProfile
		if err := rows.Scan(&m.UserID, &m.Username, &m.Email, &m.Points); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// ListGroupsForUser returns every group the user belongs to, with member
// counts, in join order.
func (s *GroupStore) ListGroupsForUser(userID int64) ([]model.GroupSummary, error) {
	rows, err := s.db.Query(
		`SELECT g.id, g.name, g.invite_code, g.created_at, g.updated_at,
		        (SELECT COUNT(*) FROM group_members m WHERE m.group_id = g.id)
		 FROM groups g
		 JOIN group_members gm ON g.id = gm.group_id
		 WHERE gm.user_id = ?
		 ORDER BY gm.created_at ASC, gm.id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list groups for user: %w", err)
	}
	defer rows.Close()

	var groups []model.GroupSummary
	for rows.Next() {
		var g model.GroupSummary
		if err := rows.Scan(&g.ID, &g.Name, &g.InviteCode, &g.CreatedAt, &g.UpdatedAt, &g.MemberCount); err != nil {
			return nil, fmt.Errorf("scan group summary: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
