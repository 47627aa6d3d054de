package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/oasis-pandey/chorechamp/internal/model"
)

type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	var assignedTo sql.NullInt64
	var lastCompleted sql.NullTime

	err := scanner.Scan(
		&c.ID, &c.Name, &c.Description, &c.Frequency, &c.Status,
		&assignedTo, &c.GroupID, &c.CreatedBy, &c.CompletionNote,
		&lastCompleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignedTo.Valid {
		c.AssignedTo = &assignedTo.Int64
	}
	if lastCompleted.Valid {
		c.LastCompleted = &lastCompleted.Time
	}
	return &c, nil
}

const choreCols = `id, name, description, frequency, status, assigned_to, group_id, created_by, completion_note, last_completed, created_at, updated_at`

func (s *ChoreStore) Create(name, description string, frequency model.ChoreFrequency, assignedTo *int64, groupID, createdBy int64) (*model.Chore, error) {
	var aTo sql.NullInt64
	if assignedTo != nil {
		aTo = sql.NullInt64{Int64: *assignedTo, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO chores (name, description, frequency, assigned_to, group_id, created_by) VALUES (?, ?, ?, ?, ?, ?)`,
		name, description, frequency, aTo, groupID, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChoreStore) GetByID(id int64) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

// Complete performs the pending→completed transition as a compare-and-set and
// writes the completion log in the same transaction. It returns false without
// error when the chore was not pending anymore (the CAS was lost).
func (s *ChoreStore) Complete(choreID, userID int64, note string, completedAt time.Time) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE chores
		 SET status = 'completed', assigned_to = ?, completion_note = ?,
		     last_completed = ?, updated_at = ?
		 WHERE id = ? AND status = 'pending'`,
		userID, note, completedAt.UTC(), completedAt.UTC(), choreID,
	)
	if err != nil {
		return false, fmt.Errorf("complete chore: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if _, err := tx.Exec(
		`INSERT INTO chore_logs (chore_id, user_id, note, completed_at) VALUES (?, ?, ?, ?)`,
		choreID, userID, note, completedAt.UTC(),
	); err != nil {
		return false, fmt.Errorf("insert chore log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

// Delete removes the chore; its logs go with it via the cascade constraint.
func (s *ChoreStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM chores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chore: %w", err)
	}
	return nil
}

// --- View queries ---

func scanChoreView(scanner interface{ Scan(...any) error }) (*model.ChoreView, error) {
	var v model.ChoreView
	var assignedTo sql.NullInt64
	var lastCompleted sql.NullTime
	var assigneeName sql.NullString

	err := scanner.Scan(
		&v.ID, &v.Name, &v.Description, &v.Frequency, &v.Status,
		&assignedTo, &v.GroupID, &v.CreatedBy, &v.CompletionNote,
		&lastCompleted, &v.CreatedAt, &v.UpdatedAt,
		&v.GroupName, &assigneeName, &v.CreatorUsername,
	)
	if err != nil {
		return nil, err
	}

	if assignedTo.Valid {
		v.AssignedTo = &assignedTo.Int64
	}
	if lastCompleted.Valid {
		v.LastCompleted = &lastCompleted.Time
	}
	if assigneeName.Valid {
		v.AssigneeUsername = assigneeName.String
	}
	return &v, nil
}

const choreViewQuery = `
	SELECT c.id, c.name, c.description, c.frequency, c.status,
	       c.assigned_to, c.group_id, c.created_by, c.completion_note,
	       c.last_completed, c.created_at, c.updated_at,
	       g.name, au.username, cu.username
	FROM chores c
	JOIN groups g ON g.id = c.group_id
	LEFT JOIN users au ON au.id = c.assigned_to
	JOIN users cu ON cu.id = c.created_by`

func (s *ChoreStore) listViews(query string, args ...any) ([]model.ChoreView, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()

	var views []model.ChoreView
	for rows.Next() {
		v, err := scanChoreView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore view: %w", err)
		}
		views = append(views, *v)
	}
	return views, rows.Err()
}

// ListByGroup returns all chores for a group, newest first.
func (s *ChoreStore) ListByGroup(groupID int64) ([]model.ChoreView, error) {
	return s.listViews(
		choreViewQuery+` WHERE c.group_id = ? ORDER BY c.created_at DESC, c.id DESC`,
		groupID,
	)
}

// ListPendingAssigned returns pending chores assigned to the user.
func (s *ChoreStore) ListPendingAssigned(userID int64) ([]model.ChoreView, error) {
	return s.listViews(
		choreViewQuery+` WHERE c.status = 'pending' AND c.assigned_to = ?
		 ORDER BY c.created_at DESC, c.id DESC`,
		userID,
	)
}

// ListPendingByUserGroups returns pending chores across all of the user's
// groups, assigned or not.
func (s *ChoreStore) ListPendingByUserGroups(userID int64) ([]model.ChoreView, error) {
	return s.listViews(
		choreViewQuery+` WHERE c.status = 'pending'
		 AND c.group_id IN (SELECT group_id FROM group_members WHERE user_id = ?)
		 ORDER BY c.created_at DESC, c.id DESC`,
		userID,
	)
}

// ListCompletedByAssignee returns the user's completed chores, most recent
// completions first.
func (s *ChoreStore) ListCompletedByAssignee(userID int64, limit int) ([]model.ChoreView, error) {
	return s.listViews(
		choreViewQuery+` WHERE c.status = 'completed' AND c.assigned_to = ?
		 ORDER BY c.last_completed DESC, c.id DESC LIMIT ?`,
		userID, limit,
	)
}

// ListCompletedByUserGroups returns completed chores across all of the user's
// groups, most recent completions first.
func (s *ChoreStore) ListCompletedByUserGroups(userID int64, limit int) ([]model.ChoreView, error) {
	return s.listViews(
		choreViewQuery+` WHERE c.status = 'completed'
		 AND c.group_id IN (SELECT group_id FROM group_members WHERE user_id = ?)
		 ORDER BY c.last_completed DESC, c.id DESC LIMIT ?`,
		userID, limit,
	)
}

// --- Log queries ---

const choreLogCols = `id, chore_id, user_id, note, completed_at`

func (s *ChoreStore) ListLogsByChore(choreID int64) ([]model.ChoreLog, error) {
	rows, err := s.db.Query(
		`SELECT `+choreLogCols+` FROM chore_logs WHERE chore_id = ? ORDER BY completed_at DESC, id DESC`,
		choreID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chore logs: %w", err)
	}
	defer rows.Close()

	var logs []model.ChoreLog
	for rows.Next() {
		var l model.ChoreLog
		if err := rows.Scan(&l.ID, &l.ChoreID, &l.UserID, &l.Note, &l.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan chore log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
