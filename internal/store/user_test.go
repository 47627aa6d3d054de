package store

import (
	"testing"

	"github.com/oasis-pandey/chorechamp/internal/database"
)

func setupUserTestDB(t *testing.T) (*UserStore, *GroupStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db), NewGroupStore(db)
}

func TestUserCreate(t *testing.T) {
	us, _ := setupUserTestDB(t)

	u, err := us.Create("alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("username = %q, want %q", u.Username, "alice")
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", u.Email, "alice@example.com")
	}
	if u.Points != 0 {
		t.Errorf("points = %d, want 0", u.Points)
	}
	if u.Streak != 0 {
		t.Errorf("streak = %d, want 0", u.Streak)
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	us, _ := setupUserTestDB(t)

	if _, err := us.Create("alice", "alice@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create("alice2", "alice@example.com", "hash"); err == nil {
		t.Fatal("expected error for duplicate email, got nil")
	}
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	us, _ := setupUserTestDB(t)

	if _, err := us.Create("alice", "alice@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create("alice", "other@example.com", "hash"); err == nil {
		t.Fatal("expected error for duplicate username, got nil")
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	us, _ := setupUserTestDB(t)

	u, err := us.GetByID(9999)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u != nil {
		t.Error("expected nil for nonexistent user")
	}
}

func TestUserGetByEmail(t *testing.T) {
	us, _ := setupUserTestDB(t)

	created, _ := us.Create("bob", "bob@example.com", "hash")

	u, err := us.GetByEmail("bob@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u == nil || u.ID != created.ID {
		t.Fatalf("expected user %d, got %v", created.ID, u)
	}

	u, err = us.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestUserAddPoints(t *testing.T) {
	us, _ := setupUserTestDB(t)

	u, _ := us.Create("carol", "carol@example.com", "hash")

	if err := us.AddPoints(u.ID, 10); err != nil {
		t.Fatalf("add points: %v", err)
	}
	if err := us.AddPoints(u.ID, 10); err != nil {
		t.Fatalf("add points: %v", err)
	}

	got, _ := us.GetByID(u.ID)
	if got.Points != 20 {
		t.Errorf("points = %d, want 20", got.Points)
	}
}

func TestUserGroupIDsJoinOrder(t *testing.T) {
	us, gs := setupUserTestDB(t)

	u, _ := us.Create("dave", "dave@example.com", "hash")
	g1, _ := gs.CreateWithCreator("First", "AAAAAA", u.ID)
	g2, _ := gs.CreateWithCreator("Second", "BBBBBB", u.ID)

	ids, err := us.GroupIDs(u.ID)
	if err != nil {
		t.Fatalf("group ids: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 group ids, got %d", len(ids))
	}
	if ids[0] != g1.ID || ids[1] != g2.ID {
		t.Errorf("ids = %v, want [%d %d] (join order)", ids, g1.ID, g2.ID)
	}
}

func TestUserGroupIDsEmpty(t *testing.T) {
	us, _ := setupUserTestDB(t)

	u, _ := us.Create("eve", "eve@example.com", "hash")

	ids, err := us.GroupIDs(u.ID)
	if err != nil {
		t.Fatalf("group ids: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no group ids, got %v", ids)
	}
}
