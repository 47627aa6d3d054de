package scoring

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/oasis-pandey/chorechamp/internal/apperr"
	"github.com/oasis-pandey/chorechamp/internal/database"
	"github.com/oasis-pandey/chorechamp/internal/store"
)

func setupEngine(t *testing.T) (*Engine, *store.UserStore, *store.GroupStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	us := store.NewUserStore(db)
	gs := store.NewGroupStore(db)
	return NewEngine(us, gs, slog.Default()), us, gs
}

func TestAwardPointsAccumulates(t *testing.T) {
	engine, us, _ := setupEngine(t)

	u, _ := us.Create("alice", "alice@example.com", "hash")

	for i := 0; i < 3; i++ {
		if err := engine.AwardPoints(u.ID, CompletionPoints); err != nil {
			t.Fatalf("award %d: %v", i, err)
		}
	}

	got, _ := us.GetByID(u.ID)
	if got.Points != 3*CompletionPoints {
		t.Errorf("points = %d, want %d", got.Points, 3*CompletionPoints)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	engine, us, gs := setupEngine(t)

	alice, _ := us.Create("alice", "alice@example.com", "hash")
	bob, _ := us.Create("bob", "bob@example.com", "hash")
	g, _ := gs.CreateWithCreator("Flat", "FLAT66", alice.ID)
	gs.AddMember(g.ID, bob.ID)

	engine.AwardPoints(bob.ID, 30)
	engine.AwardPoints(alice.ID, 10)

	board, err := engine.Leaderboard(g.ID, alice.ID)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(board))
	}
	if board[0].Username != "bob" {
		t.Errorf("top = %q, want bob", board[0].Username)
	}
}

func TestLeaderboardForbiddenForNonMember(t *testing.T) {
	engine, us, gs := setupEngine(t)

	alice, _ := us.Create("alice", "alice@example.com", "hash")
	wanda, _ := us.Create("wanda", "wanda@example.com", "hash")
	g, _ := gs.CreateWithCreator("Flat", "FLAT77", alice.ID)

	if _, err := engine.Leaderboard(g.ID, wanda.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}
