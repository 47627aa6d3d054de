package chore

import (
	"testing"

	"github.com/oasis-pandey/chorechamp/internal/model"
)

func TestDashboardEmpty(t *testing.T) {
	env := setupChoreService(t)
	u := env.user(t, "ursula")

	d, err := env.chores.Dashboard(u.ID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.Assigned == nil || d.AllGroupChores == nil || d.Completed == nil || d.AllCompletedChores == nil {
		t.Fatal("all dashboard sections must be non-nil")
	}
	if len(d.Assigned)+len(d.AllGroupChores)+len(d.Completed)+len(d.AllCompletedChores) != 0 {
		t.Error("expected an empty dashboard")
	}
}

func TestDashboardSections(t *testing.T) {
	env := setupChoreService(t)
	u := env.user(t, "ursula")
	v := env.user(t, "victor")

	g, _ := env.groups.Create(u.ID, "Flat")
	env.groups.Join(v.ID, g.InviteCode)

	// Pending, assigned to victor.
	env.chores.Create(u.ID, CreateInput{Name: "Mop", Frequency: model.FrequencyWeekly, AssignedTo: &v.ID})
	// Pending, open.
	env.chores.Create(u.ID, CreateInput{Name: "Dust", Frequency: model.FrequencyWeekly})
	// Completed by victor.
	done, _ := env.chores.Create(u.ID, CreateInput{Name: "Bins", Frequency: model.FrequencyWeekly})
	env.chores.Complete(v.ID, done.ID, "")
	// Completed by ursula.
	mine, _ := env.chores.Create(u.ID, CreateInput{Name: "Sink", Frequency: model.FrequencyWeekly})
	env.chores.Complete(u.ID, mine.ID, "")

	d, err := env.chores.Dashboard(v.ID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if len(d.Assigned) != 1 || d.Assigned[0].Name != "Mop" {
		t.Errorf("assigned = %v, want just Mop", names(d.Assigned))
	}
	if len(d.AllGroupChores) != 2 {
		t.Errorf("all group chores = %v, want Mop and Dust", names(d.AllGroupChores))
	}
	if len(d.Completed) != 1 || d.Completed[0].Name != "Bins" {
		t.Errorf("completed = %v, want just Bins", names(d.Completed))
	}
	if len(d.AllCompletedChores) != 2 {
		t.Errorf("all completed = %v, want Bins and Sink", names(d.AllCompletedChores))
	}
}

func TestDashboardCompletedLimits(t *testing.T) {
	env := setupChoreService(t)
	u := env.user(t, "ursula")
	env.groups.Create(u.ID, "Flat")

	for i := 0; i < 25; i++ {
		c, _ := env.chores.Create(u.ID, CreateInput{Name: "Chore", Frequency: model.FrequencyDaily})
		if _, err := env.chores.Complete(u.ID, c.ID, ""); err != nil {
			t.Fatalf("complete %d: %v", i, err)
		}
	}

	d, err := env.chores.Dashboard(u.ID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(d.Completed) != completedLimit {
		t.Errorf("completed = %d, want %d", len(d.Completed), completedLimit)
	}
	if len(d.AllCompletedChores) != allCompletedLimit {
		t.Errorf("all completed = %d, want %d", len(d.AllCompletedChores), allCompletedLimit)
	}
}

// Dashboard shows only the caller's groups, never another group's chores.
func TestDashboardScopedToOwnGroups(t *testing.T) {
	env := setupChoreService(t)
	u := env.user(t, "ursula")
	w := env.user(t, "wanda")

	env.groups.Create(u.ID, "Flat")
	env.groups.Create(w.ID, "Other")

	env.chores.Create(u.ID, CreateInput{Name: "Dishes", Frequency: model.FrequencyDaily})

	d, err := env.chores.Dashboard(w.ID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(d.AllGroupChores) != 0 {
		t.Errorf("wanda sees %v from a foreign group", names(d.AllGroupChores))
	}
}

func names(views []model.ChoreView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Name
	}
	return out
}
