package websocket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
)

// fakeMembers is an in-memory MembershipResolver: group ID → member user IDs.
type fakeMembers map[int64][]int64

func (f fakeMembers) MemberUserIDs(groupID int64) ([]int64, error) {
	return f[groupID], nil
}

type failingMembers struct{}

func (failingMembers) MemberUserIDs(int64) ([]int64, error) {
	return nil, errors.New("membership lookup failed")
}

// connect registers a client for the user without a real connection.
func connect(hub *Hub, userID int64) *Client {
	c := &Client{
		hub:    hub,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}
	hub.Register(c)
	return c
}

func drainOne(t *testing.T, c *Client) *Message {
	t.Helper()
	select {
	case data := <-c.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return &msg
	default:
		return nil
	}
}

func TestBroadcastGroupReachesMembersOnly(t *testing.T) {
	members := fakeMembers{7: {1, 2}}
	hub := NewHub(members, slog.Default())

	alice := connect(hub, 1)
	bob := connect(hub, 2)
	wanda := connect(hub, 3) // not in group 7

	hub.BroadcastGroup(7, NewMessage("chore", "completed", 42, nil))

	for _, c := range []*Client{alice, bob} {
		msg := drainOne(t, c)
		if msg == nil {
			t.Fatalf("member %d received nothing", c.userID)
		}
		if msg.Type != "chore_completed" || msg.ID != 42 {
			t.Errorf("member %d got %+v", c.userID, msg)
		}
		if msg.GroupID != 7 {
			t.Errorf("group_id = %d, want 7", msg.GroupID)
		}
	}

	if msg := drainOne(t, wanda); msg != nil {
		t.Errorf("non-member received %+v", msg)
	}
}

func TestBroadcastGroupMultipleConnectionsPerUser(t *testing.T) {
	members := fakeMembers{7: {1}}
	hub := NewHub(members, slog.Default())

	phone := connect(hub, 1)
	kiosk := connect(hub, 1)

	hub.BroadcastGroup(7, NewMessage("group", "joined", 7, nil))

	if drainOne(t, phone) == nil {
		t.Error("first connection received nothing")
	}
	if drainOne(t, kiosk) == nil {
		t.Error("second connection received nothing")
	}
}

func TestBroadcastGroupMembershipResolvedPerEvent(t *testing.T) {
	members := fakeMembers{7: {1, 2}}
	hub := NewHub(members, slog.Default())

	bob := connect(hub, 2)

	hub.BroadcastGroup(7, NewMessage("chore", "created", 1, nil))
	if drainOne(t, bob) == nil {
		t.Fatal("member should receive the first event")
	}

	// Bob leaves the group; the next event must skip him.
	members[7] = []int64{1}

	hub.BroadcastGroup(7, NewMessage("chore", "created", 2, nil))
	if msg := drainOne(t, bob); msg != nil {
		t.Errorf("former member received %+v", msg)
	}
}

func TestBroadcastGroupResolverFailure(t *testing.T) {
	hub := NewHub(failingMembers{}, slog.Default())

	c := connect(hub, 1)

	// Must not panic and must not deliver anything.
	hub.BroadcastGroup(7, NewMessage("chore", "created", 1, nil))

	if msg := drainOne(t, c); msg != nil {
		t.Errorf("received %+v despite resolver failure", msg)
	}
}

func TestBroadcastGroupFullBufferDrops(t *testing.T) {
	members := fakeMembers{7: {1}}
	hub := NewHub(members, slog.Default())

	c := connect(hub, 1)

	for i := 0; i < sendBufferSize+5; i++ {
		hub.BroadcastGroup(7, NewMessage("chore", "created", int64(i), nil))
	}

	// The buffer holds exactly sendBufferSize; the overflow was dropped,
	// not blocked on.
	count := 0
	for drainOne(t, c) != nil {
		count++
	}
	if count != sendBufferSize {
		t.Errorf("expected %d buffered messages, got %d", sendBufferSize, count)
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(fakeMembers{}, slog.Default())

	c1 := connect(hub, 1)
	c2 := connect(hub, 2)

	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.Unregister(c1)
	hub.Unregister(c2)
	// Unregistering twice must not panic.
	hub.Unregister(c2)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestNewMessageType(t *testing.T) {
	msg := NewMessage("group", "left", 5, map[string]any{"user_id": float64(3)})
	if msg.Type != "group_left" {
		t.Errorf("type = %q, want group_left", msg.Type)
	}
	if msg.Entity != "group" || msg.Action != "left" || msg.ID != 5 {
		t.Errorf("message = %+v", msg)
	}
}

func TestConcurrentRegisterBroadcast(t *testing.T) {
	members := fakeMembers{7: {0}}
	hub := NewHub(members, slog.Default())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := connect(hub, 0)
			hub.BroadcastGroup(7, NewMessage("chore", "created", 0, nil))
			for {
				select {
				case <-c.send:
				default:
					hub.Unregister(c)
					return
				}
			}
		}()
	}
	wg.Wait()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("expected 0 clients after concurrent test, got %d", got)
	}
}
