package game

import (
	"context"
	"testing"
)

func newTestRegistry(st *stubStore) *SessionRegistry {
	if st == nil {
		st = newStubStore()
	}
	return NewSessionRegistry(&stubBroadcaster{}, st, &stubNotifier{}, testSettings(), 100)
}

func TestRegistry_GetOrCreateReturnsSameInstance(t *testing.T) {
	reg := newTestRegistry(nil)
	ctx := context.Background()

	a, err := reg.GetOrCreate(ctx, "R1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	t.Cleanup(a.Shutdown)
	b, err := reg.GetOrCreate(ctx, "R1")
	if err != nil {
		t.Fatalf("GetOrCreate again: %v", err)
	}
	if a != b {
		t.Error("second GetOrCreate returned a different coordinator")
	}
	if got := reg.Len(); got != 1 {
		t.Errorf("Len = %d, want 1", got)
	}

	got, ok := reg.Get("R1")
	if !ok || got != a {
		t.Error("Get did not return the live coordinator")
	}
	if _, ok := reg.Get("R2"); ok {
		t.Error("Get returned a coordinator for an unknown room")
	}
}

func TestRegistry_RestoresStoredRoom(t *testing.T) {
	st := newStubStore()
	ctx := context.Background()

	// Build a live room, capture its snapshot as the stored state.
	seed := NewRoomCoordinator("R1", testSettings(), 100, &stubBroadcaster{}, newStubStore(), nil)
	if err := seed.Join("alice", "Alice"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := seed.Join("bob", "Bob"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := seed.Start("alice"); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 10; i++ {
		seed.handleTick()
	}
	snap := seed.Snapshot()
	seed.Shutdown()
	st.mu.Lock()
	st.rooms["R1"] = snap
	st.mu.Unlock()

	reg := newTestRegistry(st)
	c, err := reg.GetOrCreate(ctx, "R1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	t.Cleanup(c.Shutdown)

	rs := c.Snapshot()
	if rs.SessionID != snap.SessionID {
		t.Errorf("restored SessionID = %s, want %s", rs.SessionID, snap.SessionID)
	}
	if rs.Status != StatusActive {
		t.Errorf("restored Status = %s, want active", rs.Status)
	}
	if len(rs.Members) != 2 {
		t.Errorf("restored Members = %d, want 2", len(rs.Members))
	}
	if len(rs.DrawHistory) != len(snap.DrawHistory) {
		t.Errorf("restored DrawHistory = %d entries, want %d", len(rs.DrawHistory), len(snap.DrawHistory))
	}
}

func TestRegistry_TerminalSnapshotStartsFresh(t *testing.T) {
	st := newStubStore()
	st.rooms["R1"] = &Snapshot{
		Room:      "R1",
		SessionID: "old-session",
		Status:    StatusCompleted,
		Settings:  testSettings(),
	}

	reg := newTestRegistry(st)
	c, err := reg.GetOrCreate(context.Background(), "R1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	t.Cleanup(c.Shutdown)

	snap := c.Snapshot()
	if snap.Status != StatusWaiting {
		t.Errorf("Status = %s, want a fresh waiting room", snap.Status)
	}
	if snap.SessionID == "old-session" {
		t.Error("completed session was revived instead of replaced")
	}
}

func TestRegistry_MaybeEvict(t *testing.T) {
	reg := newTestRegistry(nil)
	ctx := context.Background()

	c, err := reg.GetOrCreate(ctx, "R1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	c.Attach()

	// Not terminal: eviction declines.
	reg.MaybeEvict("R1")
	if reg.Len() != 1 {
		t.Fatal("evicted a live waiting room")
	}

	if err := c.Join("alice", "Alice"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := c.Leave("alice"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if got := c.Snapshot().Status; got != StatusCancelled {
		t.Fatalf("Status = %s, want cancelled", got)
	}

	// Terminal but still watched: eviction declines.
	reg.MaybeEvict("R1")
	if reg.Len() != 1 {
		t.Fatal("evicted a room with an attached socket")
	}

	c.Detach()
	reg.MaybeEvict("R1")
	waitFor(t, "eviction", func() bool { return reg.Len() == 0 })
	if _, ok := reg.Get("R1"); ok {
		t.Error("evicted room still resolvable")
	}
}

func TestRegistry_TerminalHookEvictsUnwatchedRoom(t *testing.T) {
	reg := newTestRegistry(nil)

	c, err := reg.GetOrCreate(context.Background(), "R1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if err := c.Join("alice", "Alice"); err != nil {
		t.Fatalf("join: %v", err)
	}
	// No sockets attached; cancelling the room triggers the hook.
	if err := c.Leave("alice"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	waitFor(t, "terminal-hook eviction", func() bool { return reg.Len() == 0 })
}

func TestRegistry_Remove(t *testing.T) {
	reg := newTestRegistry(nil)
	if _, err := reg.GetOrCreate(context.Background(), "R1"); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if _, err := reg.GetOrCreate(context.Background(), "R2"); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	codes := reg.Codes()
	if len(codes) != 2 {
		t.Fatalf("Codes = %v, want two rooms", codes)
	}

	reg.Remove("R1")
	if reg.Len() != 1 {
		t.Errorf("Len after Remove = %d, want 1", reg.Len())
	}
	if _, ok := reg.Get("R1"); ok {
		t.Error("removed room still resolvable")
	}

	// Removing an absent room is harmless.
	reg.Remove("R1")
}
