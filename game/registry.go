package game

import (
	"context"
	"errors"
	"sync"

	"github.com/bellapacxx/bingo-rooms/utils/logger"
)

// SessionRegistry is the process-wide table of live room coordinators.
// Exactly one coordinator owns a room code at a time: creation is
// first-join-wins, and rooms abandoned by a dead instance are rebuilt
// from their last persisted snapshot.
type SessionRegistry struct {
	mu    sync.Mutex
	rooms map[string]*RoomCoordinator

	broadcaster Broadcaster
	store       Store
	notifier    Notifier
	defaults    Settings
	prizePool   float64
}

func NewSessionRegistry(b Broadcaster, s Store, n Notifier, defaults Settings, prizePool float64) *SessionRegistry {
	return &SessionRegistry{
		rooms:       make(map[string]*RoomCoordinator),
		broadcaster: b,
		store:       s,
		notifier:    n,
		defaults:    defaults,
		prizePool:   prizePool,
	}
}

// Get returns the live coordinator for a room, if this instance holds
// it.
func (r *SessionRegistry) Get(room string) (*RoomCoordinator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rooms[room]
	return c, ok
}

// GetOrCreate resolves a room code to its coordinator. A stored
// non-terminal room is restored by replay; otherwise a fresh waiting
// room is created. When two joins race, the first insert wins and the
// loser's coordinator is discarded.
func (r *SessionRegistry) GetOrCreate(ctx context.Context, room string) (*RoomCoordinator, error) {
	r.mu.Lock()
	if c, ok := r.rooms[room]; ok {
		r.mu.Unlock()
		return c, nil
	}
	r.mu.Unlock()

	c := r.build(ctx, room)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rooms[room]; ok {
		c.Shutdown()
		return existing, nil
	}
	c.SetOnTerminal(r.MaybeEvict)
	r.rooms[room] = c
	return c, nil
}

func (r *SessionRegistry) build(ctx context.Context, room string) *RoomCoordinator {
	if r.store != nil {
		snap, err := r.store.LoadRoom(ctx, room)
		switch {
		case err == nil && snap != nil && !snap.Status.Terminal():
			logger.Infof("[Registry] restoring room %s from snapshot (%d draws)", room, len(snap.DrawHistory))
			return RestoreRoomCoordinator(snap, r.broadcaster, r.store, r.notifier)
		case err != nil && !errors.Is(err, ErrNotFound):
			logger.Errorf("[Registry] load of room %s failed, starting fresh: %v", room, err)
		}
	}
	return NewRoomCoordinator(room, r.defaults, r.prizePool, r.broadcaster, r.store, r.notifier)
}

// Remove drops a room unconditionally.
func (r *SessionRegistry) Remove(room string) {
	r.mu.Lock()
	c, ok := r.rooms[room]
	delete(r.rooms, room)
	r.mu.Unlock()
	if ok {
		c.Shutdown()
	}
}

// MaybeEvict drops a room once it is terminal and no sockets remain.
// Called from the coordinator's terminal hook and on socket detach.
func (r *SessionRegistry) MaybeEvict(room string) {
	r.mu.Lock()
	c, ok := r.rooms[room]
	if !ok || !c.Idle() {
		r.mu.Unlock()
		return
	}
	delete(r.rooms, room)
	r.mu.Unlock()
	c.Shutdown()
	logger.Infof("[Registry] evicted room %s", room)
}

// Len reports the number of live rooms on this instance.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// Codes lists the live room codes.
func (r *SessionRegistry) Codes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.rooms))
	for code := range r.rooms {
		out = append(out, code)
	}
	return out
}
