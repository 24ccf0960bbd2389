package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/bellapacxx/bingo-rooms/utils/logger"
	"github.com/google/uuid"
)

// Broadcaster fans room events out to every subscribed socket, on this
// instance and, through the shared pub/sub backbone, on every other
// instance. Delivery must preserve per-room publish order.
type Broadcaster interface {
	Publish(room string, ev Event)
}

// Store persists room and card snapshots for recovery and history. All
// writes are idempotent under retry; the in-memory state stays
// authoritative and never waits on them.
type Store interface {
	SaveRoom(ctx context.Context, snap *Snapshot) error
	SaveCard(ctx context.Context, sessionID, playerID string, card *Card) error
	LoadRoom(ctx context.Context, room string) (*Snapshot, error)
}

// Notifier hands finished-game results to the background job queue.
// Fire-and-forget, at-least-once.
type Notifier interface {
	Enqueue(sessionID string, winners []Winner, prizePool float64)
}

const (
	// Outbound event buffer per room. On overflow events are dropped
	// with a log, matching the per-socket send policy.
	eventBufferSize = 256

	persistTimeout = 5 * time.Second
)

// RoomCoordinator owns one room. Every mutation, player commands from
// any socket and the room's own clock callbacks alike, funnels through
// its methods under one lock, so no two mutations of the same
// RoomState ever interleave.
type RoomCoordinator struct {
	mu    sync.Mutex
	state *RoomState

	pool     *NumberPool
	patterns *PatternMatcher
	clock    *SessionClock
	rng      *rand.Rand

	broadcaster Broadcaster
	store       Store
	notifier    Notifier

	out     chan Event
	closed  bool
	sockets int

	// onTerminal schedules eviction from the registry once the room
	// reaches a terminal state.
	onTerminal func(room string)
}

// NewRoomCoordinator creates an empty waiting room. The first player
// to join becomes host.
func NewRoomCoordinator(roomCode string, settings Settings, prizePool float64, b Broadcaster, s Store, n Notifier) *RoomCoordinator {
	c := &RoomCoordinator{
		state: &RoomState{
			RoomCode:  roomCode,
			SessionID: uuid.NewString(),
			Status:    StatusWaiting,
			Members:   make(map[string]*Member),
			Settings:  settings,
			PrizePool: prizePool,
			CreatedAt: time.Now(),
		},
		pool:        NewStandardPool(),
		patterns:    NewPatternMatcher(),
		clock:       NewSessionClock(),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		broadcaster: b,
		store:       s,
		notifier:    n,
		out:         make(chan Event, eventBufferSize),
	}
	go c.publishLoop()
	return c
}

// RestoreRoomCoordinator rebuilds a coordinator from a persisted
// snapshot after its original instance went away. Marks and matched
// patterns are recomputed by replaying the draw history against each
// card, so unsynced live marks are re-derived rather than lost.
func RestoreRoomCoordinator(snap *Snapshot, b Broadcaster, s Store, n Notifier) *RoomCoordinator {
	c := NewRoomCoordinator(snap.Room, snap.Settings, snap.PrizePool, b, s, n)
	st := c.state
	st.SessionID = snap.SessionID
	st.HostID = snap.HostID
	st.Status = snap.Status
	st.DrawHistory = append([]Draw(nil), snap.DrawHistory...)
	st.Winners = append([]Winner(nil), snap.Winners...)
	st.StartTime = snap.StartTime
	st.EndTime = snap.EndTime

	draws := st.drawnNumbers()
	for _, n := range draws {
		if err := c.pool.DrawSpecific(n); err != nil {
			logger.Errorf("[Room %s] restore: bad draw %d in history: %v", snap.Room, n, err)
		}
	}
	for _, sm := range snap.Members {
		m := &Member{
			PlayerID: sm.PlayerID,
			Name:     sm.Name,
			Card:     sm.Card,
			JoinedAt: sm.JoinedAt,
		}
		m.Marks = ReplayMarks(m.Card, draws)
		for _, res := range c.patterns.EvaluateAll(m.Marks, st.Settings.EnabledPatterns) {
			m.recordMatch(res.PatternID)
		}
		st.Members[m.PlayerID] = m
	}

	if st.Status == StatusActive || st.Status == StatusPaused {
		// The persisted budget, not wall clock: time the room spent
		// paused or unowned is not charged against the session.
		remaining := snap.RemainingTime
		if remaining <= 0 {
			c.mu.Lock()
			c.finishLocked()
			c.mu.Unlock()
			return c
		}
		c.clock.Prime(remaining, st.Settings.DrawInterval, c.handleTick, c.handleDeadline)
		if st.Status == StatusActive {
			c.clock.Resume()
		}
	}
	return c
}

// SetOnTerminal installs the registry eviction hook.
func (c *RoomCoordinator) SetOnTerminal(fn func(room string)) {
	c.mu.Lock()
	c.onTerminal = fn
	c.mu.Unlock()
}

func (c *RoomCoordinator) RoomCode() string { return c.state.RoomCode }

// Attach counts a socket onto this room.
func (c *RoomCoordinator) Attach() {
	c.mu.Lock()
	c.sockets++
	c.mu.Unlock()
}

// Detach counts a socket off. Returns the remaining socket count.
func (c *RoomCoordinator) Detach() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sockets > 0 {
		c.sockets--
	}
	return c.sockets
}

// Idle reports terminal-and-unwatched, the eviction condition.
func (c *RoomCoordinator) Idle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Status.Terminal() && c.sockets == 0
}

// -------------------- Player commands --------------------

// Join adds a player in the waiting phase and deals them a fresh card.
// A player already in the room is re-acknowledged instead (socket
// reconnect), in any non-terminal state.
func (c *RoomCoordinator) Join(playerID, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state
	if st.Status.Terminal() {
		return ErrRoomNotFound
	}
	if m, ok := st.Members[playerID]; ok {
		c.ackJoinLocked(m)
		return nil
	}
	if st.Status != StatusWaiting {
		return ErrAlreadyStarted
	}
	if len(st.Members) >= st.Settings.MaxPlayers {
		return ErrRoomFull
	}

	card, err := NewCard(c.rng)
	if err != nil {
		return err
	}
	m := &Member{
		PlayerID: playerID,
		Name:     name,
		Card:     card,
		Marks:    NewMarkGrid(),
		JoinedAt: time.Now(),
	}
	st.Members[playerID] = m
	if st.HostID == "" {
		st.HostID = playerID
	}

	c.emit(newEvent(st.RoomCode, EvPlayerJoined, PlayerJoinedPayload{
		PlayerID:       playerID,
		Name:           name,
		CurrentPlayers: len(st.Members),
	}))
	c.ackJoinLocked(m)

	go c.saveCard(st.SessionID, m.PlayerID, card)
	c.persistLocked()
	return nil
}

func (c *RoomCoordinator) ackJoinLocked(m *Member) {
	st := c.state
	c.emit(newDirectEvent(st.RoomCode, m.PlayerID, EvRoomJoined, RoomJoinedPayload{
		Room:           st.RoomCode,
		SessionID:      st.SessionID,
		HostID:         st.HostID,
		Status:         st.Status,
		CurrentPlayers: len(st.Members),
		MaxPlayers:     st.Settings.MaxPlayers,
		Settings:       st.Settings,
		Card:           m.Card,
		Marks:          m.Marks,
	}))
	if m.PlayerID == st.HostID {
		c.emit(newDirectEvent(st.RoomCode, m.PlayerID, EvHostControls, HostControlsPayload{
			CanStart:     len(st.Members) >= st.Settings.MinPlayers,
			CanConfigure: st.Status == StatusWaiting,
		}))
	}
}

// Leave removes a player in any non-terminal state. The host role
// passes to the earliest-joined remaining member; an emptied room is
// cancelled.
func (c *RoomCoordinator) Leave(playerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state
	if st.Status.Terminal() {
		return nil
	}
	m, ok := st.Members[playerID]
	if !ok {
		return ErrNotMember
	}
	delete(st.Members, playerID)

	c.emit(newDirectEvent(st.RoomCode, playerID, EvRoomLeft, nil))
	c.emit(newEvent(st.RoomCode, EvPlayerLeft, PlayerLeftPayload{
		PlayerID:       playerID,
		Name:           m.Name,
		CurrentPlayers: len(st.Members),
	}))

	if len(st.Members) == 0 {
		c.cancelLocked()
		return nil
	}
	if st.HostID == playerID {
		st.HostID = st.earliestMember().PlayerID
		c.emit(newEvent(st.RoomCode, EvNewHost, NewHostPayload{HostID: st.HostID}))
	}
	c.persistLocked()
	return nil
}

// Start moves the room to active and arms the session clock. Host
// only, waiting phase only, minimum player count enforced.
func (c *RoomCoordinator) Start(requesterID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state
	if st.Status != StatusWaiting {
		return ErrAlreadyStarted
	}
	if requesterID != st.HostID {
		return ErrNotHost
	}
	if len(st.Members) < st.Settings.MinPlayers {
		return ErrInsufficientPlayers
	}

	st.Status = StatusActive
	st.StartTime = time.Now()
	c.emit(newEvent(st.RoomCode, EvGameStarted, GameStartedPayload{
		StartTime:    st.StartTime,
		Duration:     st.Settings.Duration,
		DrawInterval: st.Settings.DrawInterval,
		TotalNumbers: c.pool.RemainingCount(),
	}))
	c.persistLocked()

	c.clock.Start(st.Settings.Duration, st.Settings.DrawInterval, c.handleTick, c.handleDeadline)
	// First number goes out immediately; the ticker covers the rest.
	c.drawLocked()
	return nil
}

// Pause freezes the clock. Host only; a no-op unless active.
func (c *RoomCoordinator) Pause(requesterID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state
	if requesterID != st.HostID {
		return ErrNotHost
	}
	if st.Status != StatusActive {
		return nil
	}
	_, remaining := c.clock.Pause()
	st.Status = StatusPaused
	c.emit(newEvent(st.RoomCode, EvGamePaused, PausePayload{RemainingTime: remaining}))
	c.persistLocked()
	return nil
}

// Resume restarts the clock from the frozen budget. Host only; a no-op
// unless paused.
func (c *RoomCoordinator) Resume(requesterID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state
	if requesterID != st.HostID {
		return ErrNotHost
	}
	if st.Status != StatusPaused {
		return nil
	}
	st.Status = StatusActive
	c.emit(newEvent(st.RoomCode, EvGameResumed, PausePayload{RemainingTime: c.clock.Remaining()}))
	c.persistLocked()

	c.clock.Resume()
	c.drawLocked()
	return nil
}

// Daub marks a cell on the player's own card. Only cells whose number
// has already been drawn can be marked (the free center is always
// marked), which keeps marks replayable from the draw history.
// Marking is idempotent with the automatic mark applied on draw.
func (c *RoomCoordinator) Daub(playerID string, row, col int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state
	if st.Status != StatusActive {
		return ErrNotActive
	}
	m, ok := st.Members[playerID]
	if !ok {
		return ErrNotMember
	}
	if row < 0 || row >= GridSize || col < 0 || col >= GridSize {
		return ErrCellOutOfBounds
	}
	free := row == FreeRow && col == FreeCol
	if !free && !c.pool.HasDrawn(m.Card.Numbers[row][col]) {
		return ErrNumberNotDrawn
	}

	m.Marks.Mark(row, col)
	c.emit(newDirectEvent(st.RoomCode, playerID, EvCellDaubed, CellDaubedPayload{
		PlayerID: playerID,
		Row:      row,
		Col:      col,
		Marked:   true,
	}))
	c.announceMatchesLocked(m, m.Card.Numbers[row][col])
	return nil
}

// Claim accepts a bingo call for a matched pattern. The prize is the
// pool split equally over winners to date, recomputed at each claim,
// so later winners dilute earlier allocations. With multiple wins
// disabled the first accepted claim ends the game.
func (c *RoomCoordinator) Claim(playerID, patternID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state
	if st.Status != StatusActive {
		return ErrNotActive
	}
	m, ok := st.Members[playerID]
	if !ok {
		return ErrNotMember
	}
	if !m.hasMatched(patternID) {
		return ErrPatternNotMatched
	}
	if !st.Settings.AllowMultipleWins {
		for _, w := range st.Winners {
			if w.PlayerID == playerID {
				return ErrAlreadyWon
			}
		}
	}

	prize := st.PrizePool / float64(max(len(st.Winners)+1, 1))
	st.Winners = append(st.Winners, Winner{
		PlayerID:  playerID,
		Name:      m.Name,
		PatternID: patternID,
		Prize:     prize,
		Claimed:   true,
		ClaimedAt: time.Now(),
	})
	c.emit(newEvent(st.RoomCode, EvBingoCalled, BingoCalledPayload{
		PlayerID:     playerID,
		Name:         m.Name,
		PatternID:    patternID,
		Prize:        prize,
		WinnersCount: len(st.Winners),
	}))
	logger.Infof("[Room %s] %s called bingo on %s for %.2f", st.RoomCode, playerID, patternID, prize)

	if !st.Settings.AllowMultipleWins {
		c.finishLocked()
		return nil
	}
	c.persistLocked()
	return nil
}

// UpdateSettings applies a host patch. Only accepted while waiting:
// duration and interval feed the armed clock once the game starts.
func (c *RoomCoordinator) UpdateSettings(requesterID string, patch SettingsPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state
	if requesterID != st.HostID {
		return ErrNotHost
	}
	if st.Status != StatusWaiting {
		return ErrNotWaiting
	}
	patch.apply(&st.Settings)
	c.emit(newEvent(st.RoomCode, EvSettingsUpdated, SettingsUpdatedPayload{
		Settings:  st.Settings,
		UpdatedBy: requesterID,
	}))
	c.persistLocked()
	return nil
}

// Snapshot copies the externally visible room state.
func (c *RoomCoordinator) Snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *RoomCoordinator) snapshotLocked() *Snapshot {
	st := c.state
	members := make([]*Member, 0, len(st.Members))
	for _, m := range st.membersByJoin() {
		cp := *m
		cp.Matched = append([]string(nil), m.Matched...)
		cp.matchedSet = nil
		members = append(members, &cp)
	}
	return &Snapshot{
		Room:           st.RoomCode,
		SessionID:      st.SessionID,
		HostID:         st.HostID,
		Status:         st.Status,
		CurrentPlayers: len(st.Members),
		MaxPlayers:     st.Settings.MaxPlayers,
		Members:        members,
		DrawHistory:    append([]Draw(nil), st.DrawHistory...),
		Winners:        append([]Winner(nil), st.Winners...),
		Settings:       st.Settings,
		PrizePool:      st.PrizePool,
		RemainingTime:  c.clock.Remaining(),
		StartTime:      st.StartTime,
		EndTime:        st.EndTime,
	}
}

// -------------------- Clock callbacks --------------------

func (c *RoomCoordinator) handleTick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Status != StatusActive {
		return
	}
	c.drawLocked()
}

func (c *RoomCoordinator) handleDeadline() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finishLocked()
}

// drawLocked pulls one number, auto-daubs every card that carries it,
// and announces any newly completed patterns. Pool exhaustion ends the
// game instead of erroring.
func (c *RoomCoordinator) drawLocked() {
	n, err := c.pool.Draw()
	if err != nil {
		c.finishLocked()
		return
	}
	c.applyDrawLocked(n)
}

// applyDrawLocked records a number already removed from the pool and
// runs auto-daub and match announcements for it.
func (c *RoomCoordinator) applyDrawLocked(n int) {
	st := c.state
	st.DrawHistory = append(st.DrawHistory, Draw{Number: n, Timestamp: time.Now()})
	c.emit(newEvent(st.RoomCode, EvNumberDrawn, NumberDrawnPayload{
		Number:     n,
		Letter:     LetterFor(n),
		TotalDrawn: len(st.DrawHistory),
	}))

	for _, m := range st.membersByJoin() {
		if row, col, ok := m.Card.Find(n); ok {
			m.Marks.Mark(row, col)
			c.announceMatchesLocked(m, n)
		}
	}
}

// announceMatchesLocked diffs the member's matches against what was
// already announced and emits pattern_matched plus, for callable
// patterns, can_call_bingo.
func (c *RoomCoordinator) announceMatchesLocked(m *Member, triggeredBy int) {
	st := c.state
	callable := st.Settings.CallablePatterns
	if callable == nil {
		callable = DefaultCallablePatterns
	}
	for _, res := range c.patterns.DiffNewMatches(m.Marks, st.Settings.EnabledPatterns, m.matchedSet) {
		m.recordMatch(res.PatternID)
		c.emit(newDirectEvent(st.RoomCode, m.PlayerID, EvPatternMatched, PatternMatchedPayload{
			PlayerID:    m.PlayerID,
			PatternID:   res.PatternID,
			PatternName: res.PatternName,
			TriggeredBy: triggeredBy,
		}))
		for _, id := range callable {
			if id == res.PatternID {
				c.emit(newDirectEvent(st.RoomCode, m.PlayerID, EvCanCallBingo, CanCallBingoPayload{
					PlayerID:  m.PlayerID,
					PatternID: res.PatternID,
				}))
				break
			}
		}
	}
}

// -------------------- Terminal transitions --------------------

// finishLocked completes the room: deadline, pool exhaustion, and
// single-winner claims all land here. Safe to call from any
// non-terminal state; a room never hangs in active.
func (c *RoomCoordinator) finishLocked() {
	st := c.state
	if st.Status.Terminal() {
		return
	}
	st.Status = StatusCompleted
	st.EndTime = time.Now()
	c.clock.Cancel()

	c.emit(newEvent(st.RoomCode, EvGameEnded, GameEndedPayload{
		Winners:     append([]Winner(nil), st.Winners...),
		DrawHistory: append([]Draw(nil), st.DrawHistory...),
	}))
	logger.Infof("[Room %s] game over: %d draws, %d winners", st.RoomCode, len(st.DrawHistory), len(st.Winners))

	c.persistLocked()
	if c.notifier != nil {
		go c.notifier.Enqueue(st.SessionID, append([]Winner(nil), st.Winners...), st.PrizePool)
	}
	c.scheduleEvictionLocked()
}

// cancelLocked abandons the room: everyone left before completion.
func (c *RoomCoordinator) cancelLocked() {
	st := c.state
	if st.Status.Terminal() {
		return
	}
	st.Status = StatusCancelled
	st.EndTime = time.Now()
	c.clock.Cancel()
	logger.Infof("[Room %s] cancelled, all players left", st.RoomCode)
	c.persistLocked()
	c.scheduleEvictionLocked()
}

func (c *RoomCoordinator) scheduleEvictionLocked() {
	if c.onTerminal != nil {
		go c.onTerminal(c.state.RoomCode)
	}
}

// -------------------- Persistence and fan-out --------------------

// persistLocked snapshots under the lock and writes in the background.
// The in-memory transition is authoritative immediately; the store
// upsert is idempotent, so a lost or repeated write reconciles later.
func (c *RoomCoordinator) persistLocked() {
	if c.store == nil {
		return
	}
	snap := c.snapshotLocked()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := c.store.SaveRoom(ctx, snap); err != nil {
			logger.Errorf("[Room %s] snapshot save failed: %v", snap.Room, err)
		}
	}()
}

func (c *RoomCoordinator) saveCard(sessionID, playerID string, card *Card) {
	if c.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := c.store.SaveCard(ctx, sessionID, playerID, card); err != nil {
		logger.Errorf("[Room %s] card save failed for %s: %v", c.state.RoomCode, playerID, err)
	}
}

// emit queues an event for ordered publication. Called with the room
// lock held; never blocks.
func (c *RoomCoordinator) emit(ev Event) {
	if c.closed || c.broadcaster == nil {
		return
	}
	select {
	case c.out <- ev:
	default:
		logger.Errorf("[Room %s] event buffer full, dropping %s", c.state.RoomCode, ev.Type)
	}
}

// publishLoop is the single writer to the broadcaster for this room,
// which keeps per-room event order while decoupling publication from
// the mutation that produced it.
func (c *RoomCoordinator) publishLoop() {
	for ev := range c.out {
		c.broadcaster.Publish(ev.Room, ev)
	}
}

// Shutdown stops the publisher. Called by the registry on eviction.
func (c *RoomCoordinator) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.clock.Cancel()
	close(c.out)
}
