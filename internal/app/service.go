package app

import (
    "context"
    "errors"
    "sync"
    "time"

    "github.com/google/uuid"
    "go.uber.org/zap"

    "github.com/jaminalder/tic-tac-gomoku/internal/domain"
)

// Errors exposed by the service layer.
var (
    ErrNotFound    = errors.New("game not found")
    ErrNotYourTurn = errors.New("not your turn")
    ErrNotAPlayer  = errors.New("not a player")
)

// GameState is a point-in-time copy of a hosted game.
type GameState struct {
    ID       string
    Snapshot domain.Snapshot
    First    string
    Second   string
    Created  time.Time
    Updated  time.Time
}

// game is the live record; engine is only touched with Service.mu held.
type game struct {
    id      string
    engine  *domain.Engine
    first   string
    second  string
    created time.Time
    updated time.Time
}

func (g *game) state() GameState {
    return GameState{
        ID:       g.id,
        Snapshot: g.engine.Snapshot(),
        First:    g.first,
        Second:   g.second,
        Created:  g.created,
        Updated:  g.updated,
    }
}

func (g *game) seat(playerID string) domain.Side {
    switch playerID {
    case "":
        return domain.None
    case g.first:
        return domain.First
    case g.second:
        return domain.Second
    }
    return domain.None
}

type subscriber struct {
    ch        chan []byte
    latest    bool
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Option configures a Service.
type Option func(*Service)

// WithRenderer sets the function that turns a state into broadcast payloads.
func WithRenderer(renderer func(GameState) []byte) Option {
    return func(s *Service) {
        if renderer != nil {
            s.render = renderer
        }
    }
}

// WithLogger sets the service logger.
func WithLogger(log *zap.SugaredLogger) Option {
    return func(s *Service) {
        if log != nil {
            s.log = log
        }
    }
}

// WithRules sets the board config used for new games.
func WithRules(cfg domain.Config) Option {
    return func(s *Service) { s.rules = cfg }
}

// Service manages games and subscribers. One mutex guards every engine, so
// each move is applied and observed atomically.
type Service struct {
    mu     sync.Mutex
    rules  domain.Config
    log    *zap.SugaredLogger
    games  map[string]*game
    subs   map[string]map[*subscriber]struct{}
    render func(GameState) []byte
}

// NewService creates a service for standard games with a no-op renderer.
func NewService(opts ...Option) *Service {
    s := &Service{
        rules:  domain.DefaultConfig(),
        log:    zap.NewNop().Sugar(),
        games:  make(map[string]*game),
        subs:   make(map[string]map[*subscriber]struct{}),
        render: func(gs GameState) []byte { return nil },
    }
    for _, opt := range opts {
        opt(s)
    }
    if err := s.rules.Validate(); err != nil {
        s.log.Warnw("falling back to default rules", "error", err)
        s.rules = domain.DefaultConfig()
    }
    return s
}

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(GameState) []byte) *Service {
    return NewService(WithRenderer(renderer))
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if renderer == nil {
        s.render = func(gs GameState) []byte { return nil }
        return
    }
    s.render = renderer
}

// Rules returns the board config used for new games.
func (s *Service) Rules() domain.Config { return s.rules }

func (s *Service) newGameLocked(id string) *game {
    now := time.Now()
    g := &game{id: id, engine: domain.MustNewEngine(s.rules), created: now, updated: now}
    s.games[id] = g
    return g
}

// CreateGame creates and registers a new game.
func (s *Service) CreateGame() (*GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    g := s.newGameLocked(uuid.NewString())
    s.log.Infow("game created", "game", g.id, "outer_size", s.rules.OuterSize, "win_length", s.rules.WinLength)
    gs := g.state()
    return &gs, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    g, ok := s.games[id]
    if !ok {
        return nil, false
    }
    gs := g.state()
    return &gs, true
}

// Join assigns a seat to the player if available; returns None for spectators.
// An empty player id cannot hold a seat.
func (s *Service) Join(id, playerID string) (domain.Side, *GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    g, ok := s.games[id]
    if !ok {
        return domain.None, nil, ErrNotFound
    }
    if playerID == "" {
        return domain.None, nil, ErrNotAPlayer
    }
    side := domain.None
    if g.first == "" || g.first == playerID {
        g.first = playerID
        side = domain.First
    } else if g.second == "" || g.second == playerID {
        g.second = playerID
        side = domain.Second
    }
    g.updated = time.Now()
    if side != domain.None {
        s.log.Infow("seat claimed", "game", id, "player", playerID, "side", side)
    }
    gs := g.state()
    return side, &gs, nil
}

// seatedLocked finds the game and the caller's seat.
func (s *Service) seatedLocked(id, playerID string) (*game, domain.Side, error) {
    g, ok := s.games[id]
    if !ok {
        return nil, domain.None, ErrNotFound
    }
    seat := g.seat(playerID)
    if seat == domain.None {
        return g, domain.None, ErrNotAPlayer
    }
    return g, seat, nil
}

// Play validates seat and turn, applies a move, updates timestamps, and broadcasts.
func (s *Service) Play(id, playerID string, outer, local domain.Coord) (*GameState, error) {
    s.mu.Lock()
    g, seat, err := s.seatedLocked(id, playerID)
    if err != nil {
        s.mu.Unlock()
        return nil, err
    }
    if seat != g.engine.CurrentSide() {
        s.mu.Unlock()
        return nil, ErrNotYourTurn
    }
    if err := g.engine.Play(outer, local); err != nil {
        s.mu.Unlock()
        s.log.Debugw("move rejected", "game", id, "side", seat, "outer", outer, "local", local, "error", err)
        return nil, err
    }
    s.log.Infow("move", "game", id, "side", seat, "outer", outer, "local", local)
    if g.engine.StoneAt(outer) == seat {
        s.log.Infow("local board won", "game", id, "side", seat, "outer", outer)
    }
    if g.engine.IsOuterFinished() {
        s.log.Infow("game over", "game", id, "result", g.engine.Result())
    }
    return s.commitLocked(g), nil
}

// Select fixes the outer cell for the seated player whose turn it is while
// they have free choice.
func (s *Service) Select(id, playerID string, outer domain.Coord) (*GameState, error) {
    s.mu.Lock()
    g, seat, err := s.seatedLocked(id, playerID)
    if err != nil {
        s.mu.Unlock()
        return nil, err
    }
    if seat != g.engine.CurrentSide() {
        s.mu.Unlock()
        return nil, ErrNotYourTurn
    }
    if err := g.engine.Select(outer); err != nil {
        s.mu.Unlock()
        s.log.Debugw("select rejected", "game", id, "side", seat, "outer", outer, "error", err)
        return nil, err
    }
    s.log.Infow("outer cell selected", "game", id, "side", seat, "outer", outer)
    return s.commitLocked(g), nil
}

// Reset starts a new game in place; seats are kept.
func (s *Service) Reset(id, playerID string) (*GameState, error) {
    s.mu.Lock()
    g, _, err := s.seatedLocked(id, playerID)
    if err != nil {
        s.mu.Unlock()
        return nil, err
    }
    g.engine.NewGame()
    s.log.Infow("game reset", "game", id, "player", playerID)
    return s.commitLocked(g), nil
}

// commitLocked stamps the game, snapshots it and fans the rendered state out
// to subscribers. It releases s.mu.
func (s *Service) commitLocked(g *game) *GameState {
    g.updated = time.Now()
    cp := g.state()
    s.broadcastLocked(g.id, s.render(cp))
    s.mu.Unlock()
    return &cp
}

// broadcastLocked delivers without blocking. A full latest-wins subscriber has
// its pending payload replaced; any other full subscriber is closed and dropped.
func (s *Service) broadcastLocked(id string, payload []byte) {
    dropped := 0
    for sub := range s.subs[id] {
        select {
        case sub.ch <- payload:
            continue
        default:
        }
        if sub.latest {
            select {
            case <-sub.ch:
            default:
            }
            sub.ch <- payload
            continue
        }
        sub.close()
        delete(s.subs[id], sub)
        dropped++
    }
    if dropped > 0 {
        s.log.Debugw("dropping slow subscribers", "game", id, "count", dropped)
    }
}

// Subscribe registers a subscriber that receives every rendered update. A
// subscriber that falls a full update behind is closed.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
    return s.subscribe(ctx, id, false)
}

// SubscribeLatest registers a subscriber that only needs to know the game
// changed: a pending update is overwritten instead of closing the channel.
func (s *Service) SubscribeLatest(ctx context.Context, id string) (<-chan []byte, func(), error) {
    return s.subscribe(ctx, id, true)
}

func (s *Service) subscribe(ctx context.Context, id string, latest bool) (<-chan []byte, func(), error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.games[id]; !ok {
        return nil, nil, ErrNotFound
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan []byte, 1), latest: latest}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            defer s.mu.Unlock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub, nil
}
