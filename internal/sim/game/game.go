package game

import (
	"log"
	"sync/atomic"

	"cookoutcreek.ai/internal/persistence/snapshot"
	"cookoutcreek.ai/internal/protocol"
	"cookoutcreek.ai/internal/sim/player"
)

type Config struct {
	TickRateHz         int
	SnapshotEveryTicks int
	// EngineQueue bounds each attached engine's outbound channel.
	EngineQueue int
}

// StateSink receives every state that differs from the one before it.
// Save must not block.
type StateSink interface {
	Save(s player.State)
}

type engineConn struct {
	Out chan []byte
}

type hudConn struct {
	Out  chan []byte
	Name string
}

// Game is a single-threaded owner of the player state.
// All state must be accessed only from the loop goroutine; other goroutines
// go through the request channels or read published copies.
type Game struct {
	cfg   Config
	rules player.Rules

	state player.State
	tick  atomic.Uint64

	engines map[string]*engineConn
	huds    map[string]*hudConn

	inbox    chan request
	attach   chan engineAttachReq
	detach   chan string
	hudJoin  chan hudJoinReq
	hudLeave chan string
	admin    chan snapshotReq
	stop     chan struct{}

	published atomic.Pointer[player.State]
	metrics   atomic.Value

	engineEvents atomic.Uint64
	intents      atomic.Uint64
	rejected     atomic.Uint64
	dropped      atomic.Uint64
	lastStepMS   float64

	// Optional collaborators (may be nil).
	logger       *log.Logger
	sessionLog   SessionLogger
	sink         StateSink
	snapshotSink chan<- snapshot.SnapshotV1
}

func New(cfg Config, rules player.Rules, initial player.State) *Game {
	if cfg.TickRateHz <= 0 {
		cfg.TickRateHz = 1
	}
	if cfg.EngineQueue <= 0 {
		cfg.EngineQueue = 256
	}
	g := &Game{
		cfg:      cfg,
		rules:    rules,
		state:    player.Normalize(initial, rules),
		engines:  map[string]*engineConn{},
		huds:     map[string]*hudConn{},
		inbox:    make(chan request, 1024),
		attach:   make(chan engineAttachReq, 16),
		detach:   make(chan string, 16),
		hudJoin:  make(chan hudJoinReq, 64),
		hudLeave: make(chan string, 64),
		admin:    make(chan snapshotReq, 16),
		stop:     make(chan struct{}),
	}
	g.publish()
	return g
}

func (g *Game) SetLogger(l *log.Logger)                       { g.logger = l }
func (g *Game) SetSessionLogger(l SessionLogger)              { g.sessionLog = l }
func (g *Game) SetStateSink(s StateSink)                      { g.sink = s }
func (g *Game) SetSnapshotSink(ch chan<- snapshot.SnapshotV1) { g.snapshotSink = ch }

func (g *Game) Rules() player.Rules { return g.rules }
func (g *Game) TickRateHz() int     { return g.cfg.TickRateHz }
func (g *Game) CurrentTick() uint64 { return g.tick.Load() }

// State returns the most recently published state. Safe from any goroutine.
func (g *Game) State() player.State {
	if p := g.published.Load(); p != nil {
		return *p
	}
	return player.State{}
}

func (g *Game) publish() {
	s := g.state
	g.published.Store(&s)
}

func (g *Game) logf(format string, args ...any) {
	if g.logger != nil {
		g.logger.Printf(format, args...)
	}
}

func (g *Game) welcome(sessionID string) protocol.WelcomeMsg {
	return protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sessionID,
		TickRateHz:      g.cfg.TickRateHz,
		CatalogDigest:   g.rules.Catalog.Digest,
		TuningDigest:    g.rules.Tuning.Digest(),
	}
}
