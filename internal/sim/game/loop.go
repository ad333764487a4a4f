package game

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"cookoutcreek.ai/internal/protocol"
	"cookoutcreek.ai/internal/sim/player"
)

type request struct {
	engine []byte
	intent []byte
	resp   chan protocol.AckMsg
}

type engineAttachReq struct {
	Out  chan []byte
	Resp chan string
}

type hudJoinReq struct {
	Hello protocol.HelloMsg
	Out   chan []byte
	Resp  chan protocol.WelcomeMsg
}

type snapshotReq struct {
	Resp chan snapshotResp
}

type snapshotResp struct {
	Tick uint64
	Err  error
}

// Run drives the tick and serializes every transition until ctx is done or
// Stop is called.
func (g *Game) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(g.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	g.StartSession()
	g.updateMetrics()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-g.stop:
			return nil
		case req := <-g.attach:
			g.handleAttach(req)
		case id := <-g.detach:
			delete(g.engines, id)
			g.updateMetrics()
		case req := <-g.hudJoin:
			g.handleHUDJoin(req)
		case id := <-g.hudLeave:
			delete(g.huds, id)
			g.updateMetrics()
		case req := <-g.admin:
			g.handleSnapshotReq(req)
		case req := <-g.inbox:
			g.handleRequest(req)
		case <-ticker.C:
			g.step()
		}
	}
}

func (g *Game) Stop() { close(g.stop) }

// StepOnce advances one tick exactly as Run does. It is meant for replays
// and tests and must not be called while Run is running.
func (g *Game) StepOnce() (tick uint64, digest string) {
	return g.step()
}

// Apply runs one event through the same path as the loop. Not safe while
// Run is running.
func (g *Game) Apply(ev player.Event) (player.Result, error) {
	return g.apply(ev)
}

// HandleEngineMessage processes one raw engine message synchronously.
// Not safe while Run is running.
func (g *Game) HandleEngineMessage(raw []byte) { g.handleEngine(raw) }

// HandleIntent processes one raw HUD intent synchronously.
// Not safe while Run is running.
func (g *Game) HandleIntent(raw []byte) protocol.AckMsg { return g.handleIntent(raw) }

func (g *Game) handleRequest(req request) {
	switch {
	case req.engine != nil:
		g.handleEngine(req.engine)
	case req.intent != nil:
		ack := g.handleIntent(req.intent)
		if req.resp != nil {
			select {
			case req.resp <- ack:
			default:
			}
		}
	}
}

func (g *Game) step() (uint64, string) {
	tick := g.tick.Add(1)
	if _, err := g.apply(player.Ticked{}); err != nil {
		g.logf("tick %d: %v", tick, err)
	}
	digest, err := g.state.Digest()
	if err != nil {
		g.logf("tick %d: %v", tick, err)
	}
	g.writeSession(SessionEntry{Kind: SessionTick, Digest: digest})

	if every := g.cfg.SnapshotEveryTicks; every > 0 && g.snapshotSink != nil && tick%uint64(every) == 0 {
		select {
		case g.snapshotSink <- g.ExportSnapshot(tick):
		default:
			g.logf("snapshot sink full; skipped tick %d", tick)
		}
	}
	return tick, digest
}

// apply is the single place state changes.
func (g *Game) apply(ev player.Event) (player.Result, error) {
	start := time.Now()
	res, err := player.Reduce(g.state, ev, g.rules)
	if err != nil {
		return res, err
	}
	changed := !res.State.Equal(g.state)
	g.state = res.State

	for _, a := range res.Actions {
		g.sendEngine(a)
	}
	if cm, ok := ev.(player.ContextMenuRequested); ok {
		g.forwardContextMenu(cm)
	}
	if changed {
		g.publish()
		if g.sink != nil {
			g.sink.Save(g.state)
		}
		g.pushState()
	}
	g.lastStepMS = float64(time.Since(start).Microseconds()) / 1000
	g.updateMetrics()
	return res, nil
}

func (g *Game) handleEngine(raw []byte) {
	g.engineEvents.Add(1)
	g.writeSession(withPayload(SessionEntry{Kind: SessionEngine}, raw))

	msg, err := protocol.DecodeEvent(raw)
	if err != nil {
		g.reject(raw, err)
		return
	}
	ev, err := engineEvent(msg)
	if err != nil {
		g.reject(raw, err)
		return
	}
	if _, err := g.apply(ev); err != nil {
		g.reject(raw, err)
	}
}

func (g *Game) handleIntent(raw []byte) protocol.AckMsg {
	g.intents.Add(1)
	g.writeSession(withPayload(SessionEntry{Kind: SessionIntent}, raw))

	var id struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(raw, &id)
	ack := protocol.NewAck(id.ID)

	m, err := protocol.DecodeIntent(raw)
	if err != nil {
		g.reject(raw, err)
		return ack.Reject(err)
	}
	ev, err := intentEvent(m)
	if err != nil {
		g.reject(raw, err)
		return ack.Reject(err)
	}
	res, err := g.apply(ev)
	if err != nil {
		g.reject(raw, err)
		return ack.Reject(err)
	}
	ack.Amount = res.Amount
	ack.Tick = g.tick.Load()
	return ack
}

func (g *Game) reject(raw []byte, err error) {
	g.rejected.Add(1)
	g.logf("rejected: %v", err)
	e := withPayload(SessionEntry{Kind: SessionRejected, Error: err.Error()}, raw)
	g.writeSession(e)
}

// sendEngine never blocks: with no engine attached it is a no-op and a full
// engine queue drops the action.
func (g *Game) sendEngine(a protocol.Action) {
	b, err := protocol.EncodeAction(a)
	if err != nil {
		g.logf("encode %s: %v", a.ActionName(), err)
		return
	}
	g.writeSession(SessionEntry{Kind: SessionOutbound, Payload: b})
	for _, e := range g.engines {
		select {
		case e.Out <- b:
		default:
			g.dropped.Add(1)
		}
	}
}

func (g *Game) pushState() {
	if len(g.huds) == 0 {
		return
	}
	b, err := g.stateMessage()
	if err != nil {
		g.logf("encode state: %v", err)
		return
	}
	for _, h := range g.huds {
		sendLatest(h.Out, b)
	}
}

func (g *Game) stateMessage() ([]byte, error) {
	st, err := json.Marshal(g.state)
	if err != nil {
		return nil, err
	}
	return json.Marshal(protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		Tick:            g.tick.Load(),
		State:           st,
	})
}

func (g *Game) forwardContextMenu(cm player.ContextMenuRequested) {
	if len(g.huds) == 0 {
		return
	}
	b, err := json.Marshal(protocol.ContextMenuMsg{
		Type:            protocol.TypeContextMenu,
		ProtocolVersion: protocol.Version,
		ScreenPoint:     cm.ScreenPoint,
		Actions:         cm.Actions,
	})
	if err != nil {
		return
	}
	for _, h := range g.huds {
		sendLatest(h.Out, b)
	}
}

func (g *Game) handleAttach(req engineAttachReq) {
	id := uuid.NewString()
	g.engines[id] = &engineConn{Out: req.Out}

	// Restore the engine to where the player was left.
	s := g.state
	if b, err := protocol.EncodeAction(protocol.NewInitialize(s.Speed, s.Location, s.CameraLocation)); err == nil {
		select {
		case req.Out <- b:
		default:
			g.dropped.Add(1)
		}
	}
	g.updateMetrics()
	if req.Resp != nil {
		req.Resp <- id
	}
}

func (g *Game) handleHUDJoin(req hudJoinReq) {
	id := uuid.NewString()
	g.huds[id] = &hudConn{Out: req.Out, Name: req.Hello.ClientName}
	if b, err := g.stateMessage(); err == nil {
		sendLatest(req.Out, b)
	}
	g.updateMetrics()
	if req.Resp != nil {
		req.Resp <- g.welcome(id)
	}
}

func (g *Game) handleSnapshotReq(req snapshotReq) {
	tick := g.tick.Load()
	var err error
	if g.snapshotSink == nil {
		err = errors.New("snapshot sink not configured")
	} else {
		select {
		case g.snapshotSink <- g.ExportSnapshot(tick):
		default:
			err = errors.New("snapshot queue full")
		}
	}
	select {
	case req.Resp <- snapshotResp{Tick: tick, Err: err}:
	default:
		// Client timed out; don't block the loop.
	}
}

func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
