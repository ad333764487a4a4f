package game

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"cookoutcreek.ai/internal/protocol"
	"cookoutcreek.ai/internal/sim/catalogs"
)

var ErrStopped = errors.New("game stopped")

// SubmitEngine queues a raw engine message. It never blocks; a full inbox
// drops the message and reports false.
func (g *Game) SubmitEngine(raw []byte) bool {
	select {
	case g.inbox <- request{engine: raw}:
		return true
	default:
		g.dropped.Add(1)
		return false
	}
}

// SubmitIntent queues a raw HUD intent and waits for its ACK.
func (g *Game) SubmitIntent(ctx context.Context, raw []byte) (protocol.AckMsg, error) {
	resp := make(chan protocol.AckMsg, 1)
	select {
	case g.inbox <- request{intent: raw, resp: resp}:
	case <-ctx.Done():
		return protocol.AckMsg{}, ctx.Err()
	case <-g.stop:
		return protocol.AckMsg{}, ErrStopped
	}
	select {
	case ack := <-resp:
		return ack, nil
	case <-ctx.Done():
		return protocol.AckMsg{}, ctx.Err()
	case <-g.stop:
		return protocol.AckMsg{}, ErrStopped
	}
}

// Submit sends m through the same path as a HUD intent, filling in the
// envelope fields and an id when missing.
func (g *Game) Submit(ctx context.Context, m protocol.IntentMsg) (protocol.AckMsg, error) {
	m.Type = protocol.TypeIntent
	m.ProtocolVersion = protocol.Version
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return protocol.AckMsg{}, err
	}
	return g.SubmitIntent(ctx, raw)
}

func (g *Game) GoToPoint(ctx context.Context, p protocol.Vec3) (protocol.AckMsg, error) {
	return g.Submit(ctx, protocol.IntentMsg{Intent: protocol.IntentGoToPoint, Point: &p})
}

func (g *Game) GoToObject(ctx context.Context, id string) (protocol.AckMsg, error) {
	return g.Submit(ctx, protocol.IntentMsg{Intent: protocol.IntentGoToObject, ObjectID: id})
}

func (g *Game) PickUp(ctx context.Context, id string) (protocol.AckMsg, error) {
	return g.Submit(ctx, protocol.IntentMsg{Intent: protocol.IntentPickUp, ObjectID: id})
}

// Consume returns the resulting consume task amount.
func (g *Game) Consume(ctx context.Context, k catalogs.Consumable, maxAdditional float64) (float64, error) {
	ack, err := g.Submit(ctx, protocol.IntentMsg{
		Intent:     protocol.IntentConsume,
		Consumable: k.String(),
		Amount:     maxAdditional,
	})
	if err != nil {
		return 0, err
	}
	if !ack.Accepted {
		return 0, &protocol.Error{Code: ack.Code, Message: ack.Message}
	}
	return ack.Amount, nil
}

func (g *Game) Drop(ctx context.Context, k catalogs.Consumable, amount float64) (protocol.AckMsg, error) {
	return g.Submit(ctx, protocol.IntentMsg{Intent: protocol.IntentDrop, Consumable: k.String(), Amount: amount})
}

func (g *Game) SetScene(ctx context.Context, scene string) (protocol.AckMsg, error) {
	return g.Submit(ctx, protocol.IntentMsg{Intent: protocol.IntentSetScene, Scene: scene})
}

// AttachEngine registers out as an engine connection. The loop first
// queues an initialize action on out.
func (g *Game) AttachEngine(ctx context.Context, out chan []byte) (string, error) {
	resp := make(chan string, 1)
	select {
	case g.attach <- engineAttachReq{Out: out, Resp: resp}:
	case <-ctx.Done():
		return "", ctx.Err()
	case <-g.stop:
		return "", ErrStopped
	}
	select {
	case id := <-resp:
		return id, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-g.stop:
		return "", ErrStopped
	}
}

func (g *Game) DetachEngine(id string) {
	select {
	case g.detach <- id:
	case <-g.stop:
	}
}

// JoinHUD registers out for STATE and CONTEXT_MENU pushes. The current
// state is queued on out right away.
func (g *Game) JoinHUD(ctx context.Context, hello protocol.HelloMsg, out chan []byte) (protocol.WelcomeMsg, error) {
	resp := make(chan protocol.WelcomeMsg, 1)
	select {
	case g.hudJoin <- hudJoinReq{Hello: hello, Out: out, Resp: resp}:
	case <-ctx.Done():
		return protocol.WelcomeMsg{}, ctx.Err()
	case <-g.stop:
		return protocol.WelcomeMsg{}, ErrStopped
	}
	select {
	case w := <-resp:
		return w, nil
	case <-ctx.Done():
		return protocol.WelcomeMsg{}, ctx.Err()
	case <-g.stop:
		return protocol.WelcomeMsg{}, ErrStopped
	}
}

func (g *Game) LeaveHUD(sessionID string) {
	select {
	case g.hudLeave <- sessionID:
	case <-g.stop:
	}
}

// RequestSnapshot asks the loop to hand a snapshot to the snapshot sink.
// Safe from other goroutines (e.g. admin HTTP handlers).
func (g *Game) RequestSnapshot(ctx context.Context) (uint64, error) {
	resp := make(chan snapshotResp, 1)
	select {
	case g.admin <- snapshotReq{Resp: resp}:
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-g.stop:
		return 0, ErrStopped
	}
	select {
	case r := <-resp:
		return r.Tick, r.Err
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-g.stop:
		return 0, ErrStopped
	}
}
