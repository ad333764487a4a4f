package game

// Metrics is a thread-safe read-only view of the runtime. It is refreshed
// from the loop goroutine and read from HTTP handlers and tests.
type Metrics struct {
	Tick uint64 `json:"tick"`

	Engines int `json:"engines"`
	HUDs    int `json:"huds"`

	QueueDepths QueueDepths `json:"queue_depths"`

	StepMS float64 `json:"step_ms"`

	EngineEvents uint64 `json:"engine_events"`
	Intents      uint64 `json:"intents"`
	Rejected     uint64 `json:"rejected"`
	Dropped      uint64 `json:"dropped"`
}

type QueueDepths struct {
	Inbox   int `json:"inbox"`
	Attach  int `json:"attach"`
	HUDJoin int `json:"hud_join"`
}

func (g *Game) Metrics() Metrics {
	if g == nil {
		return Metrics{}
	}
	m, _ := g.metrics.Load().(Metrics)
	m.Tick = g.tick.Load()
	m.EngineEvents = g.engineEvents.Load()
	m.Intents = g.intents.Load()
	m.Rejected = g.rejected.Load()
	m.Dropped = g.dropped.Load()
	m.QueueDepths = QueueDepths{Inbox: len(g.inbox), Attach: len(g.attach), HUDJoin: len(g.hudJoin)}
	return m
}

func (g *Game) updateMetrics() {
	g.metrics.Store(Metrics{
		Engines: len(g.engines),
		HUDs:    len(g.huds),
		StepMS:  g.lastStepMS,
	})
}
