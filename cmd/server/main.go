package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	persistlog "cookoutcreek.ai/internal/persistence/log"
	"cookoutcreek.ai/internal/persistence/snapshot"
	"cookoutcreek.ai/internal/persistence/statestore"
	"cookoutcreek.ai/internal/sim/catalogs"
	"cookoutcreek.ai/internal/sim/game"
	"cookoutcreek.ai/internal/sim/player"
	"cookoutcreek.ai/internal/sim/tuning"
	"cookoutcreek.ai/internal/transport/ws"
)

func main() {
	var (
		addr        = flag.String("addr", ":8080", "http listen address")
		configDir   = flag.String("configs", "./configs", "config directory")
		dataDir     = flag.String("data", "./data", "runtime data directory")
		tuningPath  = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		catalogPath = flag.String("consumables", "", "path to consumables.json (default: <configs>/consumables.json)")
		snapPath    = flag.String("snapshot", "", "path to a snapshot to load instead of the stored state (optional)")
		reset       = flag.Bool("reset", false, "discard the stored state and start fresh")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Printf("load .env: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}

	cp := strings.TrimSpace(*catalogPath)
	if cp == "" {
		cp = filepath.Join(*configDir, "consumables.json")
	}
	cat, err := catalogs.Load(cp)
	if err != nil {
		logger.Fatalf("load consumables: %v", err)
	}
	rules := player.Rules{Tuning: tune, Catalog: cat}

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		logger.Fatalf("data dir: %v", err)
	}
	store, err := openStore(*dataDir, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer store.Close()
	if err := store.SetMeta(context.Background(), map[string]string{
		"protocol_version": tune.ProtocolVersion,
		"tuning_digest":    tune.Digest(),
		"catalog_digest":   cat.Digest,
	}); err != nil {
		logger.Printf("store meta: %v", err)
	}

	initial, err := initialState(store, rules, strings.TrimSpace(*snapPath), *reset, logger)
	if err != nil {
		logger.Fatalf("initial state: %v", err)
	}

	g := game.New(game.Config{
		TickRateHz:         tune.TickRateHz,
		SnapshotEveryTicks: tune.SnapshotEveryTicks,
		EngineQueue:        envInt("CC_ENGINE_QUEUE", 256),
	}, rules, initial)
	g.SetLogger(log.New(os.Stdout, "[game] ", log.LstdFlags|log.Lmicroseconds))

	persister := statestore.NewPersister(store, logger)
	defer func() {
		if err := persister.Close(); err != nil {
			logger.Printf("state persister: %v", err)
		}
	}()
	g.SetStateSink(persister)

	if envBool("CC_SESSION_LOG", true) {
		sessionLog := persistlog.NewSessionLogger(*dataDir)
		defer sessionLog.Close()
		g.SetSessionLogger(sessionLog)
	}

	ctx, cancel := signalContext()
	defer cancel()

	// Snapshot writer.
	snapCh := make(chan snapshot.SnapshotV1, 2)
	g.SetSnapshotSink(snapCh)
	snapDir := filepath.Join(*dataDir, "snapshots")
	snapDone := make(chan struct{})
	go func() {
		defer close(snapDone)
		for {
			select {
			case <-ctx.Done():
				return
			case snap := <-snapCh:
				path := snapshot.Path(snapDir, snap.Header.Tick)
				if err := snapshot.WriteSnapshot(path, snap); err != nil {
					logger.Printf("snapshot write: %v", err)
					continue
				}
				digest := ""
				if s, err := game.ImportPlayer(snap.Player, rules); err == nil {
					if digest, err = s.Digest(); err != nil {
						logger.Printf("snapshot %d: %v", snap.Header.Tick, err)
					}
				}
				store.RecordSnapshot(snap.Header.Tick, path, digest)
			}
		}
	}()

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		if err := g.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("game stopped: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		writeMetrics(rw, g.Metrics(), g.State(), persister)
	})

	enableAdminHTTP := envBool("CC_ENABLE_ADMIN_HTTP", defaultEnableAdminHTTP())
	enablePprofHTTP := envBool("CC_ENABLE_PPROF_HTTP", false)
	if enableAdminHTTP {
		// Local-only admin endpoints.
		mux.HandleFunc("/admin/v1/state", func(rw http.ResponseWriter, r *http.Request) {
			if !isLoopbackRemote(r.RemoteAddr) {
				http.Error(rw, "forbidden", http.StatusForbidden)
				return
			}
			rw.Header().Set("Content-Type", "application/json")
			resp := struct {
				Tick    uint64       `json:"tick"`
				Digest  string       `json:"digest"`
				State   player.State `json:"state"`
				Metrics game.Metrics `json:"metrics"`
			}{
				Tick:    g.CurrentTick(),
				State:   g.State(),
				Metrics: g.Metrics(),
			}
			digest, err := resp.State.Digest()
			if err != nil {
				http.Error(rw, err.Error(), http.StatusInternalServerError)
				return
			}
			resp.Digest = digest
			_ = json.NewEncoder(rw).Encode(resp)
		})
		mux.HandleFunc("/admin/v1/snapshot", func(rw http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				rw.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			if !isLoopbackRemote(r.RemoteAddr) {
				http.Error(rw, "forbidden", http.StatusForbidden)
				return
			}
			ctx2, cancel2 := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel2()
			tick, err := g.RequestSnapshot(ctx2)
			rw.Header().Set("Content-Type", "application/json")
			if err != nil {
				rw.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(rw).Encode(map[string]any{"ok": false, "tick": tick, "error": err.Error()})
				return
			}
			_ = json.NewEncoder(rw).Encode(map[string]any{"ok": true, "tick": tick})
		})
		mux.HandleFunc("/admin/v1/snapshots", func(rw http.ResponseWriter, r *http.Request) {
			if !isLoopbackRemote(r.RemoteAddr) {
				http.Error(rw, "forbidden", http.StatusForbidden)
				return
			}
			recs, err := store.Snapshots(r.Context(), 20)
			if err != nil {
				http.Error(rw, err.Error(), http.StatusInternalServerError)
				return
			}
			rw.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(rw).Encode(recs)
		})
	} else {
		logger.Printf("admin endpoints disabled (CC_ENABLE_ADMIN_HTTP=false)")
	}
	if enablePprofHTTP {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	wsSrv := ws.NewServer(g, logger)
	wsSrv.EngineQueue = envInt("CC_ENGINE_QUEUE", 256)
	mux.HandleFunc("/v1/engine", wsSrv.EngineHandler())
	mux.HandleFunc("/v1/hud", wsSrv.HUDHandler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s tick_rate_hz=%d", *addr, tune.TickRateHz)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
	<-runDone
	<-snapDone
}

// initialState picks the starting state: an explicit snapshot, then the
// stored state, then a fresh player.
func initialState(store stateStore, rules player.Rules, snapPath string, reset bool, logger *log.Logger) (player.State, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if snapPath != "" {
		snap, err := snapshot.ReadSnapshot(snapPath)
		if err != nil {
			return player.State{}, err
		}
		if snap.TuningDigest != "" && snap.TuningDigest != rules.Tuning.Digest() {
			logger.Printf("snapshot tuning digest differs from loaded tuning; using loaded tuning")
		}
		s, err := game.ImportPlayer(snap.Player, rules)
		if err != nil {
			return player.State{}, err
		}
		logger.Printf("resumed from snapshot=%s tick=%d", filepath.Base(snapPath), snap.Header.Tick)
		return s, nil
	}

	if reset {
		if err := statestore.Clear(ctx, store); err != nil {
			return player.State{}, err
		}
		logger.Printf("stored state cleared")
		return player.Normalize(player.New(), rules), nil
	}

	s, ok, err := statestore.Load(ctx, store, rules)
	if err != nil {
		return player.State{}, err
	}
	if ok {
		digest, err := s.Digest()
		if err != nil {
			return player.State{}, err
		}
		logger.Printf("resumed stored state digest=%s", digest)
	} else {
		s = player.Normalize(s, rules)
	}
	return s, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func defaultEnableAdminHTTP() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DEPLOY_ENV"))) {
	case "staging", "production":
		return false
	default:
		return true
	}
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
