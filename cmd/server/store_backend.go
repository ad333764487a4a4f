package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"cookoutcreek.ai/internal/persistence/kvstore"
)

// stateStore is the KV store plus the snapshot index the server keeps
// next to it.
type stateStore interface {
	kvstore.Store
	SetMeta(ctx context.Context, kv map[string]string) error
	RecordSnapshot(tick uint64, path, digest string)
	Snapshots(ctx context.Context, limit int) ([]kvstore.SnapshotRecord, error)
}

func openStore(dataDir string, logger *log.Logger) (stateStore, error) {
	backend := strings.ToLower(strings.TrimSpace(os.Getenv("CC_STORE_BACKEND")))
	if backend == "" {
		backend = "sqlite"
	}

	switch backend {
	case "sqlite":
		dbPath := filepath.Join(dataDir, "state", "state.sqlite")
		logger.Printf("store backend=sqlite path=%s", dbPath)
		return kvstore.OpenSQLite(dbPath)
	case "memory":
		logger.Printf("store backend=memory (state is lost on exit)")
		return &memoryBackend{MemoryStore: kvstore.NewMemoryStore()}, nil
	default:
		return nil, fmt.Errorf("unsupported CC_STORE_BACKEND: %s", backend)
	}
}

type memoryBackend struct {
	*kvstore.MemoryStore

	mu    sync.Mutex
	meta  map[string]string
	snaps []kvstore.SnapshotRecord
}

func (m *memoryBackend) SetMeta(_ context.Context, kv map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.meta == nil {
		m.meta = make(map[string]string, len(kv))
	}
	for k, v := range kv {
		m.meta[k] = v
	}
	return nil
}

func (m *memoryBackend) RecordSnapshot(tick uint64, path, digest string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps = append(m.snaps, kvstore.SnapshotRecord{Tick: tick, Path: path, Digest: digest})
}

func (m *memoryBackend) Snapshots(_ context.Context, limit int) ([]kvstore.SnapshotRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]kvstore.SnapshotRecord(nil), m.snaps...)
	sort.Slice(out, func(i, j int) bool { return out[i].Tick > out[j].Tick })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
