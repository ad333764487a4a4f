package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const Version = 1

type Header struct {
	Version int    `json:"version"`
	Tick    uint64 `json:"tick"`
	SavedAt int64  `json:"saved_at_unix_ms"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	TickRateHz         int    `json:"tick_rate_hz"`
	SnapshotEveryTicks int    `json:"snapshot_every_ticks,omitempty"`
	TuningDigest       string `json:"tuning_digest"`
	CatalogDigest      string `json:"catalog_digest"`

	Player PlayerV1 `json:"player"`
}

type PlayerV1 struct {
	Inventory map[string]float64 `json:"inventory"`

	Hunger float64 `json:"hunger"`
	Thirst float64 `json:"thirst"`

	Weight             float64 `json:"weight"`
	Burden             float64 `json:"burden"`
	MaximumCarryWeight float64 `json:"maximum_carry_weight"`
	Speed              float64 `json:"speed"`
	MinimumSpeed       float64 `json:"minimum_speed"`
	MaximumSpeed       float64 `json:"maximum_speed"`
	SpeedMultiplier    float64 `json:"speed_multiplier"`

	// Levels are re-derived from XP on import.
	WalkingXP  float64 `json:"walking_xp"`
	CarryingXP float64 `json:"carrying_xp"`

	Task           *TaskV1     `json:"task,omitempty"`
	Location       *[3]float64 `json:"location,omitempty"`
	CameraLocation *[3]float64 `json:"camera_location,omitempty"`
	Scene          string      `json:"scene,omitempty"`
}

type TaskV1 struct {
	Kind       string     `json:"kind"`
	Point      [3]float64 `json:"point,omitempty"`
	Object     string     `json:"object,omitempty"`
	Consumable string     `json:"consumable,omitempty"`
	Amount     float64    `json:"amount,omitempty"`
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := writeFile(tmp, snap); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func writeFile(path string, snap SnapshotV1) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 64*1024)
	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Sync()
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)

	// The header line is for tools that only want the tick; gob repeats it.
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}
	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	if snap.Header.Version != Version {
		return snap, fmt.Errorf("unsupported snapshot version %d", snap.Header.Version)
	}
	return snap, nil
}

// ReadHeader decodes only the leading JSON header line.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, err
	}
	if h.Version == 0 {
		return h, errors.New("snapshot header missing version")
	}
	return h, nil
}

// Path is where the snapshot for tick lives under dir.
func Path(dir string, tick uint64) string {
	return filepath.Join(dir, fmt.Sprintf("%d.snap.zst", tick))
}
