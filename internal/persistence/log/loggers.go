package log

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"cookoutcreek.ai/internal/sim/game"
)

const hourLayout = "2006-01-02-15"

// ErrClosed is returned by WriteSession after Close.
var ErrClosed = errors.New("session log closed")

func SessionDir(dataDir string) string { return filepath.Join(dataDir, "session") }

func sessionFileName(hour string) string { return "session-" + hour + ".jsonl.zst" }

// segment is one open hourly session file.
type segment struct {
	hour string
	f    *os.File
	zw   *zstd.Encoder
	enc  *json.Encoder
}

func openSegment(dir, hour string) (*segment, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, sessionFileName(hour)), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &segment{hour: hour, f: f, zw: zw, enc: json.NewEncoder(zw)}, nil
}

// append writes v as one line and flushes the zstd frame so a live file
// decodes up to the last complete entry.
func (s *segment) append(v any) error {
	if err := s.enc.Encode(v); err != nil {
		return err
	}
	return s.zw.Flush()
}

func (s *segment) close() error {
	return errors.Join(s.zw.Close(), s.f.Close())
}

// SessionLogger appends game.SessionEntry values to hourly zstd JSONL files
// named session-YYYY-MM-DD-HH.jsonl.zst.
type SessionLogger struct {
	dir string
	now func() time.Time

	mu     sync.Mutex
	cur    *segment
	closed bool
}

// NewSessionLogger writes under SessionDir(dataDir). Nothing is created
// until the first entry.
func NewSessionLogger(dataDir string) *SessionLogger {
	return newSessionLogger(SessionDir(dataDir))
}

func newSessionLogger(dir string) *SessionLogger {
	return &SessionLogger{dir: dir, now: time.Now}
}

func (l *SessionLogger) WriteSession(e game.SessionEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	seg, err := l.segmentFor(l.now().UTC().Format(hourLayout))
	if err != nil {
		return err
	}
	if err := seg.append(e); err != nil {
		return fmt.Errorf("session %s: %w", seg.hour, err)
	}
	return nil
}

// segmentFor returns the open segment for hour, finishing the previous one
// when the hour has moved on.
func (l *SessionLogger) segmentFor(hour string) (*segment, error) {
	if l.cur != nil {
		if l.cur.hour == hour {
			return l.cur, nil
		}
		err := l.cur.close()
		l.cur = nil
		if err != nil {
			return nil, err
		}
	}
	seg, err := openSegment(l.dir, hour)
	if err != nil {
		return nil, err
	}
	l.cur = seg
	return seg, nil
}

// Close finishes the current file. Later writes fail with ErrClosed.
func (l *SessionLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.cur == nil {
		return nil
	}
	err := l.cur.close()
	l.cur = nil
	return err
}
