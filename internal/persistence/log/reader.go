package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"cookoutcreek.ai/internal/sim/game"
)

const maxLine = 4 << 20

// ReadSessionFile decodes every entry of one session file.
func ReadSessionFile(path string) ([]game.SessionEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []game.SessionEntry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	line := 0
	for sc.Scan() {
		line++
		b := sc.Bytes()
		if len(strings.TrimSpace(string(b))) == 0 {
			continue
		}
		var e game.SessionEntry
		if err := json.Unmarshal(b, &e); err != nil {
			return out, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// SessionFiles lists the session files in dir, oldest first. The hourly
// names sort chronologically.
func SessionFiles(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "session-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadSessionDir concatenates every session file in dir in order.
func ReadSessionDir(dir string) ([]game.SessionEntry, error) {
	paths, err := SessionFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no session files in %s", dir)
	}
	var out []game.SessionEntry
	for _, p := range paths {
		entries, err := ReadSessionFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}
