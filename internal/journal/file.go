package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Abubakarusba/scorelaship-bot/pkg/logx"
)

// fileJournal is the dependency-free backend: one JSON object per line,
// append-only. Good enough for a single-process bot; no compaction because
// entries are small and bounded by posting volume (a few per day).
type fileJournal struct {
	mu   sync.Mutex
	path string
	f    *os.File
	log  logx.Logger
}

type fileEntry struct {
	At       time.Time `json:"at"`
	Outcome  string    `json:"outcome"`
	Category string    `json:"category"`
	Row      int       `json:"row"`
	ChatID   int64     `json:"chat_id"`
	Title    string    `json:"title,omitempty"`
	Error    string    `json:"error,omitempty"`
}

func openFile(cfg Config, log logx.Logger) (Journal, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("journal: file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &fileJournal{path: cfg.Path, f: f, log: log}, nil
}

func (j *fileJournal) Append(ctx context.Context, e Entry) error {
	if j == nil {
		return ErrDisabled
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	b, err := json.Marshal(fileEntry{
		At:       e.At,
		Outcome:  string(e.Outcome),
		Category: e.Category,
		Row:      e.Row,
		ChatID:   e.ChatID,
		Title:    e.Title,
		Error:    e.Error,
	})
	if err != nil {
		return err
	}
	b = append(b, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.f == nil {
		return ErrDisabled
	}
	_, err = j.f.Write(b)
	return err
}

func (j *fileJournal) Recent(ctx context.Context, n int) ([]Entry, error) {
	if j == nil {
		return nil, ErrDisabled
	}
	if n <= 0 {
		n = 10
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	// Keep only the last n lines; the file stays small enough to scan.
	var tail []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var fe fileEntry
		if err := json.Unmarshal([]byte(line), &fe); err != nil {
			j.log.Warn("journal: skipping malformed line", logx.Err(err))
			continue
		}
		tail = append(tail, Entry{
			At:       fe.At,
			Outcome:  Outcome(fe.Outcome),
			Category: fe.Category,
			Row:      fe.Row,
			ChatID:   fe.ChatID,
			Title:    fe.Title,
			Error:    fe.Error,
		})
		if len(tail) > n {
			tail = tail[1:]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	// newest first
	for i, k := 0, len(tail)-1; i < k; i, k = i+1, k-1 {
		tail[i], tail[k] = tail[k], tail[i]
	}
	return tail, nil
}

func (j *fileJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.f == nil {
		return nil
	}
	err := j.f.Close()
	j.f = nil
	return err
}
