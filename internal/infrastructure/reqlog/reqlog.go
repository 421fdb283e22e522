// Package reqlog appends one JSON line per upstream API call to a
// size-rotated log file, when enabled via EXA_LOG_REQUESTS=1.
package reqlog

import (
	"encoding/json"
	"io"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/doeshing/exa-go/internal/domain"
	"github.com/doeshing/exa-go/internal/ports"
)

// Writer logs request outcomes. A disabled writer is a no-op so callers
// never need to branch.
type Writer struct {
	enabled bool
	out     io.Writer
	mu      sync.Mutex
}

// New creates a writer logging to <dir>/requests.log, rotating at 5 MB.
func New(dir string, enabled bool) *Writer {
	if !enabled {
		return &Writer{}
	}
	return &Writer{
		enabled: true,
		out: &lumberjack.Logger{
			Filename:   filepath.Join(dir, "requests.log"),
			MaxSize:    domain.RequestLogMaxMegabytes,
			MaxBackups: domain.RequestLogMaxBackups,
		},
	}
}

// Log appends one entry. Only the masked key ever reaches the log.
func (w *Writer) Log(maskedKey, cmd string, status int) {
	if !w.enabled {
		return
	}
	entry := domain.RequestLogEntry{
		TS:     time.Now().UTC(),
		Key:    maskedKey,
		Cmd:    cmd,
		Status: status,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.out.Write(append(data, '\n'))
}

var _ ports.RequestLogger = (*Writer)(nil)
