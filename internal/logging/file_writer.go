package logging

import (
	"os"
	"sync"
)

// truncatingFileWriter appends to a single log file and starts it over once
// the next write would push it past the cap. No rotation, no archived copies;
// the cap bounds disk usage and old lines are simply gone.
type truncatingFileWriter struct {
	mu   sync.Mutex
	path string
	cap  int64
	f    *os.File
	n    int64
}

func newTruncatingFileWriter(path string, maxMB int) (*truncatingFileWriter, error) {
	if maxMB <= 0 {
		maxMB = 10
	}
	w := &truncatingFileWriter{path: path, cap: int64(maxMB) << 20}
	if err := w.open(os.O_APPEND); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *truncatingFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		if err := w.open(os.O_APPEND); err != nil {
			return 0, err
		}
	}
	if w.n+int64(len(p)) > w.cap {
		if w.f != nil {
			_ = w.f.Close()
			w.f = nil
		}
		if err := w.open(os.O_TRUNC); err != nil {
			return 0, err
		}
	}
	n, err := w.f.Write(p)
	w.n += int64(n)
	return n, err
}

func (w *truncatingFileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

// open (re)opens the log file in the given mode and refreshes the byte count
// from its current size. Caller holds the lock.
func (w *truncatingFileWriter) open(mode int) error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|mode, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.n = info.Size()
	return nil
}
