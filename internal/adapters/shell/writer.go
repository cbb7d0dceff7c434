package shell

import (
	"bytes"
	"sync"

	"go.trai.ch/xform/internal/core/ports"
)

// lineWriter forwards complete lines to the logger at debug level.
// Partial lines are buffered until a newline arrives or Flush is called.
type lineWriter struct {
	logger ports.Logger
	prefix string

	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// No newline yet; keep the fragment for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.logger.Debug(w.prefix + line[:len(line)-1])
	}
	return len(p), nil
}

// Flush logs any buffered partial line.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.logger.Debug(w.prefix + w.buf.String())
		w.buf.Reset()
	}
}
