package git

import (
	"regexp"
	"strconv"
	"sync"
)

var percentPattern = regexp.MustCompile(`(\d{1,3})%`)

// progressWriter turns sideband progress output into percentages
type progressWriter struct {
	mu       sync.Mutex
	callback func(int)
	last     int
}

func newProgressWriter(callback func(int)) *progressWriter {
	return &progressWriter{callback: callback, last: -1}
}

func (w *progressWriter) Write(p []byte) (int, error) {
	matches := percentPattern.FindAllSubmatch(p, -1)
	if len(matches) == 0 {
		return len(p), nil
	}
	pct, err := strconv.Atoi(string(matches[len(matches)-1][1]))
	if err != nil || pct > 100 {
		return len(p), nil
	}
	w.report(pct)
	return len(p), nil
}

func (w *progressWriter) finish() {
	w.report(100)
}

func (w *progressWriter) report(pct int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if pct == w.last {
		return
	}
	w.last = pct
	w.callback(pct)
}
