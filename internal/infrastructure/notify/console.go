// Package notify delivers notices and navigation requests to the user.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ballotbox/ballot/internal/core/ports"
)

var symbols = map[ports.NoticeLevel]string{
	ports.NoticeSuccess: "✓",
	ports.NoticeInfo:    "•",
	ports.NoticeError:   "✗",
}

// Console prints notices as single lines, the terminal equivalent of toasts.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Notify(n ports.Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sym, ok := symbols[n.Level]
	if !ok {
		sym = symbols[ports.NoticeInfo]
	}
	fmt.Fprintf(c.out, "%s %s\n", sym, n.Message)
}

// Hints turns navigation requests into next-step hints for a CLI user.
type Hints struct {
	mu  sync.Mutex
	out io.Writer
}

func NewHints(out io.Writer) *Hints {
	return &Hints{out: out}
}

var hints = map[ports.Route]string{
	ports.RouteLogin: "run `ballot login` to sign in",
	ports.RouteVote:  "run `ballot candidates` to see who is running, then `ballot vote <id>`",
}

func (h *Hints) Navigate(to ports.Route) {
	hint, ok := hints[to]
	if !ok {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.out, "  → %s\n", hint)
}

// Log writes notices and navigation to a structured logger, for headless
// use.
type Log struct {
	log zerolog.Logger
}

func NewLog(log zerolog.Logger) *Log {
	return &Log{log: log.With().Str("component", "notify").Logger()}
}

func (l *Log) Notify(n ports.Notice) {
	evt := l.log.Info()
	if n.Level == ports.NoticeError {
		evt = l.log.Warn()
	}
	evt.Str("level_hint", string(n.Level)).Msg(n.Message)
}

func (l *Log) Navigate(to ports.Route) {
	l.log.Debug().Str("route", string(to)).Msg("navigate")
}
