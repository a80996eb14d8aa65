package notify

import (
	"sync"

	"github.com/ballotbox/ballot/internal/core/ports"
)

// Recorder keeps every notice and navigation in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []ports.Notice
	routes  []ports.Route
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(n ports.Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

func (r *Recorder) Navigate(to ports.Route) {
	r.mu.Lock()
	r.routes = append(r.routes, to)
	r.mu.Unlock()
}

func (r *Recorder) Notices() []ports.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ports.Notice(nil), r.notices...)
}

func (r *Recorder) Routes() []ports.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ports.Route(nil), r.routes...)
}

// Messages returns only the notice texts, in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.Message)
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.notices = nil
	r.routes = nil
	r.mu.Unlock()
}
