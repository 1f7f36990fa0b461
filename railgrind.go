package railgrind

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/railgrind/railgrind/railsim"
	"github.com/railgrind/railgrind/rider"
	"github.com/sirupsen/logrus"
)

// Railgrind represents a running locomotion session: the set of live riders
// bound to one authored rail layout.
type Railgrind struct {
	riderMutex sync.Mutex
	riderChan  chan *rider.Rider
	riders     map[uuid.UUID]*rider.Rider
	closed     bool
}

// New returns a new Railgrind session.
func New() *Railgrind {
	return &Railgrind{
		riders:    make(map[uuid.UUID]*rider.Rider),
		riderChan: make(chan *rider.Rider),
	}
}

// Accept accepts an incoming rider into the session. It blocks until a rider
// spawns, and returns an error once the session has been closed.
func (g *Railgrind) Accept() (*rider.Rider, error) {
	r, ok := <-g.riderChan
	if !ok {
		return nil, errors.New("railgrind shutdown")
	}
	g.riderMutex.Lock()
	g.riders[r.ID()] = r
	g.riderMutex.Unlock()
	return r, nil
}

// Spawn activates a new rider against the given rail set and hands it to
// whoever is blocked in Accept.
func (g *Railgrind) Spawn(log *logrus.Logger, curves railsim.CurveProvider, body railsim.Embodiment, input rider.InputProvider, opts railsim.Options) error {
	r, err := rider.New(log, curves, body, input, opts)
	if err != nil {
		return err
	}

	// The send happens under the same lock Close takes, so Close can never
	// close the channel between the check and the send.
	g.riderMutex.Lock()
	defer g.riderMutex.Unlock()
	if g.closed {
		return errors.New("railgrind shutdown")
	}
	g.riderChan <- r
	return nil
}

// Rider looks up a live rider by its identity.
func (g *Railgrind) Rider(id uuid.UUID) (*rider.Rider, bool) {
	g.riderMutex.Lock()
	defer g.riderMutex.Unlock()
	r, ok := g.riders[id]
	return r, ok
}

// Riders returns a snapshot of all live riders.
func (g *Railgrind) Riders() []*rider.Rider {
	g.riderMutex.Lock()
	defer g.riderMutex.Unlock()
	out := make([]*rider.Rider, 0, len(g.riders))
	for _, r := range g.riders {
		out = append(out, r)
	}
	return out
}

// Remove drops a rider from the session, typically after its run finished.
func (g *Railgrind) Remove(id uuid.UUID) {
	g.riderMutex.Lock()
	defer g.riderMutex.Unlock()
	delete(g.riders, id)
}

// Close shuts the session down. Pending Accept calls return an error.
func (g *Railgrind) Close() {
	g.riderMutex.Lock()
	defer g.riderMutex.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	close(g.riderChan)
}
