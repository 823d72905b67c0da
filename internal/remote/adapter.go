package remote

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/codephy/internal/assemble"
	"github.com/vk/codephy/internal/ctxlog"
	"github.com/vk/codephy/internal/lower"
)

// Emitter sends one event. The socket.io client satisfies it through
// socketEmitter; tests use a recorder.
type Emitter interface {
	Emit(event string, payload any) error
	Close() error
}

// Handle is the object returned by Create. The real object lives in the
// engine; the handle only names it.
type Handle struct {
	ID string
}

// Adapter is a lower.Adapter that forwards every step to an Emitter.
type Adapter struct {
	emitter Emitter
	policy  assemble.ConstraintPolicy

	// mu serialises emits so sequence numbers match delivery order.
	mu  sync.Mutex
	seq int64
}

// NewAdapter wraps e. An empty policy means the engine uses the default.
func NewAdapter(e Emitter, policy assemble.ConstraintPolicy) *Adapter {
	return &Adapter{emitter: e, policy: policy}
}

func (a *Adapter) emit(ctx context.Context, event string, build func(seq int64) any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	payload := build(a.seq)
	ctxlog.FromContext(ctx).Debug("Emitting event.", "event", event, "seq", a.seq)
	if err := a.emitter.Emit(event, payload); err != nil {
		return fmt.Errorf("failed to emit %s: %w", event, err)
	}
	return nil
}

// Create implements lower.Adapter.
func (a *Adapter) Create(ctx context.Context, req lower.CreateRequest) (any, error) {
	err := a.emit(ctx, EventCreate, func(seq int64) any { return createEvent(seq, req) })
	if err != nil {
		return nil, err
	}
	return &Handle{ID: req.ID}, nil
}

// Connect implements lower.Adapter.
func (a *Adapter) Connect(ctx context.Context, req lower.ConnectRequest) error {
	return a.emit(ctx, EventConnect, func(seq int64) any {
		return ConnectEvent{Seq: seq, ID: req.ID, Params: plainMap(req.Params)}
	})
}

// Assembled announces the final prior/likelihood/posterior grouping.
func (a *Adapter) Assembled(ctx context.Context, m *assemble.Model) error {
	return a.emit(ctx, EventAssembled, func(int64) any { return m })
}

// ConstraintPolicy implements assemble.PolicyProvider.
func (a *Adapter) ConstraintPolicy() assemble.ConstraintPolicy {
	return a.policy
}

// Close releases the underlying connection.
func (a *Adapter) Close() error {
	return a.emitter.Close()
}
