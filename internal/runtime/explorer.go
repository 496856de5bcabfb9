package runtime

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/irobinett3/traceTM-iansntm/internal/logging"
	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
	"lukechampine.com/blake3"
)

// ErrFrontierExhausted is returned when a depth queues more configurations than WithMaxFrontier allows.
var ErrFrontierExhausted = errors.New("frontier exceeds configured limit")

// config is a live configuration. Its tape is never shared with another config.
type config struct {
	tape  []int
	state int
	head  int
}

// fingerprint identifies (tape, state, head) for duplicate detection.
type fingerprint [32]byte

// Explorer runs one machine over inputs. It is immutable after NewExplorer and
// may be shared: every Run allocates its own frontier, visited set and trace.
type Explorer struct {
	index       *Index
	maxDepth    int
	maxFrontier int
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
}

// NewExplorer builds the transition index for m and applies the options.
func NewExplorer(m *domain.Machine, opts ...Option) *Explorer {
	e := &Explorer{
		index:    NewIndex(m),
		maxDepth: DefaultMaxDepth,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Machine returns the explored machine.
func (e *Explorer) Machine() *domain.Machine {
	return e.index.machine
}

// Index returns the transition index.
func (e *Explorer) Index() *Index {
	return e.index
}

// MaxDepth returns the configured depth bound.
func (e *Explorer) MaxDepth() int {
	return e.maxDepth
}

// run is the state owned by a single Run call.
type run struct {
	index       *Index
	symbols     *symbolTable
	visited     map[fingerprint]struct{}
	transitions int
	maxFrontier int
	buf         []byte
}

// Run traces input breadth-first and reports whether any branch reaches the accept state.
// The returned error is non-nil only when ctx is done between two depths or the
// frontier cap is exceeded; rejections of any kind are part of the result.
func (e *Explorer) Run(ctx context.Context, input string) (*domain.Result, error) {
	m := e.index.machine
	r := &run{
		index:       e.index,
		symbols:     e.index.symbols.clone(),
		visited:     make(map[fingerprint]struct{}),
		maxFrontier: e.maxFrontier,
	}

	cells := domain.InitialTape(input)
	tape := make([]int, len(cells))
	for i, s := range cells {
		tape[i] = r.symbols.intern(s)
	}
	frontier := []config{{tape: tape, state: e.index.start, head: 0}}

	result := &domain.Result{
		Machine:  m.Name,
		Input:    input,
		MaxDepth: e.maxDepth,
		Trace:    domain.Trace{},
	}

	e.logger.Debug("run started", "machine", m.Name, "input", input, "max_depth", e.maxDepth)
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{
			EventBase: e.event(domain.EventRunStart),
			Input:     input,
			MaxDepth:  e.maxDepth,
		})
	}

	reason := domain.HaltDepthBound
	for depth := 0; depth < e.maxDepth; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var (
			snap     domain.Snapshot
			accepted bool
			err      error
		)
		frontier, snap, accepted, err = r.round(depth, frontier)
		if err != nil {
			e.logger.Warn("run aborted", "machine", m.Name, "depth", depth, "error", err)
			return nil, err
		}
		if len(snap.Configurations) > 0 {
			result.Trace = append(result.Trace, snap)
		}

		e.logger.Debug("depth processed",
			"machine", m.Name,
			"depth", depth,
			"configurations", len(snap.Configurations),
			"frontier", len(frontier),
			"transitions", r.transitions,
		)
		if e.hooks.OnDepth != nil {
			e.hooks.OnDepth(ctx, &domain.DepthEvent{
				EventBase:      e.event(domain.EventDepth),
				Depth:          depth,
				Configurations: len(snap.Configurations),
				Frontier:       len(frontier),
				Transitions:    r.transitions,
			})
		}

		if accepted {
			result.Accepted = true
			reason = domain.HaltAccepted
			break
		}
		if len(frontier) == 0 {
			reason = domain.HaltExhausted
			break
		}
	}
	result.Transitions = r.transitions

	e.logger.Info("run finished",
		"machine", m.Name,
		"input", input,
		"accepted", result.Accepted,
		"depth", result.FinalDepth(),
		"transitions", result.Transitions,
		"reason", reason,
	)
	if e.hooks.OnHalt != nil {
		e.hooks.OnHalt(ctx, &domain.HaltEvent{
			EventBase:   e.event(domain.EventHalt),
			Depth:       result.FinalDepth(),
			Accepted:    result.Accepted,
			Transitions: result.Transitions,
			Reason:      reason,
		})
	}

	return result, nil
}

func (e *Explorer) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, Machine: e.index.machine.Name}
}

// round processes exactly the configurations in frontier and returns the
// frontier of the next depth. accepted is true when an accept-state
// configuration was dequeued; the remaining configurations are then skipped.
func (r *run) round(depth int, frontier []config) ([]config, domain.Snapshot, bool, error) {
	next := make([]config, 0, len(frontier))
	snap := domain.Snapshot{
		Depth:          depth,
		Configurations: make([]domain.ConfigView, 0, len(frontier)),
	}

	for _, c := range frontier {
		if c.head >= len(c.tape) {
			c.tape = append(c.tape, r.index.blank)
		}

		snap.Configurations = append(snap.Configurations, r.view(c))

		fp := r.fingerprint(c)
		if _, seen := r.visited[fp]; seen {
			continue
		}
		r.visited[fp] = struct{}{}

		switch {
		case c.state == r.index.accept:
			snap.Transitions = r.transitions
			return nil, snap, true, nil
		case c.state == r.index.reject:
			continue
		case c.head < 0:
			snap.Configurations[len(snap.Configurations)-1].State = r.states().name(r.index.reject)
			continue
		}

		steps := r.index.candidates(c.state, c.tape[c.head])
		r.transitions += len(steps)
		for _, s := range steps {
			tape := make([]int, len(c.tape))
			copy(tape, c.tape)
			tape[c.head] = s.write
			next = append(next, config{tape: tape, state: s.next, head: c.head + s.delta})
		}

		if r.maxFrontier > 0 && len(next) > r.maxFrontier {
			return nil, snap, false, fmt.Errorf("%w: more than %d configurations queued for depth %d",
				ErrFrontierExhausted, r.maxFrontier, depth+1)
		}
	}

	snap.Transitions = r.transitions
	return next, snap, false, nil
}

func (r *run) states() *symbolTable {
	return r.index.states
}

// view renders c as (left of head, state, right of head without trailing blanks).
// A negative head renders with an empty left side.
func (r *run) view(c config) domain.ConfigView {
	head := max(c.head, 0)
	head = min(head, len(c.tape))

	end := len(c.tape)
	for end > head && c.tape[end-1] == r.index.blank {
		end--
	}

	return domain.ConfigView{
		Left:  r.join(c.tape[:head]),
		State: r.states().name(c.state),
		Right: r.join(c.tape[head:end]),
	}
}

func (r *run) join(cells []int) string {
	var sb strings.Builder
	for _, id := range cells {
		sb.WriteString(r.symbols.name(id))
	}
	return sb.String()
}

func (r *run) fingerprint(c config) fingerprint {
	buf := r.buf[:0]
	buf = binary.AppendUvarint(buf, uint64(c.state))
	buf = binary.AppendVarint(buf, int64(c.head))
	buf = binary.AppendUvarint(buf, uint64(len(c.tape)))
	for _, id := range c.tape {
		buf = binary.AppendUvarint(buf, uint64(id))
	}
	r.buf = buf
	return blake3.Sum256(buf)
}

// With returns a copy of e with opts applied. The transition index is shared.
func (e *Explorer) With(opts ...Option) *Explorer {
	c := *e
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}
