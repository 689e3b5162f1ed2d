package reschedule

import (
	"context"

	"go.uber.org/zap"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
)

const defaultQueueSize = 32

// ResultFunc observes every handled event. It runs on the loop goroutine,
// so it may read the coordinator.
type ResultFunc func(c *Coordinator, ev Event, res Result)

// Loop feeds a Coordinator from a single queue. Move jobs run in their own
// goroutine and post their CommitSettled back onto the same queue, so every
// state change happens on the loop goroutine.
type Loop struct {
	coord    *Coordinator
	mover    appointment.Mover
	events   chan Event
	onResult ResultFunc
	log      *zap.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// OnResult registers an observer for handled events.
func OnResult(fn ResultFunc) LoopOption {
	return func(l *Loop) {
		l.onResult = fn
	}
}

// WithQueueSize sets the event buffer size.
func WithQueueSize(n int) LoopOption {
	return func(l *Loop) {
		if n > 0 {
			l.events = make(chan Event, n)
		}
	}
}

// NewLoop creates a loop around coord that commits through mover.
func NewLoop(coord *Coordinator, mover appointment.Mover, opts ...LoopOption) *Loop {
	l := &Loop{
		coord:  coord,
		mover:  mover,
		events: make(chan Event, defaultQueueSize),
		log:    coord.log,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post enqueues an event. It blocks until the event is queued or ctx is done.
func (l *Loop) Post(ctx context.Context, ev Event) error {
	select {
	case l.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes events until ctx is done. There is no timeout on move jobs;
// a job that never returns leaves its appointment in the committing state.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-l.events:
			res := l.coord.Handle(ev)
			if res.Commit != nil {
				go l.commit(ctx, *res.Commit)
			}
			if l.onResult != nil {
				l.onResult(l.coord, ev, res)
			}
		}
	}
}

func (l *Loop) commit(ctx context.Context, job MoveJob) {
	settled := job.Run(ctx, l.mover)
	select {
	case l.events <- settled:
	case <-ctx.Done():
		l.log.Warn("dropping settlement after shutdown", zap.String("appointment_id", settled.AppointmentID))
	}
}
