package engine

import (
	"time"

	"github.com/pkg/errors"
)

// DefaultTimeout is the limit for a single evaluation unless WithTimeout
// sets another.
const DefaultTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past the engine timeout.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned when a newer Evaluate call started while
	// this one was running.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// WithTimeout bounds each evaluation. Values <= 0 use DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

type evalResult struct {
	design *Design
	errors []EvalError
	err    error
}

// wait takes the result of generation gen from ch. A runaway script keeps
// its goroutine after the timeout; whatever it sends later lands in the
// buffered channel and is dropped.
func (e *Engine) wait(ch <-chan evalResult, gen uint64) (*Design, []EvalError, error) {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if gen != e.currentGeneration() {
			return nil, nil, ErrSuperseded
		}
		return res.design, res.errors, res.err

	case <-timer.C:
		return nil, nil, errors.Wrapf(ErrTimeout, "after %s", e.timeout)
	}
}

// nextGeneration starts a new evaluation and returns its number.
func (e *Engine) nextGeneration() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

func (e *Engine) currentGeneration() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}
