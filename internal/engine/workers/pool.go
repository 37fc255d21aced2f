// Package workers runs row-partitioned work on a fixed-size pool of
// goroutines with a hard barrier at the end of every run.
package workers

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// Span is a contiguous range of rows [Y0, Y1) assigned to one worker.
type Span struct {
	Worker int
	Y0, Y1 int
}

// Rows returns the number of rows in the span.
func (s Span) Rows() int { return s.Y1 - s.Y0 }

// Pool partitions rows among a fixed number of workers.
type Pool struct {
	size int
}

// New creates a pool with size workers. A size <= 0 uses runtime.NumCPU().
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &Pool{size: size}
}

// Size returns the configured maximum number of workers.
func (p *Pool) Size() int { return p.size }

// Rows splits [0, height) into min(Size, height) contiguous spans of
// ceil(height/n) rows; the last span takes whatever remains.
func (p *Pool) Rows(height int) []Span {
	if height <= 0 {
		return nil
	}
	n := min(p.size, height)
	per := (height + n - 1) / n

	spans := make([]Span, 0, n)
	for i := 0; i < n; i++ {
		y0 := i * per
		y1 := y0 + per
		if i == n-1 {
			y1 = height
		}
		if y0 >= height {
			// ceil rounding can leave trailing workers without rows
			break
		}
		spans = append(spans, Span{Worker: i, Y0: y0, Y1: min(y1, height)})
	}
	return spans
}

// PanicError is returned by Run when a worker panics.
type PanicError struct {
	Worker int
	Value  any
	Stack  []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker %d panicked: %v", e.Worker, e.Value)
}

// Run calls fn once per span of Rows(height), each on its own goroutine,
// and returns after all of them finish. The first error or panic is
// returned; a panic never escapes to the caller's goroutine.
func (p *Pool) Run(ctx context.Context, height int, fn func(ctx context.Context, s Span) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range p.Rows(height) {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &PanicError{Worker: s.Worker, Value: r, Stack: debug.Stack()}
				}
			}()
			return fn(gctx, s)
		})
	}
	return g.Wait()
}
