package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestRows(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		height    int
		wantSpans int
		wantLast  int // rows in the last span
	}{
		{"even split", 4, 8, 4, 2},
		{"remainder to last", 4, 10, 4, 1},
		{"fewer rows than workers", 8, 3, 3, 1},
		{"single worker", 1, 7, 1, 7},
		{"ceil leaves trailing worker idle", 4, 5, 3, 1},
		{"empty", 4, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := New(tt.size).Rows(tt.height)
			if len(spans) != tt.wantSpans {
				t.Fatalf("got %d spans, want %d: %v", len(spans), tt.wantSpans, spans)
			}
			if len(spans) == 0 {
				return
			}

			// Spans tile [0, height) in order without gaps or overlap
			next := 0
			for i, s := range spans {
				if s.Y0 != next {
					t.Errorf("span %d starts at %d, want %d", i, s.Y0, next)
				}
				if s.Rows() <= 0 {
					t.Errorf("span %d is empty", i)
				}
				next = s.Y1
			}
			if next != tt.height {
				t.Errorf("spans end at %d, want %d", next, tt.height)
			}
			if got := spans[len(spans)-1].Rows(); got != tt.wantLast {
				t.Errorf("last span has %d rows, want %d", got, tt.wantLast)
			}
		})
	}
}

func TestRowsCeilSize(t *testing.T) {
	spans := New(3).Rows(10)
	// ceil(10/3) = 4 rows each, last absorbs the remaining 2
	want := []Span{{0, 0, 4}, {1, 4, 8}, {2, 8, 10}}
	for i, s := range spans {
		if s != want[i] {
			t.Errorf("span %d = %+v, want %+v", i, s, want[i])
		}
	}
}

func TestRunVisitsEveryRowOnce(t *testing.T) {
	const height = 37
	var hits [height]int32

	err := New(5).Run(context.Background(), height, func(_ context.Context, s Span) error {
		for y := s.Y0; y < s.Y1; y++ {
			atomic.AddInt32(&hits[y], 1)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for y, n := range hits {
		if n != 1 {
			t.Errorf("row %d visited %d times", y, n)
		}
	}
}

func TestRunPanicBecomesError(t *testing.T) {
	err := New(4).Run(context.Background(), 16, func(_ context.Context, s Span) error {
		if s.Worker == 2 {
			panic("boom")
		}
		return nil
	})

	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PanicError, got %v", err)
	}
	if pe.Worker != 2 || pe.Value != "boom" {
		t.Errorf("PanicError = %+v", pe)
	}
}

func TestRunReturnsWorkerError(t *testing.T) {
	sentinel := errors.New("failed")
	err := New(2).Run(context.Background(), 4, func(_ context.Context, s Span) error {
		if s.Worker == 0 {
			return sentinel
		}
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("Run error = %v, want %v", err, sentinel)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := New(2).Run(ctx, 4, func(context.Context, Span) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
	if called {
		t.Error("fn should not run on a cancelled context")
	}
}

func TestNewDefaultsToNumCPU(t *testing.T) {
	if New(0).Size() < 1 {
		t.Error("default pool size should be at least 1")
	}
}
