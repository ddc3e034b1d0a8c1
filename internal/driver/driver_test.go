package driver

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func TestDriver_Tick(t *testing.T) {
	errBoom := errors.New("boom")

	tests := map[string]struct {
		results  []error
		expCalls []int
		expErr   string
	}{
		"all tickers run in order": {
			results:  []error{nil, nil, nil},
			expCalls: []int{0, 1, 2},
		},
		"stops at first failure": {
			results:  []error{nil, errBoom, nil},
			expCalls: []int{0, 1},
			expErr:   "ticker 1: boom",
		},
		"no tickers": {
			results:  nil,
			expCalls: nil,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var calls []int
			var tickers []Ticker
			for i, res := range tt.results {
				tickers = append(tickers, TickerFunc(func(context.Context) error {
					calls = append(calls, i)
					return res
				}))
			}

			err := NewDriver(tickers).Tick(context.Background())

			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(calls, tt.expCalls) {
				t.Errorf("calls = %v, expected %v", calls, tt.expCalls)
			}
		})
	}
}

func TestDriver_StartStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	ticks := make(chan struct{}, 16)
	d := NewDriver([]Ticker{TickerFunc(func(context.Context) error {
		select {
		case ticks <- struct{}{}:
		default:
		}
		return nil
	})}, WithTickLength(time.Millisecond))

	done := make(chan error, 1)
	go func() { done <- d.Start(ctx) }()

	select {
	case <-ticks:
	case <-time.After(5 * time.Second):
		t.Fatal("driver never ticked")
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("driver did not stop")
	}
}

func TestDriver_StartReturnsTickError(t *testing.T) {
	errBoom := errors.New("boom")
	d := NewDriver([]Ticker{TickerFunc(func(context.Context) error {
		return errBoom
	})}, WithTickLength(time.Millisecond))

	err := d.Start(context.Background())
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
