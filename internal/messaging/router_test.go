package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-dungeon/internal/chunk"
	"github.com/pixil98/go-dungeon/internal/dungeon"
	"github.com/pixil98/go-testutil"
)

type fakeBus struct {
	mu          sync.Mutex
	failures    int
	err         error
	handlers    map[string]func([]byte)
	unsubscribe int
	published   map[string][]byte
	publishErr  error
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		handlers:  map[string]func([]byte){},
		published: map[string][]byte{},
	}
}

func (b *fakeBus) Subscribe(subject string, handler func([]byte)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.err != nil {
		return nil, b.err
	}
	if b.failures > 0 {
		b.failures--
		return nil, ErrNotStarted
	}

	b.handlers[subject] = handler
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.unsubscribe++
		delete(b.handlers, subject)
	}, nil
}

func (b *fakeBus) Publish(subject string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.publishErr != nil {
		return b.publishErr
	}
	b.published[subject] = data
	return nil
}

func (b *fakeBus) deliver(t *testing.T, subject string, data []byte) {
	t.Helper()

	b.mu.Lock()
	h, ok := b.handlers[subject]
	b.mu.Unlock()

	if !ok {
		t.Fatalf("no handler for %s", subject)
	}
	h(data)
}

func (b *fakeBus) subscribed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}

type fakeDungeon struct {
	generated int
	cleared   int
	entered   []chunk.Coordinate
	chunks    []uuid.UUID
	err       error
}

func (d *fakeDungeon) Generate() error {
	d.generated++
	return d.err
}

func (d *fakeDungeon) Clear() {
	d.cleared++
}

func (d *fakeDungeon) ObserverEntered(c chunk.Coordinate) error {
	d.entered = append(d.entered, c)
	return d.err
}

func (d *fakeDungeon) EnterChunk(id uuid.UUID) error {
	d.chunks = append(d.chunks, id)
	return d.err
}

// startRouter runs a router until the test ends and waits for it to subscribe.
func startRouter(t *testing.T, bus *fakeBus, d Dungeon) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	r := NewRouter(bus, d, WithRetryInterval(time.Millisecond))
	go func() { done <- r.Start(ctx) }()

	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("router returned: %v", err)
		}
	})

	deadline := time.Now().Add(time.Second)
	for bus.subscribed() < 3 {
		if time.Now().After(deadline) {
			t.Fatal("router did not subscribe")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRouter_Entered(t *testing.T) {
	id := uuid.New()

	tests := map[string]struct {
		msg       string
		expCoords []chunk.Coordinate
		expChunks []uuid.UUID
	}{
		"by coordinate": {
			msg:       `{"coordinate":{"x":2,"y":-1}}`,
			expCoords: []chunk.Coordinate{{X: 2, Y: -1}},
		},
		"by chunk id": {
			msg:       `{"chunk":"` + id.String() + `"}`,
			expChunks: []uuid.UUID{id},
		},
		"chunk id wins": {
			msg:       `{"chunk":"` + id.String() + `","coordinate":{"x":0,"y":0}}`,
			expChunks: []uuid.UUID{id},
		},
		"invalid chunk id": {
			msg: `{"chunk":"not-a-uuid"}`,
		},
		"empty message": {
			msg: `{}`,
		},
		"malformed json": {
			msg: `{"coordinate":`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			bus := newFakeBus()
			d := &fakeDungeon{}
			startRouter(t, bus, d)

			bus.deliver(t, SubjectEntered, []byte(tt.msg))

			testutil.AssertEqual(t, "coordinates", len(d.entered), len(tt.expCoords))
			for i, c := range tt.expCoords {
				testutil.AssertEqual(t, "coordinate", d.entered[i], c)
			}
			testutil.AssertEqual(t, "chunks", len(d.chunks), len(tt.expChunks))
			for i, c := range tt.expChunks {
				testutil.AssertEqual(t, "chunk", d.chunks[i], c)
			}
		})
	}
}

func TestRouter_GenerateAndClear(t *testing.T) {
	bus := newFakeBus()
	d := &fakeDungeon{err: dungeon.ErrInvalidConfig}
	startRouter(t, bus, d)

	bus.deliver(t, SubjectGenerate, nil)
	bus.deliver(t, SubjectGenerate, nil)
	bus.deliver(t, SubjectClear, nil)

	testutil.AssertEqual(t, "generated", d.generated, 2)
	testutil.AssertEqual(t, "cleared", d.cleared, 1)
}

func TestRouter_RetriesUntilStarted(t *testing.T) {
	bus := newFakeBus()
	bus.failures = 3
	startRouter(t, bus, &fakeDungeon{})

	testutil.AssertEqual(t, "subscribed", bus.subscribed(), 3)
}

func TestRouter_Unsubscribes(t *testing.T) {
	bus := newFakeBus()
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRouter(bus, &fakeDungeon{})

	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()

	deadline := time.Now().Add(time.Second)
	for bus.subscribed() < 3 {
		if time.Now().After(deadline) {
			t.Fatal("router did not subscribe")
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "unsubscribed", bus.unsubscribe, 3)
	testutil.AssertEqual(t, "remaining", bus.subscribed(), 0)
}

func TestRouter_SubscribeError(t *testing.T) {
	bus := newFakeBus()
	bus.err = errors.New("connection refused")
	r := NewRouter(bus, &fakeDungeon{})

	err := r.Start(context.Background())

	testutil.AssertErrorContains(t, err, "connection refused")
}

type fixedStats dungeon.Stats

func (s fixedStats) Stats() dungeon.Stats {
	return dungeon.Stats(s)
}

func TestStatsPublisher_Tick(t *testing.T) {
	tests := map[string]struct {
		publishErr error
		expErr     string
		expSent    bool
	}{
		"publishes stats": {expSent: true},
		"bus not started": {publishErr: ErrNotStarted},
		"publish failure": {publishErr: errors.New("broken pipe"), expErr: "broken pipe"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			bus := newFakeBus()
			bus.publishErr = tt.publishErr
			p := NewStatsPublisher(bus, fixedStats{Pool: 9, Placed: 5, Unused: 4})

			err := p.Tick(context.Background())

			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			data, sent := bus.published[SubjectStats]
			testutil.AssertEqual(t, "sent", sent, tt.expSent)
			if !sent {
				return
			}

			var got dungeon.Stats
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("decoding stats: %v", err)
			}
			testutil.AssertEqual(t, "placed", got.Placed, 5)
			testutil.AssertEqual(t, "unused", got.Unused, 4)
		})
	}
}
