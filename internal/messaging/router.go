package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-dungeon/internal/chunk"
	"github.com/pixil98/go-dungeon/internal/dungeon"
)

const (
	SubjectEntered  = "dungeon.entered"
	SubjectGenerate = "dungeon.generate"
	SubjectClear    = "dungeon.clear"
	SubjectStats    = "dungeon.stats"

	DefaultRetryInterval = 250 * time.Millisecond
)

// Subscriber provides the ability to subscribe to message subjects
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (unsubscribe func(), err error)
}

// Dungeon is the part of the streaming engine reachable over the bus.
type Dungeon interface {
	Generate() error
	Clear()
	ObserverEntered(chunk.Coordinate) error
	EnterChunk(uuid.UUID) error
}

// EnteredMessage reports that the observer entered a chunk, identified either by
// the chunk id of the trigger volume or by its grid coordinate.
type EnteredMessage struct {
	Chunk      string            `json:"chunk,omitempty"`
	Coordinate *chunk.Coordinate `json:"coordinate,omitempty"`
}

// Router feeds bus messages into the dungeon.
type Router struct {
	sub           Subscriber
	dungeon       Dungeon
	retryInterval time.Duration
}

type RouterOpt func(*Router)

// WithRetryInterval sets how often the router retries subscribing while the bus is
// still starting.
func WithRetryInterval(d time.Duration) RouterOpt {
	return func(r *Router) {
		r.retryInterval = d
	}
}

func NewRouter(sub Subscriber, d Dungeon, opts ...RouterOpt) *Router {
	r := &Router{
		sub:           sub,
		dungeon:       d,
		retryInterval: DefaultRetryInterval,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Start subscribes to the dungeon subjects and holds the subscriptions until ctx
// is done.
func (r *Router) Start(ctx context.Context) error {
	unsubs, err := r.subscribeWhenReady(ctx)
	if err != nil {
		return err
	}
	defer func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}()

	<-ctx.Done()
	return nil
}

func (r *Router) subscribeWhenReady(ctx context.Context) ([]func(), error) {
	ticker := time.NewTicker(r.retryInterval)
	defer ticker.Stop()

	for {
		unsubs, err := r.subscribe()
		if err == nil {
			return unsubs, nil
		}
		if !errors.Is(err, ErrNotStarted) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, nil
		case <-ticker.C:
		}
	}
}

func (r *Router) subscribe() ([]func(), error) {
	handlers := map[string]func([]byte){
		SubjectEntered:  r.handleEntered,
		SubjectGenerate: r.handleGenerate,
		SubjectClear:    r.handleClear,
	}

	var unsubs []func()
	for subject, h := range handlers {
		unsub, err := r.sub.Subscribe(subject, h)
		if err != nil {
			for _, u := range unsubs {
				u()
			}
			return nil, fmt.Errorf("subscribing to '%s': %w", subject, err)
		}
		unsubs = append(unsubs, unsub)
	}

	return unsubs, nil
}

func (r *Router) handleEntered(data []byte) {
	var msg EnteredMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.Warn("decoding entered message", "error", err)
		return
	}

	var err error
	switch {
	case msg.Chunk != "":
		id, parseErr := uuid.Parse(msg.Chunk)
		if parseErr != nil {
			slog.Warn("entered message has invalid chunk id", "chunk", msg.Chunk, "error", parseErr)
			return
		}
		err = r.dungeon.EnterChunk(id)
	case msg.Coordinate != nil:
		err = r.dungeon.ObserverEntered(*msg.Coordinate)
	default:
		slog.Warn("entered message names no chunk")
		return
	}

	if err != nil {
		slog.Warn("observer entered", "error", err)
	}
}

func (r *Router) handleGenerate([]byte) {
	if err := r.dungeon.Generate(); err != nil {
		slog.Error("generating dungeon", "error", err)
	}
}

func (r *Router) handleClear([]byte) {
	r.dungeon.Clear()
	slog.Info("dungeon cleared")
}

// Publisher provides the ability to publish to message subjects
type Publisher interface {
	Publish(subject string, data []byte) error
}

// StatsSource reports engine statistics.
type StatsSource interface {
	Stats() dungeon.Stats
}

// StatsPublisher publishes engine statistics on every tick.
type StatsPublisher struct {
	pub Publisher
	src StatsSource
}

func NewStatsPublisher(pub Publisher, src StatsSource) *StatsPublisher {
	return &StatsPublisher{pub: pub, src: src}
}

// Tick satisfies driver.Ticker. A bus that has not started yet is not an error.
func (p *StatsPublisher) Tick(ctx context.Context) error {
	data, err := json.Marshal(p.src.Stats())
	if err != nil {
		return fmt.Errorf("marshalling stats: %w", err)
	}

	err = p.pub.Publish(SubjectStats, data)
	if errors.Is(err, ErrNotStarted) {
		slog.DebugContext(ctx, "skipping stats, bus not started")
		return nil
	}
	return err
}
