// Package events records an audit trail of what the service did with each
// delivery. Writes are buffered and flushed to the store in batches.
package events

import (
	"context"
	"sync"
	"time"

	"issuebridge/internal/logger"
	"issuebridge/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

var Em *Emitter

const (
	ActorOperator = "operator"
	ActorSystem   = "system"
	ActorGitHub   = "github"
)

const writeTimeout = 2 * time.Second

// Store persists audit events.
type Store interface {
	InsertOne(ctx context.Context, evt models.Event) error
	InsertMany(ctx context.Context, evts []models.Event) error
}

// MongoStore writes audit events into a single collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) InsertOne(ctx context.Context, evt models.Event) error {
	_, err := s.coll.InsertOne(ctx, evt)
	return err
}

func (s *MongoStore) InsertMany(ctx context.Context, evts []models.Event) error {
	docs := make([]interface{}, len(evts))
	for i, evt := range evts {
		docs[i] = evt
	}

	_, err := s.coll.InsertMany(ctx, docs)
	return err
}

type Config struct {
	Buffer     int
	BatchSize  int
	FlushEvery time.Duration
	Location   *time.Location
}

var (
	defaultConfig = Config{
		Buffer:     1000,
		BatchSize:  50,
		FlushEvery: 2 * time.Second,
	}
	fastConfig = Config{
		Buffer:     1000,
		BatchSize:  50,
		FlushEvery: 50 * time.Millisecond,
	}
)

type Emitter struct {
	store      Store
	buf        chan models.Event
	cfg        Config
	deployment string
	now        func() time.Time

	wg        sync.WaitGroup
	onceClose sync.Once
}

// NewEmitter starts an emitter tuned for the deployment profile, stamping
// events in the named IANA zone (UTC when it cannot be loaded).
func NewEmitter(store Store, deployment string, timezone string) *Emitter {
	cfg := selectConfig(deployment)

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warn("unknown audit timezone, using UTC", "timezone", timezone, "error", err)
		loc = time.UTC
	}
	cfg.Location = loc

	return NewEmitterWithConfig(store, deployment, cfg)
}

func NewEmitterWithConfig(store Store, deployment string, cfg Config) *Emitter {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}

	e := &Emitter{
		store:      store,
		buf:        make(chan models.Event, cfg.Buffer),
		cfg:        cfg,
		deployment: deployment,
		now:        time.Now,
	}

	e.wg.Add(1)
	go e.worker()

	return e
}

func selectConfig(deployment string) Config {
	switch deployment {
	case "test":
		return fastConfig
	default:
		return defaultConfig
	}
}

// Emit queues evt; when the buffer is full it is written synchronously.
func (e *Emitter) Emit(evt models.Event) {
	if e == nil {
		return
	}

	evt.TimeStamp = e.now().In(e.cfg.Location)
	evt.Deployment = e.deployment
	if evt.Key == "" {
		evt.Key = uuid.NewString()
	}

	select {
	case e.buf <- evt:
	default:
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		if err := e.store.InsertOne(ctx, evt); err != nil {
			logger.Error("audit event dropped", "action", evt.Action, "error", err)
		}
	}
}

// Close flushes pending events and stops the worker. Emit must not be called
// afterwards.
func (e *Emitter) Close() {
	if e == nil {
		return
	}

	e.onceClose.Do(func() {
		close(e.buf)
		e.wg.Wait()
	})
}

func (e *Emitter) worker() {
	defer e.wg.Done()

	batch := make([]models.Event, 0, e.cfg.BatchSize)
	timer := time.NewTimer(e.cfg.FlushEvery)

	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			timer.Reset(e.cfg.FlushEvery)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := e.store.InsertMany(ctx, batch); err != nil {
			logger.Error("audit batch dropped", "size", len(batch), "error", err)
		}
		cancel()

		batch = make([]models.Event, 0, e.cfg.BatchSize)
		timer.Reset(e.cfg.FlushEvery)
	}

	for {
		select {
		case evt, ok := <-e.buf:
			if !ok {
				flush()
				return
			}

			batch = append(batch, evt)

			if len(batch) >= e.cfg.BatchSize {
				flush()
			}
		case <-timer.C:
			flush()
		}
	}
}
