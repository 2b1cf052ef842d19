package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vaughan-dsouza/postboard/internal/models"
)

var (
	ErrNotFound  = errors.New("post not found")
	ErrInvalidID = errors.New("invalid post id")
)

// PostStore is the persistence boundary for posts. Every method is a single
// round trip to the backing store.
type PostStore interface {
	// List returns posts in store order. A non-empty title restricts the
	// result to posts whose title contains it, ignoring case.
	List(ctx context.Context, title string) ([]models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Insert(ctx context.Context, title, content string) (*models.Post, error)
	// Update overwrites title and content only; created is never touched.
	Update(ctx context.Context, id, title, content string) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type Backend string

const (
	BackendMongo    Backend = "mongo"
	BackendPostgres Backend = "postgres"
	BackendMemory   Backend = "memory"
)

type Options struct {
	Backend Backend

	MongoURI      string
	MongoDatabase string

	DatabaseURL string
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration

	// ConnectTimeout bounds the startup retry loop.
	ConnectTimeout time.Duration
}

// Connect opens the configured store and waits for it to answer a ping.
func Connect(ctx context.Context, opts Options) (PostStore, error) {
	var (
		store PostStore
		err   error
	)

	switch opts.Backend {
	case BackendMongo:
		store, err = ConnectMongo(ctx, opts.MongoURI, opts.MongoDatabase)
	case BackendPostgres:
		store, err = ConnectPostgres(ctx, opts)
	case BackendMemory:
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("db: unknown backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	return prepare(ctx, store, opts.ConnectTimeout)
}

// prepare waits for store to answer and bootstraps it. The store is closed
// when it never becomes ready.
func prepare(ctx context.Context, store PostStore, timeout time.Duration) (PostStore, error) {
	if err := waitReady(ctx, store, timeout); err != nil {
		log.WithField("error", err).Error("giving up on store")
		_ = store.Close(context.Background())
		return nil, err
	}

	if pg, ok := store.(*PostgresStore); ok {
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = pg.Close(context.Background())
			return nil, err
		}
	}

	return store, nil
}

func waitReady(ctx context.Context, store PostStore, timeout time.Duration) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = timeout
	if bo.MaxElapsedTime <= 0 {
		bo.MaxElapsedTime = 30 * time.Second
	}

	attempt := 0
	op := func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return store.Ping(pingCtx)
	}
	notify := func(err error, wait time.Duration) {
		log.WithFields(log.Fields{
			"attempt": attempt,
			"retry":   wait,
			"error":   err,
		}).Warn("store not ready")
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(bo, ctx), notify); err != nil {
		return fmt.Errorf("db: store unreachable: %w", err)
	}
	return nil
}

// newID returns a fresh ObjectID-shaped identifier for backends without
// native ObjectIDs.
func newID() string {
	return primitive.NewObjectID().Hex()
}

// now is the creation clock, truncated to what every backend can store.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
