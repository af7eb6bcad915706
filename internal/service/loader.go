package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	orderedmap "github.com/pb33f/ordered-map/v2"
	"golang.org/x/sync/singleflight"

	"github.com/forgo/vidgram/internal/client"
	"github.com/forgo/vidgram/internal/model"
)

// DefaultPageSize is the page size used by every collection view
const DefaultPageSize = 6

// CollectionAPI defines the paged collection endpoints
type CollectionAPI interface {
	ListUsers(ctx context.Context, auth client.Authorizer, page, limit int) ([]model.CollectionItem, error)
	ListFollowers(ctx context.Context, auth client.Authorizer, ownerID string, page, limit int) ([]model.CollectionItem, error)
	ListFollowing(ctx context.Context, auth client.Authorizer, ownerID string, page, limit int) ([]model.CollectionItem, error)
}

// pageFetcher fetches one page of a collection
type pageFetcher func(ctx context.Context, auth client.Authorizer, page, limit int) ([]model.CollectionItem, error)

// LoadResult is the loader state after a call to LoadNext
type LoadResult struct {
	Items     []model.CollectionItem
	Fetched   int
	Cursor    model.Cursor
	Exhausted bool
}

// LoaderConfig holds configuration for a loader
type LoaderConfig struct {
	PageSize int
	Logger   *slog.Logger
}

// Loader pages through one user collection. Pages are merged by id into an
// insertion-ordered collection: a new id is appended, a known id is updated
// in place.
type Loader struct {
	name     string
	fetch    pageFetcher
	pageSize int
	logger   *slog.Logger
	group    singleflight.Group

	mu        sync.RWMutex
	items     *orderedmap.OrderedMap[string, model.CollectionItem]
	cursor    model.Cursor
	exhausted bool
	// generation is bumped by Reset so a fetch started before it is dropped
	generation uint64
}

func newLoader(name string, fetch pageFetcher, cfg LoaderConfig) *Loader {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		name:     name,
		fetch:    fetch,
		pageSize: pageSize,
		logger:   logger,
		items:    orderedmap.New[string, model.CollectionItem](),
	}
}

// NewUsersLoader creates a loader over the user directory
func NewUsersLoader(api CollectionAPI, cfg LoaderConfig) *Loader {
	return newLoader("users", api.ListUsers, cfg)
}

// NewFollowersLoader creates a loader over ownerID's followers
func NewFollowersLoader(api CollectionAPI, ownerID string, cfg LoaderConfig) *Loader {
	return newLoader("followers", func(ctx context.Context, auth client.Authorizer, page, limit int) ([]model.CollectionItem, error) {
		return api.ListFollowers(ctx, auth, ownerID, page, limit)
	}, cfg)
}

// NewFollowingLoader creates a loader over the users ownerID follows
func NewFollowingLoader(api CollectionAPI, ownerID string, cfg LoaderConfig) *Loader {
	return newLoader("following", func(ctx context.Context, auth client.Authorizer, page, limit int) ([]model.CollectionItem, error) {
		return api.ListFollowing(ctx, auth, ownerID, page, limit)
	}, cfg)
}

// PageSize returns the fixed page size
func (l *Loader) PageSize() int {
	return l.pageSize
}

// LoadNext fetches the page at cursor and merges it into the collection.
//
// A call made while a fetch is outstanding joins it and gets the same
// result. Once exhausted, calls return the collection without fetching. On
// failure the collection and cursor are left as they were. A signed-out
// caller gets ErrUnauthenticated even when the collection is exhausted.
//
// The shared fetch is not cancelled when the caller that started it gives
// up. Each caller stops waiting when its own ctx is done and gets a
// retryable ErrLoadFailed; the page still merges once if the fetch succeeds.
func (l *Loader) LoadNext(ctx context.Context, sess Session, cursor model.Cursor) (LoadResult, error) {
	if _, err := checkAuth(sess); err != nil {
		return LoadResult{}, err
	}
	if l.Exhausted() {
		return l.snapshot(0), nil
	}

	ch := l.group.DoChan(l.name, func() (interface{}, error) {
		return l.load(context.WithoutCancel(ctx), sess, cursor)
	})
	select {
	case r := <-ch:
		if r.Err != nil {
			return LoadResult{}, r.Err
		}
		if r.Shared {
			l.logger.Debug("joined in-flight page load", slog.String("collection", l.name))
		}
		return r.Val.(LoadResult), nil
	case <-ctx.Done():
		return LoadResult{}, fmt.Errorf("%w: load %s: %w", model.ErrLoadFailed, l.name, ctx.Err())
	}
}

func (l *Loader) load(ctx context.Context, sess Session, cursor model.Cursor) (LoadResult, error) {
	l.mu.RLock()
	gen := l.generation
	exhausted := l.exhausted
	l.mu.RUnlock()

	if exhausted {
		return l.snapshot(0), nil
	}

	page := cursor.Page(l.pageSize)
	items, err := l.fetch(ctx, sess, page, l.pageSize)
	if err != nil {
		l.logger.Warn("failed to load page",
			slog.String("collection", l.name),
			slog.Int("page", page),
			slog.String("error", err.Error()),
		)
		return LoadResult{}, classify(ctx, sess, model.ErrLoadFailed, fmt.Sprintf("load %s page %d", l.name, page), err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation {
		return l.snapshotLocked(0), nil
	}

	for _, it := range items {
		if it.ID == "" {
			continue
		}
		l.items.Set(it.ID, it)
	}
	l.cursor = cursor.Advance(len(items))
	if len(items) < l.pageSize {
		l.exhausted = true
	}

	l.logger.Debug("page loaded",
		slog.String("collection", l.name),
		slog.Int("page", page),
		slog.Int("fetched", len(items)),
		slog.Int("total", l.items.Len()),
		slog.Bool("exhausted", l.exhausted),
	)

	return l.snapshotLocked(len(items)), nil
}

// Items returns the merged collection in first-seen order
func (l *Loader) Items() []model.CollectionItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.itemsLocked()
}

// Cursor returns the cursor after the last successful fetch
func (l *Loader) Cursor() model.Cursor {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cursor
}

// Exhausted reports whether the last page has been seen
func (l *Loader) Exhausted() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.exhausted
}

// Reset clears the collection and cursor. A fetch still in flight when
// Reset is called does not merge its page.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = orderedmap.New[string, model.CollectionItem]()
	l.cursor = model.Cursor{}
	l.exhausted = false
	l.generation++
}

func (l *Loader) snapshot(fetched int) LoadResult {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked(fetched)
}

func (l *Loader) snapshotLocked(fetched int) LoadResult {
	return LoadResult{
		Items:     l.itemsLocked(),
		Fetched:   fetched,
		Cursor:    l.cursor,
		Exhausted: l.exhausted,
	}
}

func (l *Loader) itemsLocked() []model.CollectionItem {
	out := make([]model.CollectionItem, 0, l.items.Len())
	for pair := l.items.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}
