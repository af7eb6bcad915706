package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/forgo/vidgram/internal/client"
	"github.com/forgo/vidgram/internal/model"
)

// RelationshipAPI defines the viewer-side relationship endpoints
type RelationshipAPI interface {
	Relationships(ctx context.Context, auth client.Authorizer, viewerID string) (*model.RelationshipSnapshot, error)
	Follow(ctx context.Context, auth client.Authorizer, cmd model.FollowCommand) (*model.FollowResult, error)
}

// TrackerConfig holds configuration for the relationship tracker
type TrackerConfig struct {
	API    RelationshipAPI
	Logger *slog.Logger
}

// Tracker holds the viewer's outgoing relationships: the users they follow
// and the private users they have asked to follow. A user is never in both
// sets. Local state changes only after the server confirms a mutation.
type Tracker struct {
	api    RelationshipAPI
	logger *slog.Logger

	mu        sync.Mutex
	viewerID  string
	following map[string]struct{}
	pending   map[string]struct{}
	inFlight  map[string]struct{}
}

// NewTracker creates an empty relationship tracker
func NewTracker(cfg TrackerConfig) *Tracker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		api:       cfg.API,
		logger:    logger,
		following: make(map[string]struct{}),
		pending:   make(map[string]struct{}),
		inFlight:  make(map[string]struct{}),
	}
}

// Reconcile replaces both sets with the server's view. An id reported as
// both followed and pending is kept as followed.
func (t *Tracker) Reconcile(ctx context.Context, sess Session) error {
	viewer, err := checkAuth(sess)
	if err != nil {
		return err
	}

	snap, err := t.api.Relationships(ctx, sess, viewer.ID)
	if err != nil {
		return classify(ctx, sess, model.ErrLoadFailed, "reconcile relationships", err)
	}

	following := make(map[string]struct{}, len(snap.Following))
	for _, id := range snap.Following {
		following[id] = struct{}{}
	}
	pending := make(map[string]struct{}, len(snap.Pending))
	for _, id := range snap.Pending {
		if _, ok := following[id]; ok {
			continue
		}
		pending[id] = struct{}{}
	}

	t.mu.Lock()
	t.viewerID = viewer.ID
	t.following = following
	t.pending = pending
	t.mu.Unlock()

	t.logger.Debug("relationships reconciled",
		slog.String("viewer_id", viewer.ID),
		slog.Int("following", len(following)),
		slog.Int("pending", len(pending)),
	)
	return nil
}

// Decide returns the command a toggle on a target in state would send
func Decide(actorID, targetID string, state model.RelationshipState, visibility model.Visibility) model.FollowCommand {
	cmd := model.FollowCommand{ActorID: actorID, TargetID: targetID}
	switch {
	case state == model.RelationshipFollowing:
		cmd.Action = model.FollowActionUnfollow
	case visibility == model.VisibilityPrivate:
		cmd.Action = model.FollowActionFollow
		cmd.IsRequest = true
	default:
		cmd.Action = model.FollowActionFollow
	}
	return cmd
}

// Toggle flips the viewer's relationship to targetID: a followed target is
// unfollowed, a private target gets a follow request, any other target is
// followed. It returns the state after the call; on error that is the
// unchanged state.
func (t *Tracker) Toggle(ctx context.Context, sess Session, targetID string, visibility model.Visibility) (model.RelationshipState, error) {
	if targetID == "" {
		return model.RelationshipNone, ErrTargetRequired
	}
	viewer, err := checkAuth(sess)
	if err != nil {
		return t.State(targetID), err
	}
	if viewer.ID == targetID {
		return model.RelationshipNone, ErrCannotFollowSelf
	}

	t.mu.Lock()
	state := t.stateLocked(targetID)
	if _, busy := t.inFlight[targetID]; busy {
		t.mu.Unlock()
		return state, fmt.Errorf("toggle %s: %w", targetID, model.ErrAlreadyInFlight)
	}
	if state == model.RelationshipRequested {
		t.mu.Unlock()
		return state, ErrFollowRequestPending
	}
	t.inFlight[targetID] = struct{}{}
	t.mu.Unlock()

	cmd := Decide(viewer.ID, targetID, state, visibility)
	res, callErr := t.api.Follow(ctx, sess, cmd)

	t.mu.Lock()
	delete(t.inFlight, targetID)
	if callErr == nil && res != nil && res.Success {
		t.applyLocked(cmd)
	}
	next := t.stateLocked(targetID)
	t.mu.Unlock()

	if callErr != nil {
		return next, classify(ctx, sess, model.ErrActionFailed, fmt.Sprintf("%s %s", describe(cmd), targetID), callErr)
	}
	if res == nil || !res.Success {
		msg := ""
		if res != nil {
			msg = res.Message
		}
		t.logger.Warn("follow action declined",
			slog.String("target_id", targetID),
			slog.String("action", describe(cmd)),
			slog.String("message", msg),
		)
		return next, fmt.Errorf("%s %s: %w", describe(cmd), targetID, ErrActionDeclined)
	}

	t.logger.Info("relationship changed",
		slog.String("target_id", targetID),
		slog.String("action", describe(cmd)),
		slog.String("state", string(next)),
	)
	return next, nil
}

func (t *Tracker) applyLocked(cmd model.FollowCommand) {
	id := cmd.TargetID
	switch {
	case cmd.Action == model.FollowActionUnfollow:
		delete(t.following, id)
		delete(t.pending, id)
	case cmd.IsRequest:
		if _, ok := t.following[id]; !ok {
			t.pending[id] = struct{}{}
		}
	default:
		t.following[id] = struct{}{}
		delete(t.pending, id)
	}
}

func describe(cmd model.FollowCommand) string {
	if cmd.IsRequest {
		return "request"
	}
	return string(cmd.Action)
}

// State returns the viewer's relationship to targetID
func (t *Tracker) State(targetID string) model.RelationshipState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateLocked(targetID)
}

func (t *Tracker) stateLocked(targetID string) model.RelationshipState {
	if _, ok := t.following[targetID]; ok {
		return model.RelationshipFollowing
	}
	if _, ok := t.pending[targetID]; ok {
		return model.RelationshipRequested
	}
	return model.RelationshipNone
}

// InFlight reports whether a toggle on targetID is outstanding
func (t *Tracker) InFlight(targetID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.inFlight[targetID]
	return ok
}

// Following returns the followed ids, sorted
func (t *Tracker) Following() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return sortedKeys(t.following)
}

// Pending returns the ids with an outstanding follow request, sorted
func (t *Tracker) Pending() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return sortedKeys(t.pending)
}

// Annotate pairs each item with the viewer's relationship to it
func (t *Tracker) Annotate(items []model.CollectionItem) []model.AnnotatedItem {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]model.AnnotatedItem, 0, len(items))
	for _, it := range items {
		out = append(out, model.AnnotatedItem{
			CollectionItem: it,
			Relationship:   t.stateLocked(it.ID),
			IsSelf:         t.viewerID != "" && it.ID == t.viewerID,
		})
	}
	return out
}

// Clear forgets all relationships, as on logout
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.viewerID = ""
	t.following = make(map[string]struct{})
	t.pending = make(map[string]struct{})
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
