package service_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/vidgram/internal/model"
	"github.com/forgo/vidgram/internal/service"
	"github.com/forgo/vidgram/internal/session"
	"github.com/forgo/vidgram/internal/testing/fakeapi"
	"github.com/forgo/vidgram/internal/testing/fixtures"
	"github.com/forgo/vidgram/internal/testing/helpers"
)

// These tests run the services against the HTTP client, a real session and
// the in-memory backend.

func TestIntegration_PagesThroughDirectory(t *testing.T) {
	api := fakeapi.New(t)
	f := fixtures.New(api)
	viewer := f.CreateUser(t)
	f.CreateUsers(t, 14)
	sess := f.Session(t, viewer)

	loader := service.NewUsersLoader(f.Client(t), service.LoaderConfig{Logger: helpers.DiscardLogger()})
	ctx := helpers.Ctx(t)

	var res service.LoadResult
	for i := 0; i < 3; i++ {
		var err error
		res, err = loader.LoadNext(ctx, sess, loader.Cursor())
		require.NoError(t, err)
	}

	assert.Len(t, res.Items, 15)
	assert.True(t, res.Exhausted)
	assert.Equal(t, 3, api.Calls(fakeapi.RouteUsers))

	// Exhausted: no further fetches
	_, err := loader.LoadNext(ctx, sess, loader.Cursor())
	require.NoError(t, err)
	assert.Equal(t, 3, api.Calls(fakeapi.RouteUsers))
}

func TestIntegration_RefetchUpdatesInPlace(t *testing.T) {
	api := fakeapi.New(t)
	f := fixtures.New(api)
	users := f.CreateUsers(t, 8)
	sess := f.Session(t, users[0])

	loader := service.NewUsersLoader(f.Client(t), service.LoaderConfig{Logger: helpers.DiscardLogger()})
	ctx := helpers.Ctx(t)

	_, err := loader.LoadNext(ctx, sess, model.Cursor{})
	require.NoError(t, err)

	api.RenameUser(users[2].ID, "Renamed")
	res, err := loader.LoadNext(ctx, sess, model.Cursor{})
	require.NoError(t, err)

	require.Len(t, res.Items, 6)
	assert.Equal(t, users[2].ID, res.Items[2].ID)
	assert.Equal(t, "Renamed", res.Items[2].Name)
}

func TestIntegration_FollowPublicThenUnfollow(t *testing.T) {
	api := fakeapi.New(t)
	f := fixtures.New(api)
	viewer := f.CreateUser(t)
	target := f.CreateUser(t, fixtures.WithID("42"))
	sess := f.Session(t, viewer)

	tracker := service.NewTracker(service.TrackerConfig{API: f.Client(t), Logger: helpers.DiscardLogger()})
	ctx := helpers.Ctx(t)
	require.NoError(t, tracker.Reconcile(ctx, sess))

	state, err := tracker.Toggle(ctx, sess, target.ID, model.VisibilityPublic)
	require.NoError(t, err)
	assert.Equal(t, model.RelationshipFollowing, state)
	assert.Contains(t, tracker.Following(), "42")
	assert.Contains(t, api.Following(viewer.ID), "42")

	state, err = tracker.Toggle(ctx, sess, target.ID, model.VisibilityPublic)
	require.NoError(t, err)
	assert.Equal(t, model.RelationshipNone, state)
	assert.NotContains(t, tracker.Following(), "42")
	assert.Empty(t, api.Following(viewer.ID))
}

func TestIntegration_RapidToggleIsGuarded(t *testing.T) {
	api := fakeapi.New(t)
	f := fixtures.New(api)
	viewer := f.CreateUser(t)
	target := f.CreateUser(t)
	sess := f.Session(t, viewer)

	tracker := service.NewTracker(service.TrackerConfig{API: f.Client(t), Logger: helpers.DiscardLogger()})
	ctx := helpers.Ctx(t)

	release := api.Hold(fakeapi.RouteFollow)
	done := make(chan error, 1)
	go func() {
		_, err := tracker.Toggle(ctx, sess, target.ID, model.VisibilityPublic)
		done <- err
	}()

	require.Eventually(t, func() bool { return tracker.InFlight(target.ID) }, 2*time.Second, 10*time.Millisecond)

	_, err := tracker.Toggle(ctx, sess, target.ID, model.VisibilityPublic)
	assert.ErrorIs(t, err, model.ErrAlreadyInFlight)

	release()
	require.NoError(t, <-done)
	assert.Equal(t, model.RelationshipFollowing, tracker.State(target.ID))
	assert.Equal(t, 1, api.Calls(fakeapi.RouteFollow))
	assert.Equal(t, []string{target.ID}, api.Following(viewer.ID))
}

func TestIntegration_ServerFailureKeepsState(t *testing.T) {
	api := fakeapi.New(t)
	f := fixtures.New(api)
	viewer := f.CreateUser(t)
	target := f.CreateUser(t, fixtures.WithPrivate())
	sess := f.Session(t, viewer)

	tracker := service.NewTracker(service.TrackerConfig{API: f.Client(t), Logger: helpers.DiscardLogger()})
	ctx := helpers.Ctx(t)

	api.FailNext(fakeapi.RouteFollow, http.StatusInternalServerError)
	_, err := tracker.Toggle(ctx, sess, target.ID, model.VisibilityPrivate)
	assert.ErrorIs(t, err, model.ErrActionFailed)
	assert.Equal(t, model.RelationshipNone, tracker.State(target.ID))
	assert.Empty(t, api.PendingFrom(viewer.ID))

	state, err := tracker.Toggle(ctx, sess, target.ID, model.VisibilityPrivate)
	require.NoError(t, err)
	assert.Equal(t, model.RelationshipRequested, state)
}

func TestIntegration_UnauthorizedEndsSession(t *testing.T) {
	api := fakeapi.New(t)
	f := fixtures.New(api)
	viewer := f.CreateUser(t)
	sess := f.Session(t, viewer)

	loader := service.NewUsersLoader(f.Client(t), service.LoaderConfig{Logger: helpers.DiscardLogger()})
	ctx := helpers.Ctx(t)

	api.RevokeTokens()
	_, err := loader.LoadNext(ctx, sess, model.Cursor{})
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
	assert.Equal(t, session.Anonymous, sess.State())

	// Nothing reaches the network once the session is anonymous
	calls := api.Calls(fakeapi.RouteUsers)
	_, err = loader.LoadNext(ctx, sess, model.Cursor{})
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
	assert.Equal(t, calls, api.Calls(fakeapi.RouteUsers))
}

func TestIntegration_ApproveRequest(t *testing.T) {
	api := fakeapi.New(t)
	f := fixtures.New(api)
	owner := f.CreateUser(t, fixtures.WithPrivate())
	fan := f.CreateUser(t)
	reqID := api.AddFollowRequest(fan.ID, owner.ID)
	sess := f.Session(t, owner)

	inbox := service.NewRequestInbox(service.RequestInboxConfig{API: f.Client(t), Logger: helpers.DiscardLogger()})
	ctx := helpers.Ctx(t)

	reqs, err := inbox.Load(ctx, sess)
	require.NoError(t, err)
	require.Len(t, reqs, 1)

	require.NoError(t, inbox.Handle(ctx, sess, reqID, model.RequestActionApprove))
	assert.Empty(t, inbox.Requests())
	assert.Equal(t, 1, inbox.FollowersCount())
	assert.Contains(t, api.Following(fan.ID), owner.ID)
}
