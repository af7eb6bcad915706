package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/forgo/vidgram/internal/model"
)

func setupInbox(t *testing.T) (*RequestInbox, *mockFollowRequestAPI, *mockSession) {
	t.Helper()
	api := &mockFollowRequestAPI{
		requests: []model.FollowRequest{
			{ID: "r1", Username: "Fan One"},
			{ID: "r2", Username: "Fan Two"},
		},
	}
	inbox := NewRequestInbox(RequestInboxConfig{API: api})
	inbox.SetFollowersCount(10)
	return inbox, api, newMockSession("owner")
}

func TestRequestInbox_Load(t *testing.T) {
	inbox, _, sess := setupInbox(t)

	reqs, err := inbox.Load(context.Background(), sess)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reqs) != 2 || reqs[0].ID != "r1" {
		t.Errorf("unexpected requests: %+v", reqs)
	}
}

func TestRequestInbox_LoadFailure(t *testing.T) {
	inbox, api, sess := setupInbox(t)
	api.loadErr = apiError(http.StatusInternalServerError)

	_, err := inbox.Load(context.Background(), sess)
	if !errors.Is(err, model.ErrLoadFailed) {
		t.Errorf("expected ErrLoadFailed, got %v", err)
	}
}

func TestRequestInbox_Approve(t *testing.T) {
	inbox, api, sess := setupInbox(t)
	ctx := context.Background()
	if _, err := inbox.Load(ctx, sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := inbox.Handle(ctx, sess, "r1", model.RequestActionApprove); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := inbox.Requests(); len(got) != 1 || got[0].ID != "r2" {
		t.Errorf("expected only r2 to remain, got %+v", got)
	}
	if inbox.FollowersCount() != 11 {
		t.Errorf("expected followers count 11, got %d", inbox.FollowersCount())
	}
	if api.owners[0] != "owner" || api.actions[0] != model.RequestActionApprove {
		t.Errorf("unexpected call: owner=%s action=%s", api.owners[0], api.actions[0])
	}
}

func TestRequestInbox_Reject(t *testing.T) {
	inbox, _, sess := setupInbox(t)
	ctx := context.Background()
	if _, err := inbox.Load(ctx, sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := inbox.Handle(ctx, sess, "r2", model.RequestActionReject); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := inbox.Requests(); len(got) != 1 || got[0].ID != "r1" {
		t.Errorf("expected only r1 to remain, got %+v", got)
	}
	if inbox.FollowersCount() != 10 {
		t.Errorf("reject must not change followers count, got %d", inbox.FollowersCount())
	}
}

func TestRequestInbox_FailureKeepsRequest(t *testing.T) {
	inbox, api, sess := setupInbox(t)
	ctx := context.Background()
	if _, err := inbox.Load(ctx, sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	api.handleErr = apiError(http.StatusInternalServerError)

	err := inbox.Handle(ctx, sess, "r1", model.RequestActionApprove)
	if !errors.Is(err, model.ErrActionFailed) {
		t.Fatalf("expected ErrActionFailed, got %v", err)
	}
	if len(inbox.Requests()) != 2 || inbox.FollowersCount() != 10 {
		t.Errorf("expected no change after failure")
	}
}

func TestRequestInbox_InFlightGuard(t *testing.T) {
	inbox, api, sess := setupInbox(t)
	api.gate = newGate()
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		done <- inbox.Handle(ctx, sess, "r1", model.RequestActionApprove)
	}()
	<-api.gate.started

	err := inbox.Handle(ctx, sess, "r1", model.RequestActionReject)
	if !errors.Is(err, model.ErrAlreadyInFlight) {
		t.Errorf("expected ErrAlreadyInFlight, got %v", err)
	}

	close(api.gate.release)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(api.handled) != 1 {
		t.Errorf("expected one call, got %d", len(api.handled))
	}
}

func TestRequestInbox_Validation(t *testing.T) {
	inbox, api, sess := setupInbox(t)
	ctx := context.Background()

	if err := inbox.Handle(ctx, sess, "", model.RequestActionApprove); !errors.Is(err, model.ErrValidationFailed) {
		t.Errorf("empty id: expected validation failure, got %v", err)
	}
	if err := inbox.Handle(ctx, sess, "r1", "maybe"); !errors.Is(err, ErrInvalidRequestAction) {
		t.Errorf("bad action: expected ErrInvalidRequestAction, got %v", err)
	}
	if err := inbox.Handle(ctx, newAnonymousSession(), "r1", model.RequestActionApprove); !errors.Is(err, model.ErrUnauthenticated) {
		t.Errorf("anonymous: expected ErrUnauthenticated, got %v", err)
	}
	if len(api.handled) != 0 {
		t.Errorf("expected no calls, got %d", len(api.handled))
	}
}
