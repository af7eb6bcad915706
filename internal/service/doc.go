// Package service holds the client-side state and rules of vidgram.
//
// Services talk to the backend through small interfaces declared here
// (CollectionAPI, RelationshipAPI, FollowRequestAPI, ...), which
// *client.Client satisfies. Every call takes the Session and reads the
// bearer token from it at the moment the request is made.
//
// # Collections
//
// A Loader pages through one collection with a fixed page size and merges
// pages by id, keeping first-seen order:
//
//	users := service.NewUsersLoader(api, service.LoaderConfig{PageSize: 6})
//	res, err := users.LoadNext(ctx, sess, users.Cursor())
//
// # Relationships
//
// The Tracker keeps the viewer's followed and requested sets. Toggle only
// changes them after the server confirms:
//
//	state, err := tracker.Toggle(ctx, sess, targetID, model.VisibilityPrivate)
//
// # Errors
//
// Errors wrap the sentinels in the model package, so callers branch with
// errors.Is on model.ErrUnauthenticated, model.ErrLoadFailed,
// model.ErrActionFailed, model.ErrAlreadyInFlight or
// model.ErrValidationFailed. A 401 from the backend also expires the session.
package service
