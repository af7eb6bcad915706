// Package model defines the domain types shared by the vidgram client.
//
// The package holds the entities the client exchanges with the backend,
// the request types that validate themselves before any network call, and
// the error taxonomy every other layer reports in.
//
// # Domain Entities
//
//   - Identity: the signed-in user and its bearer token
//   - CollectionItem: one user in a paged collection
//   - ProfileRecord: a user's full profile, with ViewFor applying privacy rules
//   - FollowRequest: an incoming request on a private owner's inbox
//   - Post: a video post in the feed
//
// # Validation
//
// Request types expose Validate() []FieldError. Struct rules are declared
// with go-playground/validator tags; field names in errors use the form tag,
// which matches the backend's multipart field names:
//
//	req := &model.RegisterRequest{Name: "Al"}
//	if errs := req.Validate(); len(errs) > 0 {
//	    return model.NewValidationError(errs)
//	}
//
// # Error Taxonomy
//
// Five sentinel errors classify every failure:
//
//   - ErrUnauthenticated: missing, cleared or expired token
//   - ErrLoadFailed: page fetch failed, retry is safe
//   - ErrActionFailed: the server rejected a mutation
//   - ErrAlreadyInFlight: duplicate action while one is pending
//   - ErrValidationFailed: client-side checks failed
//
// ValidationError unwraps to ErrValidationFailed, and an APIError with
// status 401 unwraps to ErrUnauthenticated.
package model
