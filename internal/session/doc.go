// Package session holds the signed-in identity of the vidgram client.
//
// A Session is an explicit object with a defined lifecycle. It is passed to
// every loader, tracker and service call rather than living in a global.
//
// # State Machine
//
//	Anonymous --Login--> Authenticated --Logout / Expire (401)--> Anonymous
//
// There is no intermediate "logging in" state: Login either persists the
// token and publishes the identity, or fails and leaves the session as it was.
//
// # Call-time Token Reads
//
// BearerToken and Identity read the current state on every call. A request
// started after Logout fails with model.ErrUnauthenticated instead of
// reusing a token captured earlier.
//
// # Persistence
//
// The token is kept in a TokenStore (file, SurrealDB, Redis or memory; see
// internal/repository). Restore reads it back at startup and recovers the
// identity from the token's claims.
package session
