// Package jwt reads the session tokens issued by the vidgram backend.
//
// The client never issues tokens. It needs the claims of the token it was
// handed so a stored session can be restored without a network call.
//
// # Decoding
//
// Without a public key the decoder only parses the claims:
//
//	d, _ := jwt.NewDecoder(jwt.Config{})
//	claims, err := d.Decode(token)
//	if errors.Is(err, jwt.ErrTokenExpired) {
//	    // stored session is stale
//	}
//
// With JWT_PUBLIC_KEY_PATH set, RS256 signatures are verified as well.
//
// # Claims
//
// The backend puts the user's id, name and email in the token next to the
// registered claims:
//
//	type Claims struct {
//	    UserID string // "id"
//	    Name   string
//	    Email  string
//	    jwt.RegisteredClaims
//	}
package jwt
