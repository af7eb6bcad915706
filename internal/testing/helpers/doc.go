// Package helpers provides test utilities shared across vidgram packages.
//
// # JWT Helpers
//
// Sign backend-shaped tokens and verify them:
//
//	h := helpers.NewJWTHelper(t)
//	token := h.GenerateToken(t, model.Identity{ID: "u1", Name: "Ana"})
//	decoder := h.Decoder()
//
// # Assertion Helpers
//
//	helpers.AssertErrorIs(t, err, model.ErrAlreadyInFlight)
//	helpers.AssertFieldError(t, err, "email")
//	helpers.AssertIDs(t, loader.Items(), "u1", "u2")
package helpers
