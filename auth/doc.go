// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth issues and verifies identity tokens.

# Tokens

Tokens are HS256 JWTs signed with a shared secret:

	tokens := auth.NewTokenService(secret, time.Hour)
	token, err := tokens.Issue(auth.Identity{Email: "a@b.com"})
	id, err := tokens.Verify(token)

Claims carry the identity (email, optional name), sub = email, iat and
exp. Tokens without exp, signed with another algorithm or key, or past
their expiry fail Verify with ErrUnauthorized.

# Bearer Header

	token, err := auth.BearerToken(r.Header.Get("Authorization"))

The scheme is matched case-insensitively.

# Testing

WithClock swaps the time source so expiry can be tested deterministically:

	svc := tokens.WithClock(func() time.Time { return fixed })
*/
package auth
