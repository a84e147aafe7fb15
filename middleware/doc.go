// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware, access guards and helper functions.

# Access Guards

RequireAuth checks the "Authorization: Bearer <token>" header and stores the
verified identity in the request context (401 otherwise). RequireAdmin looks
the identity up in the user store and requires the admin role (403
otherwise). Chain runs guards in order:

	h := middleware.Chain(contestHandler.CreateContest,
		middleware.RequireAuth(tokens),
		middleware.RequireAdmin(store),
	)

	id, ok := middleware.IdentityFrom(r.Context())

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /contest", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms). Each request gets an X-Request-ID, taken from the request or
generated as a UUID, echoed on the response and included in both log lines.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, PATCH, DELETE, OPTIONS with headers
Content-Type, Authorization, X-Request-ID.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.TokenRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

ParseStrictJSONBody additionally rejects unknown fields.

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
