// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the ContestHub API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, cfg)

# Endpoints

Service:

	GET /       - Liveness message
	GET /health - Store ping (503 when the store is unreachable)

Tokens:

	POST /jwt - Issue a one hour identity token

Users:

	GET  /users                      - List users (admin)
	POST /users                      - Create user if absent
	PUT  /users/updateRole/{email}   - Change a role (bearer token)

Contests:

	GET    /contest       - List contests, optional ?category=
	GET    /contest/{id}  - Get one contest
	POST   /contest       - Create contest (admin)
	PATCH  /contest/{id}  - Update fields (admin)
	DELETE /contest/{id}  - Delete contest (admin)

# Guards

Routes are declared in a table with their guards. Routes marked admin carry
RequireAuth and RequireAdmin while Config.EnforceAdmin is set and are open
otherwise. The role update route always requires a token, and additionally
an admin when Config.RolePolicy is "admin".
*/
package router
