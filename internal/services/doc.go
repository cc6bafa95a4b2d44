// Package services implements the client for the recipe backend.
//
// # Capabilities
//
// [RecipeService] is built from two injected capabilities: an [HTTPClient] (anything with Do) and,
// at the call sites, an [Auth] that supplies the user id for user-scoped endpoints.
// A configured token is attached by wrapping the transport with [NewAuthorizedClient],
// which uses an [oauth2.StaticTokenSource] so every request carries a Bearer header.
//
// # Endpoints
//
//	GET /recipe/top/{userId}
//	GET /recipe/user/{userId}/{userId}
//	GET /user/save/{userId}
//	GET /recipe/search/"{escapedQuery}"/{userId}
//	GET /user/{authorId}            (one-element sequence)
//	GET /recipe/{id}/steps/
//	GET /recipe/{id}/ingredients/
//
// Search text is escaped with [EscapeQuery].
//
// # Throttling
//
// Requests pass through a token bucket ([rate.Limiter]) when api.rate_limit is set,
// and each request gets its own deadline from api.request_timeout.
//
// # Error Handling
//
// Every failed call returns an [*APIError] with a Kind:
//   - [NetworkError] : no response (refused, DNS, timeout, cancelled), matches [shared.ErrNetwork]
//   - [NotFound] : status 404 or an empty user lookup, matches [shared.ErrNotFound]
//   - [ServerError] : other non-2xx status or an undecodable body, matches [shared.ErrServer]
//
// [APIService] is a thin raw GET client used by `api get` and health checks.
package services
