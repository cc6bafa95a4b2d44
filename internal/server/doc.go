// Package server provides HTTP routing, middleware and a read-only JSON view of recipe lists.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
// [Middleware] is applied so the first one added runs outermost.
// [LoggingMiddleware] logs every request; [RecoverMiddleware] converts panics into 500 responses.
//
// # Recipe Endpoints
//
// [RecipesHandler] serves:
//   - GET /recipes/{mode} : "top", "personal" or "saved"; any other mode is the top list
//   - GET /search?q= : free-text search; blank text is a 400 and never reaches the backend
//   - GET /health : liveness, with ?deep=1 pinging the backend
//
// Each request builds its own tasks.RecipeList and tasks.RecipeLoader, so concurrent requests never share state.
// Backend error kinds map onto statuses: NotFound is 404, NetworkError and ServerError are 502, timeouts are 504.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
