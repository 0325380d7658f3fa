// Package router implements method-aware path matching on per-method radix
// trees.
//
// Patterns are made of literal text, named captures, regexp captures and an
// optional trailing catch-all:
//
//	/users/{id}
//	/users/{id:[0-9]+}/posts
//	/files/{name}.{ext}
//	/assets/*          // captured as "*"
//	/assets/{*path}    // captured as "path"
//
// At every position static text wins over regexp captures, regexp captures
// over plain captures and captures over the catch-all. When a branch fails
// further down the lookup backtracks to the next candidate.
//
//	r := router.New()
//	if err := r.Get("/users/{id}", showUser); err != nil {
//		return err
//	}
//	r.Freeze()
//
//	h, params, ok := r.Find(http.MethodGet, "/users/42") // params["id"] == "42"
//
// A HEAD lookup falls back to GET when no HEAD route matches. AllowedMethods
// reports which methods match a path so callers can answer with 405 or an
// OPTIONS Allow header.
//
// Registering the same or an overlapping pattern twice for one method fails
// with ErrRouteConflict. After Freeze the table is read-only and safe for
// lock-free concurrent lookups.
package router
