// Package store provides typed single-value-per-type containers used to share
// application-wide and request-scoped data without a predeclared schema.
//
// A store holds at most one value for each distinct Go type. Storing a second
// value of the same type replaces the first one. Use a dedicated named type
// (or a pointer to one) for every piece of data you want to share:
//
//	type DB struct{ pool *pgxpool.Pool }
//
//	data := store.NewShared()
//	store.Set(data, &DB{pool: pool})
//
//	db, ok := store.Get[*DB](data)
//
// # Shared vs Local
//
// Shared is safe for concurrent use: readers never block each other and a
// writer holds the lock only for the duration of the mutation. It is meant for
// process-lifetime data that is written at startup and read by every request.
//
// Local is not synchronized. It is owned by a single in-flight request and is
// written by middlewares and read by downstream middlewares or the handler.
//
// Both types satisfy Store, so the generic Set, Get and Remove functions work
// with either of them. A nil store behaves as an empty one on reads.
package store
