// Package cli provides the interactive SwapDiary command-line client.
//
// A session is either a cloud session (register/login against the gRPC
// backend) or a guest session kept in the local SQLite database. The store
// is picked once when the session starts; commands then go through the
// session without knowing which backend serves them.
//
// While a session is open a swap watcher re-resolves today's role every
// SwapCheckInterval and on each list, printing a notice only when the swap
// state flips.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
