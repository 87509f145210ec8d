// Package client talks to the SwapDiary backend over gRPC.
//
// GRPCClient keeps the session's tokens, attaches the access token to every
// call through a unary interceptor and transparently refreshes it once when
// the server reports it expired. Failures come back as the common sentinel
// errors, so callers match them with errors.Is.
//
// RemoteStore adapts a Client to diary.Store for a cloud session.
package client
