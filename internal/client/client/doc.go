// Package client contains the CLI-side building blocks of couplespace.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) for fetching
//     exports from a remote export server, and its gRPC implementation
//     (GRPCClient) which injects the access token via an interceptor and
//     maps gRPC status codes to sentinel errors.
//  2. The local journal (Journal): an SQLite database with embedded goose
//     migrations, the owner (couple space) id and flat-export import.
//
// # Error Handling
//
// Transport conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable, ErrUnauthorized, ErrInvalidRequest. An
// empty backup window comes back as common.ErrEmptyBackupWindow.
package client
