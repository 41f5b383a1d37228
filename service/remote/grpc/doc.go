// Package grpc exposes the remote contract over gRPC.
//
// Messages are the plain Go structs of package remote encoded with a JSON
// codec registered under the "json" content subtype, so both sides only need
// this package. Upgrade is a server streaming call; the server sends response
// headers once the backing stream is established, which lets the client tell
// an establishment failure from a failure in the middle of the stream.
package grpc
