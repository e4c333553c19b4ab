// Package udptransport is a reference implementation of querier.Transport
// built directly on UDP multicast sockets, adapted from the IPv4/IPv6
// packet-conn handling in the dissolve mdns/transport package.
//
// It is not itself part of the question-building engine; it exists to give
// the querier package something real to dispatch through outside of tests.
// A production caller is free to supply any other querier.Transport
// implementation instead (one layered over an existing response-listening
// socket, for instance, so queries and responses share one file descriptor
// per address family).
package udptransport
