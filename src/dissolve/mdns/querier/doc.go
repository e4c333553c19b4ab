// Package querier builds Multicast DNS query packets for service discovery
// and known-answer renewal, and dispatches them to the standard mDNS
// endpoints (and any configured auxiliary ports) on both address families.
//
// It does not parse responses, cache records, or decide when a query
// should be sent; those are the responsibility of collaborators supplying
// a CachedResponse view and invoking Builder.Call at the appropriate time.
//
// See https://tools.ietf.org/html/rfc6762 and
// https://tools.ietf.org/html/rfc6763.
package querier
