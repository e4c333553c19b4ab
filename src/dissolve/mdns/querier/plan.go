package querier

import "time"

// DefaultRenewalFraction is the fraction of a record's original TTL after
// which it is considered due for renewal, per the baseline recommendation
// of RFC 6762 §5.2.
const DefaultRenewalFraction = 0.5

// RenewalThreshold returns how far into a record's TTL a querier should
// wait before re-querying it, given fraction of the TTL (DefaultRenewalFraction
// for the simple 50% policy, or one of 0.80/0.85/0.90/0.95 to build the
// staggered re-query schedule RFC 6762 §5.2 recommends for cache
// maintenance).
func RenewalThreshold(ttl time.Duration, fraction float64) time.Duration {
	return time.Duration(float64(ttl) * fraction)
}

// CachedResponse is a read-only view of a previously-seen mDNS response for
// one service instance, as maintained by the (out-of-scope) response cache.
// The planner never mutates a CachedResponse.
type CachedResponse interface {
	// ServiceName returns the service instance's name, if known.
	ServiceName() (Labels, bool)

	// HasTXT, HasSRV, HasA, HasAAAA report whether a record of that type is
	// currently cached for this instance.
	HasTXT() bool
	HasSRV() bool
	HasA() bool
	HasAAAA() bool

	// TXTNeedsRenewal reports whether the cached TXT record's remaining TTL
	// has fallen below the renewal threshold as of now. It is only
	// consulted when HasTXT is true.
	TXTNeedsRenewal(now MonotonicMillis) bool

	// SRVNeedsRenewal reports whether the cached SRV record's remaining TTL
	// has fallen below the renewal threshold as of now. It is only
	// consulted when HasSRV is true.
	SRVNeedsRenewal(now MonotonicMillis) bool

	// SRVHost returns the target host labels from the cached SRV record, if
	// one is cached.
	SRVHost() (Labels, bool)
}

// Plan computes the ordered question list for one query, following spec.md
// §4.3's deterministic single pass:
//
//  1. For each cached response with a known service name, renew TXT and/or
//     SRV if either is missing or stale; if both need renewal, a single
//     ANY question is emitted instead of two separate ones, so a responder
//     can answer both in one packet (RFC 6763 §12). If only one of the two
//     needs renewal, exactly that record type is queried and nothing else:
//     chasing A/AAAA records is deferred to the next planning cycle,
//     because while SRV is being (re-)resolved the target host may not yet
//     be known. Address records are only chased when the response needs no
//     other question this cycle - i.e. SRV is present and fresh - and both
//     A and AAAA are still missing.
//  2. If sendDiscoveryQueries is true, a PTR question is appended for every
//     subtype (as ["_"+subtype, "_sub", serviceType...]), followed by one
//     PTR question for the base service type itself.
//
// responses with no service name contribute no questions at all.
func Plan(
	responses []CachedResponse,
	now MonotonicMillis,
	sendDiscoveryQueries bool,
	subtypes []string,
	serviceType Labels,
) []Question {
	var questions []Question

	for _, r := range responses {
		name, ok := r.ServiceName()
		if !ok {
			continue
		}

		renewTXT := !r.HasTXT() || r.TXTNeedsRenewal(now)
		renewSRV := !r.HasSRV() || r.SRVNeedsRenewal(now)

		switch {
		case renewSRV && renewTXT:
			questions = append(questions, Question{Name: name, Type: TypeANY})

		case renewTXT:
			questions = append(questions, Question{Name: name, Type: TypeTXT})

		case renewSRV:
			// Do NOT emit address questions here: the host may still be
			// unknown until this SRV query resolves. They're chased on the
			// next planning cycle instead.
			questions = append(questions, Question{Name: name, Type: TypeSRV})

		case r.HasSRV() && !r.HasA() && !r.HasAAAA():
			if host, ok := r.SRVHost(); ok {
				questions = append(questions, Question{Name: host, Type: TypeA})
				questions = append(questions, Question{Name: host, Type: TypeAAAA})
			}
		}
	}

	if sendDiscoveryQueries {
		for _, subtype := range subtypes {
			labels := make(Labels, 0, len(serviceType)+2)
			labels = append(labels, Label("_"+subtype), subLabel)
			labels = append(labels, serviceType...)
			questions = append(questions, Question{Name: labels, Type: TypePTR})
		}
		questions = append(questions, Question{Name: serviceType, Type: TypePTR})
	}

	return questions
}
