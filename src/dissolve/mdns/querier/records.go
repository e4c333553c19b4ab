package querier

// RecordState describes one cached record's presence and age, the unit
// Record uses for TXT and SRV.
type RecordState struct {
	// Present is true once a record of this type has been observed.
	Present bool

	// ExpiresAt is the monotonic time at which the record's TTL runs out.
	// It is meaningless when Present is false.
	ExpiresAt MonotonicMillis

	// RenewAt is the monotonic time at which the record should be
	// considered due for renewal (typically ExpiresAt minus
	// RenewalThreshold(ttl, DefaultRenewalFraction) before expiry, i.e.
	// half the TTL after it was received). It is meaningless when Present
	// is false.
	RenewAt MonotonicMillis
}

// NeedsRenewal reports whether the record is due for renewal as of now.
func (s RecordState) NeedsRenewal(now MonotonicMillis) bool {
	return s.Present && now >= s.RenewAt
}

// Record is a straightforward in-memory CachedResponse, suitable for a
// simple response cache or for tests. Callers backed by a richer cache
// (e.g. one that also tracks additional/authority records) can instead
// satisfy CachedResponse directly on their own type.
type Record struct {
	Name Labels
	TXT  RecordState
	SRV  RecordState
	Host Labels
	A    RecordState
	AAAA RecordState
}

var _ CachedResponse = (*Record)(nil)

// ServiceName returns the record's name.
func (r *Record) ServiceName() (Labels, bool) {
	if r == nil || r.Name == nil {
		return nil, false
	}
	return r.Name, true
}

// HasTXT reports whether a TXT record is cached.
func (r *Record) HasTXT() bool { return r.TXT.Present }

// HasSRV reports whether an SRV record is cached.
func (r *Record) HasSRV() bool { return r.SRV.Present }

// HasA reports whether an A record is cached.
func (r *Record) HasA() bool { return r.A.Present }

// HasAAAA reports whether an AAAA record is cached.
func (r *Record) HasAAAA() bool { return r.AAAA.Present }

// TXTNeedsRenewal reports whether the cached TXT record is due for
// renewal.
func (r *Record) TXTNeedsRenewal(now MonotonicMillis) bool { return r.TXT.NeedsRenewal(now) }

// SRVNeedsRenewal reports whether the cached SRV record is due for
// renewal.
func (r *Record) SRVNeedsRenewal(now MonotonicMillis) bool { return r.SRV.NeedsRenewal(now) }

// SRVHost returns the cached SRV record's target host.
func (r *Record) SRVHost() (Labels, bool) {
	if r == nil || !r.SRV.Present || r.Host == nil {
		return nil, false
	}
	return r.Host, true
}
