package querier

// Affinity is an explicit "this must run on the owning event loop" check.
//
// Go has no public goroutine-identity API, so unlike a thread-ID comparison
// Affinity is realized as an explicit capability token: the owner picks any
// comparable value when it constructs the Affinity (typically a private,
// unexported type so no other package can forge it) and the same value
// must be presented at the call site. A mismatch is a programming error,
// not a runtime condition a caller can sensibly recover from, so it
// panics.
type Affinity struct {
	token any
}

// NewAffinity returns an Affinity bound to token.
func NewAffinity(token any) *Affinity {
	return &Affinity{token: token}
}

// Assert panics unless token is the same value supplied to NewAffinity.
//
// A nil *Affinity is treated as "no affinity configured" and always
// succeeds, so that wiring it in is optional.
func (a *Affinity) Assert(token any) {
	if a == nil {
		return
	}
	if token != a.token {
		panic("mdns querier: Builder.Call invoked from an unexpected owner; this is a programming error")
	}
}
