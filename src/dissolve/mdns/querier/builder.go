package querier

import (
	"strings"

	"github.com/dogmatiq/dodeca/logging"
)

// FlagsQuery is the mDNS query flags word: QR=0, OPCODE=0, and every other
// bit zero, per https://tools.ietf.org/html/rfc6762#section-18.
const FlagsQuery uint16 = 0x0000

// MDNSPort is the standard mDNS port.
//
// See https://tools.ietf.org/html/rfc6762#section-3.
const MDNSPort = 5353

// Option configures a Builder constructed by NewBuilder.
type Option func(*Builder) error

// WithLogger sets the logger used to report encoding failures and
// per-family send failures. logging.DiscardLogger is used if this option
// is never applied.
func WithLogger(l logging.Logger) Option {
	return func(b *Builder) error {
		b.logger = l
		return nil
	}
}

// WithClock sets the Clock used to evaluate renewal predicates.
// SystemClock is used if this option is never applied.
func WithClock(c Clock) Option {
	return func(b *Builder) error {
		b.clock = c
		return nil
	}
}

// WithAuxiliaryPorts sets the non-standard ports (beyond MDNSPort) that the
// dispatcher also sends the query to, in the given order. This is used for
// emulators and other environments that additionally listen for mDNS
// traffic on ports other than 5353; the list is injected configuration
// data, never loaded by this package.
func WithAuxiliaryPorts(ports ...int) Option {
	return func(b *Builder) error {
		b.auxPorts = append([]int(nil), ports...)
		return nil
	}
}

// WithUnicastResponse requests that responders reply via unicast rather
// than multicast, and sets the unicast-response bit on every question.
func WithUnicastResponse() Option {
	return func(b *Builder) error {
		b.expectUnicastResponse = true
		return nil
	}
}

// WithDiscoveryQueries enables emission of the subtype/base-type PTR
// discovery questions described by spec.md §4.3 step 3.
func WithDiscoveryQueries() Option {
	return func(b *Builder) error {
		b.sendDiscoveryQueries = true
		return nil
	}
}

// WithSubtypes sets the subtype names to discover. Each subtype name is a
// bare, user-visible name (e.g. "printer"), not yet prefixed with the
// leading underscore the wire label requires; Plan adds that prefix.
func WithSubtypes(subtypes ...string) Option {
	return func(b *Builder) error {
		b.subtypes = append([]string(nil), subtypes...)
		return nil
	}
}

// WithCachedResponses sets the services whose known-answer records should
// be considered for renewal.
func WithCachedResponses(responses ...CachedResponse) Option {
	return func(b *Builder) error {
		b.responses = append([]CachedResponse(nil), responses...)
		return nil
	}
}

// WithAddressFamilyPolicy sets the policy forwarded verbatim to the
// Transport.
func WithAddressFamilyPolicy(policy AddressFamilyPolicy) Option {
	return func(b *Builder) error {
		b.policy = policy
		return nil
	}
}

// WithSocketKey sets the opaque identifier passed through to the
// Transport, for multi-network transports that multiplex several sockets
// behind one Transport value.
func WithSocketKey(key any) Option {
	return func(b *Builder) error {
		b.socketKey = key
		return nil
	}
}

// WithAffinity requires that Call be invoked with the same token supplied
// here, aborting the program otherwise. This is the "ensure-on-handler-
// thread" check of spec.md §5; it is optional.
func WithAffinity(a *Affinity) Option {
	return func(b *Builder) error {
		b.affinity = a
		return nil
	}
}

// WithMaxPacketSize overrides the packet size ceiling the underlying
// Writer enforces. DefaultMaxPacketSize is used if this option is never
// applied.
func WithMaxPacketSize(n int) Option {
	return func(b *Builder) error {
		b.maxPacketSize = n
		return nil
	}
}

// Builder orchestrates the question planner and packet writer to produce a
// finished mDNS query, then dispatches it via a Transport.
//
// A Builder is single-use: construct it with NewBuilder, call Call exactly
// once, and discard it. The Writer it owns exclusively belongs to this
// Builder and is never shared.
type Builder struct {
	transport   TransportRef
	serviceType Labels
	txID        uint16

	logger                 logging.Logger
	clock                  Clock
	auxPorts               []int
	expectUnicastResponse  bool
	sendDiscoveryQueries   bool
	subtypes               []string
	responses              []CachedResponse
	policy                 AddressFamilyPolicy
	socketKey              any
	affinity               *Affinity
	maxPacketSize          int

	called bool
}

// NewBuilder returns a Builder that will query serviceType (a dot-
// separated DNS-SD service type, e.g. "_printer._tcp") using txID as the
// transaction ID, sending via transport.
func NewBuilder(transport TransportRef, serviceType string, txID uint16, opts ...Option) (*Builder, error) {
	b := &Builder{
		transport:   transport,
		serviceType: SplitServiceType(serviceType),
		txID:        txID,
		logger:      logging.DiscardLogger,
		clock:       SystemClock,
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// Call plans, encodes, and dispatches the query exactly once.
//
// It returns the transaction ID that was used, a copy of the configured
// subtypes (whether or not discovery questions were enabled), and
// ok == true, unless no packet
// was emitted - in which case ok is false and the other two results are
// the zero value. A packet is not emitted when: the transport has already
// been released, the planner produced no questions, or encoding the
// packet overflowed its buffer. token must equal whatever value was given
// to WithAffinity, if that option was used.
func (b *Builder) Call(token any) (txID uint16, subtypesIncluded []string, ok bool) {
	b.affinity.Assert(token)

	if b.called {
		logging.Log(b.logger, "mdns querier: Call invoked more than once on the same Builder for %s; ignoring", b.serviceType)
		return 0, nil, false
	}
	b.called = true

	transport, alive := b.transport.Get()
	if !alive {
		return 0, nil, false
	}

	now := b.clock.Now()
	questions := Plan(b.responses, now, b.sendDiscoveryQueries, b.subtypes, b.serviceType)
	if len(questions) == 0 {
		return 0, nil, false
	}

	data, err := b.encode(questions)
	if err != nil {
		logging.Log(
			b.logger,
			"mdns querier: failed to encode query for %s (subtypes: %s): %s",
			b.serviceType, strings.Join(b.subtypes, ","), err,
		)
		return 0, nil, false
	}

	dispatch(transport, data, b.auxPorts, b.expectUnicastResponse, b.policy, b.socketKey, b.logger)

	subtypesIncluded = append([]string(nil), b.subtypes...)
	return b.txID, subtypesIncluded, true
}

// encode writes the header and every question to a fresh Writer and
// returns the resulting bytes.
func (b *Builder) encode(questions []Question) ([]byte, error) {
	w := NewWriter(b.maxPacketSize)

	// Header: ID, flags, QDCOUNT, ANCOUNT, NSCOUNT, ARCOUNT.
	if err := w.WriteUint16(b.txID); err != nil {
		return nil, err
	}
	if err := w.WriteUint16(FlagsQuery); err != nil {
		return nil, err
	}
	if err := w.WriteUint16(uint16(len(questions))); err != nil {
		return nil, err
	}
	if err := w.WriteUint16(0); err != nil { // ANCOUNT
		return nil, err
	}
	if err := w.WriteUint16(0); err != nil { // NSCOUNT
		return nil, err
	}
	if err := w.WriteUint16(0); err != nil { // ARCOUNT
		return nil, err
	}

	qclass := ClassIN
	if b.expectUnicastResponse {
		qclass |= UnicastResponseBit
	}

	for _, q := range questions {
		if err := w.WriteLabels(q.Name); err != nil {
			return nil, err
		}
		if err := w.WriteUint16(q.Type); err != nil {
			return nil, err
		}
		if err := w.WriteUint16(qclass); err != nil {
			return nil, err
		}
	}

	return w.Packet(nil).Data, nil
}
