package querier

import "weak"

// Transport is the multicast socket client layer the querier sends
// datagrams through. It is an external collaborator (spec.md §1): this
// package only depends on the interface, never on a concrete socket
// implementation. See the querier/udptransport package for a reference
// implementation built on golang.org/x/net.
type Transport interface {
	// SendRequestingUnicastResponse sends pkt, asking the responder(s) to
	// reply via unicast rather than to the multicast group.
	SendRequestingUnicastResponse(pkt Packet, policy AddressFamilyPolicy, socketKey any) error

	// SendRequestingMulticastResponse sends pkt, asking the responder(s) to
	// reply to the multicast group as usual.
	SendRequestingMulticastResponse(pkt Packet, policy AddressFamilyPolicy, socketKey any) error
}

// AddressFamilyPolicy is forwarded to the Transport verbatim; the querier
// never interprets it itself.
type AddressFamilyPolicy struct {
	// OnlyUseIPv6OnIPv6OnlyNetworks restricts IPv6 sends to networks that
	// have no usable IPv4 connectivity, leaving dual-stack and IPv4-only
	// networks to query over IPv4 alone.
	OnlyUseIPv6OnIPv6OnlyNetworks bool
}

// transportBox is the strong allocation a TransportRef weakly observes.
// Transport is an interface value, which weak.Pointer cannot wrap directly
// (it has no address of its own), so it is boxed in a tiny struct.
type transportBox struct {
	transport Transport
}

// TransportRef is a weakly-held handle to a Transport.
//
// It expresses "the querier is a client of a long-lived transport owned
// elsewhere; if the transport has been released, silently drop this
// build" (spec.md §9). The owner keeps the box returned by NewTransportRef
// alive for as long as the transport should remain usable; once the owner
// drops that reference and it is collected, Get reports the transport as
// gone.
type TransportRef struct {
	box weak.Pointer[transportBox]
}

// NewTransportRef returns a TransportRef observing t, and the strong handle
// the caller must retain to keep the transport alive.
func NewTransportRef(t Transport) (TransportRef, *transportBox) {
	box := &transportBox{transport: t}
	return TransportRef{box: weak.Make(box)}, box
}

// Get upgrades the weak reference. It returns false if the transport has
// already been released.
func (r TransportRef) Get() (Transport, bool) {
	box := r.box.Value()
	if box == nil {
		return nil, false
	}
	return box.transport, true
}
