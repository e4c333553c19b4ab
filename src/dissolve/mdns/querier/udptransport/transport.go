package udptransport

import (
	"errors"
	"net"

	"github.com/dogmatiq/dodeca/logging"
	ipv4x "golang.org/x/net/ipv4"
	ipv6x "golang.org/x/net/ipv6"
	"golang.org/x/sync/errgroup"

	"github.com/mdnsquery/engine/src/dissolve/mdns/querier"
)

// ListenAddressV4 is the address the IPv4 socket binds to. As with the
// legacy dissolve/mdns/transport package, this is deliberately not the
// multicast group address itself, so the set of interfaces that join the
// group can be controlled explicitly.
var ListenAddressV4 = &net.UDPAddr{IP: net.ParseIP("224.0.0.0"), Port: querier.MDNSPort}

// ListenAddressV6 is the address the IPv6 socket binds to.
var ListenAddressV6 = &net.UDPAddr{IP: net.ParseIP("ff02::"), Port: querier.MDNSPort}

// ErrNoDestination is returned when asked to send a Packet with a nil
// Destination.
var ErrNoDestination = errors.New("mdns udptransport: packet has no destination")

// Option configures a Transport constructed by New.
type Option func(*Transport) error

// WithLogger sets the logger used to report per-interface multicast group
// join failures; send failures are returned to the caller, not logged.
// logging.DiscardLogger is used if this option is never applied.
func WithLogger(l logging.Logger) Option {
	return func(t *Transport) error {
		t.logger = l
		return nil
	}
}

// WithInterfaces overrides the set of interfaces the transport joins the
// multicast groups on. Every multicast-capable interface is used if this
// option is never applied.
func WithInterfaces(ifaces ...net.Interface) Option {
	return func(t *Transport) error {
		t.ifaces = append([]net.Interface(nil), ifaces...)
		return nil
	}
}

// WithoutIPv4 disables the IPv4 socket entirely.
func WithoutIPv4() Option {
	return func(t *Transport) error {
		t.disableV4 = true
		return nil
	}
}

// WithoutIPv6 disables the IPv6 socket entirely.
func WithoutIPv6() Option {
	return func(t *Transport) error {
		t.disableV6 = true
		return nil
	}
}

// Transport is a querier.Transport backed by one IPv4 and one IPv6
// multicast UDP socket, each joined on every interface it was configured
// with.
//
// The unicast- and multicast-response-requesting sends are handled
// identically here: the distinction the spec cares about is already baked
// into the packet's qclass bit by the time it reaches Send, so this
// reference transport always writes to pkt.Destination over whichever
// address family matches it. A transport backing onto a one-shot legacy
// resolver's ephemeral reply socket would be the place to actually
// differentiate the two.
//
// The AddressFamilyPolicy and socket key passed to either send method are
// not consulted: every packet is written over the socket matching its
// destination's address family, on every configured interface.
type Transport struct {
	logger    logging.Logger
	ifaces    []net.Interface
	disableV4 bool
	disableV6 bool

	pc4 *ipv4x.PacketConn
	pc6 *ipv6x.PacketConn
}

var _ querier.Transport = (*Transport)(nil)

// New opens the configured sockets and joins the mDNS multicast groups on
// every configured interface (or every multicast-capable interface, if
// WithInterfaces was never applied). At least one address family must
// remain enabled.
func New(opts ...Option) (*Transport, error) {
	t := &Transport{logger: logging.DiscardLogger}

	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}

	if t.disableV4 && t.disableV6 {
		return nil, errors.New("mdns udptransport: both IPv4 and IPv6 are disabled")
	}

	if t.ifaces == nil {
		ifaces, err := multicastInterfaces()
		if err != nil {
			return nil, err
		}
		t.ifaces = ifaces
	}

	var g errgroup.Group

	if !t.disableV4 {
		g.Go(func() error {
			pc, err := listenV4(t.ifaces, t.logger)
			if err != nil {
				return err
			}
			t.pc4 = pc
			return nil
		})
	}

	if !t.disableV6 {
		g.Go(func() error {
			pc, err := listenV6(t.ifaces, t.logger)
			if err != nil {
				return err
			}
			t.pc6 = pc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if t.pc4 != nil {
			t.pc4.Close()
		}
		if t.pc6 != nil {
			t.pc6.Close()
		}
		return nil, err
	}

	return t, nil
}

func listenV4(ifaces []net.Interface, logger logging.Logger) (*ipv4x.PacketConn, error) {
	conn, err := net.ListenUDP("udp4", ListenAddressV4)
	if err != nil {
		return nil, err
	}

	pc := ipv4x.NewPacketConn(conn)
	pc.SetControlMessage(ipv4x.FlagInterface, true)

	if err := joinAll(pc, querier.IPv4Group, ifaces, logger); err != nil {
		pc.Close()
		return nil, err
	}

	return pc, nil
}

func listenV6(ifaces []net.Interface, logger logging.Logger) (*ipv6x.PacketConn, error) {
	conn, err := net.ListenUDP("udp6", ListenAddressV6)
	if err != nil {
		return nil, err
	}

	pc := ipv6x.NewPacketConn(conn)
	pc.SetControlMessage(ipv6x.FlagInterface, true)

	if err := joinAll(pc, querier.IPv6Group, ifaces, logger); err != nil {
		pc.Close()
		return nil, err
	}

	return pc, nil
}

// groupJoiner is satisfied by both *ipv4.PacketConn and *ipv6.PacketConn.
type groupJoiner interface {
	JoinGroup(*net.Interface, net.Addr) error
}

// joinAll joins group on every interface in ifaces, succeeding as long as
// at least one interface joins.
func joinAll(pc groupJoiner, group net.IP, ifaces []net.Interface, logger logging.Logger) error {
	addr := &net.UDPAddr{IP: group}
	joined := 0

	for _, iface := range ifaces {
		iface := iface
		if err := pc.JoinGroup(&iface, addr); err != nil {
			logging.Debug(
				logger,
				"mdns udptransport: unable to join %s on interface %s: %s",
				group, iface.Name, err,
			)
			continue
		}
		joined++
	}

	if joined == 0 {
		return errors.New("mdns udptransport: unable to join the multicast group on any interface")
	}

	return nil
}

// SendRequestingUnicastResponse implements querier.Transport.
func (t *Transport) SendRequestingUnicastResponse(pkt querier.Packet, policy querier.AddressFamilyPolicy, socketKey any) error {
	return t.send(pkt)
}

// SendRequestingMulticastResponse implements querier.Transport.
func (t *Transport) SendRequestingMulticastResponse(pkt querier.Packet, policy querier.AddressFamilyPolicy, socketKey any) error {
	return t.send(pkt)
}

func (t *Transport) send(pkt querier.Packet) error {
	if pkt.Destination == nil {
		return ErrNoDestination
	}

	if isIPv4(pkt.Destination.IP) {
		if t.pc4 == nil {
			return nil
		}
		return t.sendV4(pkt)
	}

	if t.pc6 == nil {
		return nil
	}
	return t.sendV6(pkt)
}

func (t *Transport) sendV4(pkt querier.Packet) error {
	var firstErr error
	for _, iface := range t.ifaces {
		_, err := t.pc4.WriteTo(pkt.Data, &ipv4x.ControlMessage{IfIndex: iface.Index}, pkt.Destination)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *Transport) sendV6(pkt querier.Packet) error {
	var firstErr error
	for _, iface := range t.ifaces {
		_, err := t.pc6.WriteTo(pkt.Data, &ipv6x.ControlMessage{IfIndex: iface.Index}, pkt.Destination)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// isIPv4 reports whether ip is (or can be represented as) an IPv4 address.
func isIPv4(ip net.IP) bool {
	return ip.To4() != nil
}

// Close closes both underlying sockets. It is safe to call even if New
// disabled one of the address families.
func (t *Transport) Close() error {
	var firstErr error
	if t.pc4 != nil {
		if err := t.pc4.Close(); err != nil {
			firstErr = err
		}
	}
	if t.pc6 != nil {
		if err := t.pc6.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
