package querier

import (
	"net"

	"github.com/dogmatiq/dodeca/logging"
)

// IPv4Group is the multicast group used for mDNS over IPv4.
//
// See https://tools.ietf.org/html/rfc6762#section-3.
var IPv4Group = net.ParseIP("224.0.0.251")

// IPv6Group is the multicast group used for mDNS over IPv6.
//
// See https://tools.ietf.org/html/rfc6762#section-3.
var IPv6Group = net.ParseIP("ff02::fb")

// dispatch sends data to the IPv4 and IPv6 mDNS groups on MDNSPort and
// every port in auxPorts, in that order, selecting the Transport's
// unicast- or multicast-response-request send variant according to
// expectUnicastResponse.
//
// Per-family send failures are logged and ignored; there is no
// retransmission, and a failure on one family never prevents the other
// family (or any other port) from being attempted.
func dispatch(
	transport Transport,
	data []byte,
	auxPorts []int,
	expectUnicastResponse bool,
	policy AddressFamilyPolicy,
	socketKey any,
	logger logging.Logger,
) {
	ports := make([]int, 0, 1+len(auxPorts))
	ports = append(ports, MDNSPort)
	ports = append(ports, auxPorts...)

	for _, port := range ports {
		send(transport, data, &net.UDPAddr{IP: IPv4Group, Port: port}, expectUnicastResponse, policy, socketKey, logger)
		send(transport, data, &net.UDPAddr{IP: IPv6Group, Port: port}, expectUnicastResponse, policy, socketKey, logger)
	}
}

func send(
	transport Transport,
	data []byte,
	dest *net.UDPAddr,
	expectUnicastResponse bool,
	policy AddressFamilyPolicy,
	socketKey any,
	logger logging.Logger,
) {
	pkt := Packet{Data: data, Destination: dest}

	var err error
	if expectUnicastResponse {
		err = transport.SendRequestingUnicastResponse(pkt, policy, socketKey)
	} else {
		err = transport.SendRequestingMulticastResponse(pkt, policy, socketKey)
	}

	if err != nil {
		logging.Log(logger, "mdns querier: failed to send query to %s: %s", dest, err)
	}
}
