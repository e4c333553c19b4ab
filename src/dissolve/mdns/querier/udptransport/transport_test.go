package udptransport

import (
	"errors"
	"net"

	"github.com/dogmatiq/dodeca/logging"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/mdnsquery/engine/src/dissolve/mdns/querier"
)

type fakeJoiner struct {
	failNames map[string]bool
}

func (f *fakeJoiner) JoinGroup(iface *net.Interface, _ net.Addr) error {
	if f.failNames[iface.Name] {
		return errors.New("join failed")
	}
	return nil
}

var _ = Describe("isIPv4", func() {
	It("reports true for IPv4 addresses, including IPv4 multicast groups", func() {
		Expect(isIPv4(net.ParseIP("224.0.0.251"))).To(BeTrue())
		Expect(isIPv4(net.ParseIP("192.168.1.1"))).To(BeTrue())
	})

	It("reports false for IPv6 addresses", func() {
		Expect(isIPv4(net.ParseIP("ff02::fb"))).To(BeFalse())
		Expect(isIPv4(net.ParseIP("::1"))).To(BeFalse())
	})
})

var _ = Describe("joinAll", func() {
	It("succeeds if any interface joins", func() {
		joiner := &fakeJoiner{failNames: map[string]bool{"eth0": true}}
		ifaces := []net.Interface{{Name: "eth0"}, {Name: "eth1"}}

		Expect(joinAll(joiner, net.ParseIP("224.0.0.251"), ifaces, logging.DiscardLogger)).To(Succeed())
	})

	It("fails if every interface fails", func() {
		joiner := &fakeJoiner{failNames: map[string]bool{"eth0": true, "eth1": true}}
		ifaces := []net.Interface{{Name: "eth0"}, {Name: "eth1"}}

		Expect(joinAll(joiner, net.ParseIP("224.0.0.251"), ifaces, logging.DiscardLogger)).NotTo(Succeed())
	})
})

var _ = Describe("New", func() {
	It("rejects disabling both address families", func() {
		_, err := New(WithoutIPv4(), WithoutIPv6())
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Transport.send", func() {
	It("reports ErrNoDestination when the packet has no destination", func() {
		tr := &Transport{}
		Expect(tr.send(querier.Packet{})).To(MatchError(ErrNoDestination))
	})
})
