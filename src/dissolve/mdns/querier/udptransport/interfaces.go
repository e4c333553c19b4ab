package udptransport

import (
	"errors"
	"net"
)

// multicastInterfaces returns every network interface that is up and
// supports multicast.
func multicastInterfaces() ([]net.Interface, error) {
	candidates, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	const flags = net.FlagUp | net.FlagMulticast

	var matches []net.Interface
	for _, i := range candidates {
		if i.Flags&flags == flags {
			matches = append(matches, i)
		}
	}

	if len(matches) == 0 {
		return nil, errors.New("mdns udptransport: no multicast-capable interfaces available")
	}

	return matches, nil
}
