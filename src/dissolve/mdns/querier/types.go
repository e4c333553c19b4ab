package querier

import "strings"

// Record type values from the DNS enumeration, as referenced by the
// question planner.
const (
	TypeA    uint16 = 1
	TypePTR  uint16 = 12
	TypeTXT  uint16 = 16
	TypeAAAA uint16 = 28
	TypeSRV  uint16 = 33
	TypeANY  uint16 = 255
)

// ClassIN is the DNS "Internet" class.
const ClassIN uint16 = 1

// UnicastResponseBit is the top bit of the qclass field, requesting that the
// responder reply to the querier's unicast address rather than the
// multicast group.
//
// See https://tools.ietf.org/html/rfc6762#section-18.12.
const UnicastResponseBit uint16 = 1 << 15

// subLabel is the RFC 6763 §7.1 subtype indicator label.
const subLabel Label = "_sub"

// Label is a single DNS label: 1-63 bytes of opaque data that do not
// themselves contain a length prefix or terminator.
type Label string

// Labels is an ordered sequence of labels forming a (possibly partial) DNS
// name, most-specific label first, with no trailing root label.
type Labels []Label

// String renders the labels dot-joined, for logging and error messages
// only; it is never used to drive wire encoding.
func (l Labels) String() string {
	parts := make([]string, len(l))
	for i, label := range l {
		parts[i] = string(label)
	}
	return strings.Join(parts, ".")
}

// SplitServiceType splits a dot-separated service type string (e.g.
// "_printer._tcp") into its component labels.
//
// An empty string produces an empty Labels slice; WriteLabels rejects that
// at encode time (spec error kind 5, "malformed service-type string").
func SplitServiceType(serviceType string) Labels {
	if serviceType == "" {
		return nil
	}
	parts := strings.Split(serviceType, ".")
	labels := make(Labels, len(parts))
	for i, p := range parts {
		labels[i] = Label(p)
	}
	return labels
}

// Question is a single (name, type) entry in a query plan, eventually
// written to the wire as a question record with class IN (optionally
// unicast-response-flagged).
type Question struct {
	Name Labels
	Type uint16
}
