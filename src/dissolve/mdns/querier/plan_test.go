package querier_test

import (
	"time"

	. "github.com/mdnsquery/engine/src/dissolve/mdns/querier"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

const now = MonotonicMillis(1_000_000)

func stale() RecordState  { return RecordState{Present: true, RenewAt: now - 1} }
func fresh() RecordState  { return RecordState{Present: true, RenewAt: now + 1} }
func absent() RecordState { return RecordState{} }

var _ = Describe("Plan", func() {
	It("contributes zero questions for a response with no service name", func() {
		r := &Record{}
		questions := Plan([]CachedResponse{r}, now, false, nil, nil)
		Expect(questions).To(BeEmpty())
	})

	It("returns nothing when there is nothing to resolve and discovery is disabled", func() {
		questions := Plan(nil, now, false, nil, Labels{"_printer", "_tcp"})
		Expect(questions).To(BeEmpty())
	})

	It("emits only a base-type PTR question for pure discovery with no subtypes", func() {
		questions := Plan(nil, now, true, nil, Labels{"_printer", "_tcp"})
		Expect(questions).To(Equal([]Question{
			{Name: Labels{"_printer", "_tcp"}, Type: TypePTR},
		}))
	})

	It("emits the subtype question before the base-type question", func() {
		questions := Plan(nil, now, true, []string{"printer"}, Labels{"_printer", "_tcp"})
		Expect(questions).To(Equal([]Question{
			{Name: Labels{"_printer", "_sub", "_printer", "_tcp"}, Type: TypePTR},
			{Name: Labels{"_printer", "_tcp"}, Type: TypePTR},
		}))
	})

	It("emits discovery questions for every subtype, in order, then the base type", func() {
		questions := Plan(nil, now, true, []string{"universal", "color"}, Labels{"_printer", "_tcp"})
		Expect(questions).To(Equal([]Question{
			{Name: Labels{"_universal", "_sub", "_printer", "_tcp"}, Type: TypePTR},
			{Name: Labels{"_color", "_sub", "_printer", "_tcp"}, Type: TypePTR},
			{Name: Labels{"_printer", "_tcp"}, Type: TypePTR},
		}))
	})

	It("queries ANY when both TXT and SRV need renewal", func() {
		name := Labels{"MyPrinter", "_printer", "_tcp", "local"}
		r := &Record{Name: name, TXT: stale(), SRV: stale()}

		questions := Plan([]CachedResponse{r}, now, false, nil, nil)
		Expect(questions).To(Equal([]Question{
			{Name: name, Type: TypeANY},
		}))
	})

	It("queries ANY when both records are entirely missing", func() {
		name := Labels{"MyPrinter", "_printer", "_tcp", "local"}
		r := &Record{Name: name}

		questions := Plan([]CachedResponse{r}, now, false, nil, nil)
		Expect(questions).To(Equal([]Question{
			{Name: name, Type: TypeANY},
		}))
	})

	It("queries only TXT when SRV is fresh, even if addresses are missing", func() {
		name := Labels{"MyPrinter", "_printer", "_tcp", "local"}
		r := &Record{
			Name: name,
			TXT:  stale(),
			SRV:  fresh(),
			Host: Labels{"printer", "local"},
		}

		questions := Plan([]CachedResponse{r}, now, false, nil, nil)
		Expect(questions).To(Equal([]Question{
			{Name: name, Type: TypeTXT},
		}))
	})

	It("queries only SRV when only SRV needs renewal, never chasing addresses in the same cycle", func() {
		name := Labels{"MyPrinter", "_printer", "_tcp", "local"}
		r := &Record{
			Name: name,
			TXT:  fresh(),
			SRV:  stale(),
		}

		questions := Plan([]CachedResponse{r}, now, false, nil, nil)
		Expect(questions).To(Equal([]Question{
			{Name: name, Type: TypeSRV},
		}))
	})

	It("chases A and AAAA when SRV and TXT are both fresh but addresses are missing", func() {
		name := Labels{"MyPrinter", "_printer", "_tcp", "local"}
		host := Labels{"printer", "local"}
		r := &Record{
			Name: name,
			TXT:  fresh(),
			SRV:  fresh(),
			Host: host,
		}

		questions := Plan([]CachedResponse{r}, now, false, nil, nil)
		Expect(questions).To(Equal([]Question{
			{Name: host, Type: TypeA},
			{Name: host, Type: TypeAAAA},
		}))
	})

	It("emits nothing further once addresses are already cached", func() {
		name := Labels{"MyPrinter", "_printer", "_tcp", "local"}
		r := &Record{
			Name: name,
			TXT:  fresh(),
			SRV:  fresh(),
			Host: Labels{"printer", "local"},
			A:    fresh(),
			AAAA: fresh(),
		}

		questions := Plan([]CachedResponse{r}, now, false, nil, nil)
		Expect(questions).To(BeEmpty())
	})

	It("processes multiple cached responses in input order, skipping unresolvable ones", func() {
		nameless := &Record{}
		first := &Record{Name: Labels{"First", "_printer", "_tcp", "local"}, TXT: stale(), SRV: stale()}
		second := &Record{Name: Labels{"Second", "_printer", "_tcp", "local"}, TXT: stale(), SRV: fresh(), Host: Labels{"second", "local"}}

		questions := Plan([]CachedResponse{nameless, first, second}, now, false, nil, nil)
		Expect(questions).To(Equal([]Question{
			{Name: first.Name, Type: TypeANY},
			{Name: second.Name, Type: TypeTXT},
		}))
	})

	It("appends discovery questions after known-answer renewal questions", func() {
		name := Labels{"MyPrinter", "_printer", "_tcp", "local"}
		r := &Record{Name: name, TXT: stale(), SRV: stale()}

		questions := Plan([]CachedResponse{r}, now, true, []string{"color"}, Labels{"_printer", "_tcp"})
		Expect(questions).To(Equal([]Question{
			{Name: name, Type: TypeANY},
			{Name: Labels{"_color", "_sub", "_printer", "_tcp"}, Type: TypePTR},
			{Name: Labels{"_printer", "_tcp"}, Type: TypePTR},
		}))
	})
})

var _ = Describe("RecordState.NeedsRenewal", func() {
	It("is false when the record is not present", func() {
		Expect(absent().NeedsRenewal(now)).To(BeFalse())
	})

	It("is true once now reaches the renewal time", func() {
		Expect(RecordState{Present: true, RenewAt: now}.NeedsRenewal(now)).To(BeTrue())
	})

	It("is false before the renewal time", func() {
		Expect(fresh().NeedsRenewal(now)).To(BeFalse())
	})
})

var _ = Describe("RenewalThreshold", func() {
	It("scales the TTL by the given fraction", func() {
		Expect(RenewalThreshold(100*time.Millisecond, DefaultRenewalFraction)).To(Equal(50 * time.Millisecond))
	})
})
