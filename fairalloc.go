package gosim

import "math"

// FairAllocState is the per-requester debt a FairAlloc round carries
// forward: fractional allocation owed from rounding down in previous
// rounds, so that over many rounds every requester gets its fair share on
// average even though each round only hands out whole units.
type FairAllocState struct {
	debt float64
}

// FairAlloc divides a fixed integer capacity among requesters proportional
// to their request size, carrying fractional remainders as debt so
// repeated rounds converge to the exact proportional share instead of
// systematically favoring whoever happens to round up. Used by the CLI's
// diagnostic dump scheduler to decide, under a per-tick disk-write budget,
// how many pipes get a full per-chunk dump this tick versus only a summary
// row.
type FairAlloc struct {
	capacity        int
	roundUpThreshold float64

	sumRequest int
	sumDebt    float64

	available  int
	request    float64
	fulfillment float64
}

// NewFairAlloc builds an allocator for the given total capacity.
func NewFairAlloc(capacity int) *FairAlloc {
	return &FairAlloc{capacity: capacity}
}

// WithRoundUpThreshold loosens the round-up check (see Allocate) to absorb
// floating point slack that would otherwise leave a unit of capacity
// unallocated most rounds.
func (f *FairAlloc) WithRoundUpThreshold(threshold float64) *FairAlloc {
	f.roundUpThreshold = threshold
	return f
}

// Warmup is the first pass: tally total request and total carried debt
// across every requester, then derive this round's fulfilment fraction.
func Warmup(f *FairAlloc, requests []int, states []*FairAllocState) {
	f.sumDebt = 0
	f.sumRequest = 0
	for i, r := range requests {
		f.sumRequest += r
		f.sumDebt += states[i].debt
	}

	f.available = f.capacity
	if f.sumRequest < f.available {
		f.available = f.sumRequest
	}

	if f.sumRequest == 0 {
		f.fulfillment = 0
	} else {
		f.fulfillment = math.Min((float64(f.available)-f.sumDebt)/float64(f.sumRequest), 1.0)
	}
	f.request = f.sumDebt + f.fulfillment*float64(f.sumRequest)
}

// Allocate is the second pass: consume each requester's share, rounding
// down to a whole unit and carrying the fractional remainder as debt,
// except that a requester is rounded up by one unit whenever the capacity
// still available covers that unit plus what the requesters after it are
// still owed, so capacity is not left unused to rounding. Several
// requesters can be rounded up in one call; the negative debt a round-up
// leaves behind shifts which requesters get rounded up in later calls.
func Allocate(f *FairAlloc, requests []int, states []*FairAllocState) []int {
	out := make([]int, len(requests))
	for i, r := range requests {
		s := states[i]
		s.debt += f.fulfillment * float64(r)

		n := int(math.Floor(s.debt))
		if n < 0 {
			n = 0
		}

		f.request -= s.debt
		f.available -= n
		s.debt -= float64(n)

		if f.request+1 <= float64(f.available)+f.roundUpThreshold && n+1 <= r {
			n++
			f.available--
			s.debt--
		}

		out[i] = n
	}
	return out
}
