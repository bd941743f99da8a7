package alg

// tabuList forbids the most recent `tenure` fingerprints. Pushing beyond
// capacity evicts the oldest entry. Duplicate fingerprints may coexist; a
// fingerprint stays forbidden until its last occurrence is evicted.
type tabuList struct {
	ring   []uint64
	counts map[uint64]int
	tenure int
	next   int
	filled bool
}

func newTabuList(tenure int) *tabuList {
	return &tabuList{
		ring:   make([]uint64, tenure),
		counts: make(map[uint64]int, tenure),
		tenure: tenure,
	}
}

func (t *tabuList) Contains(fingerprint uint64) bool {
	return t.counts[fingerprint] > 0
}

func (t *tabuList) Push(fingerprint uint64) {
	if t.filled {
		oldest := t.ring[t.next]
		if t.counts[oldest] <= 1 {
			delete(t.counts, oldest)
		} else {
			t.counts[oldest]--
		}
	}
	t.ring[t.next] = fingerprint
	t.counts[fingerprint]++
	t.next++
	if t.next == t.tenure {
		t.next = 0
		t.filled = true
	}
}

func (t *tabuList) Len() int {
	if t.filled {
		return t.tenure
	}
	return t.next
}

func (t *tabuList) Clear() {
	t.counts = make(map[uint64]int, t.tenure)
	t.next = 0
	t.filled = false
}
