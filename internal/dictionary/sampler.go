package dictionary

import (
	"math/rand"
	"time"
)

// weightedRate is the rate of the exponential draw used for weighted
// sampling. Larger values concentrate draws on the front of the list.
const weightedRate = 3.0

// Sampler draws list indexes. It is not safe for concurrent use.
type Sampler struct {
	rnd *rand.Rand
}

// NewSampler returns a Sampler with a fixed seed, for reproducible draws.
func NewSampler(seed int64) *Sampler {
	return &Sampler{rnd: rand.New(rand.NewSource(seed))}
}

// NewTimeSampler returns a Sampler seeded with the current time.
func NewTimeSampler() *Sampler {
	return NewSampler(time.Now().UnixNano())
}

// Index returns an index in [0, n-1]. n must be positive.
//
// Weighted draws scale an exponential variate by n and clamp it to the last
// index. Lists are expected to be sorted by descending frequency, so low
// indexes are common words. The clamp makes the last index noticeably more
// likely than its neighbours (about e^-3 of all draws); this is kept as is.
func (s *Sampler) Index(n int, weighted bool) int {
	if n <= 1 {
		return 0
	}
	if !weighted {
		return s.rnd.Intn(n)
	}
	x := s.rnd.ExpFloat64() / weightedRate * float64(n)
	last := float64(n - 1)
	if x > last {
		x = last
	}
	return int(x)
}
