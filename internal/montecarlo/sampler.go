package montecarlo

import (
	"math/rand"
	"time"
)

// sampler produces one alternative ordering of the historical returns per
// iteration. The generator is private to the run so concurrent engines
// never share random state.
type sampler struct {
	mode SamplingMode
	rng  *rand.Rand
}

func newSampler(mode SamplingMode, seed int64) *sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &sampler{
		mode: mode,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// samplePath fills dst with one sampled path. dst and src must have the
// same length.
func (s *sampler) samplePath(dst, src []float64) {
	switch s.mode {
	case SamplingReshuffle:
		copy(dst, src)
		s.rng.Shuffle(len(dst), func(i, j int) {
			dst[i], dst[j] = dst[j], dst[i]
		})
	default: // SamplingResample
		n := len(src)
		for i := range dst {
			dst[i] = src[s.rng.Intn(n)]
		}
	}
}
