package filter

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Exp is an exponential moving average filter that also tracks the
// standard deviation and an adaptive minimum and maximum of its input.
//
// The min/max tracking uses two thresholds that slowly follow the
// average. A sample outside the thresholds becomes the new min or max,
// and pushes its threshold out to that sample; from there the threshold
// starts drifting back towards the average again. This way a single
// outlier does not widen the tracked range forever.
//
// An Exp is not safe for concurrent use.
type Exp[T constraints.Float] struct {
	alpha T // Smoothing factor, 0 < alpha <= 1.

	average T
	last    T // Last raw value given to Set.
	stdev   T
	min     T
	max     T

	minThreshold T
	maxThreshold T

	initialized bool
}

// NewExp creates a new filter with the given smoothing factor, which is
// the weight given to each new sample. An alpha of 1 means no filtering.
//
// Unlike SetAlpha, this does not validate the smoothing factor.
func NewExp[T constraints.Float](alpha T) *Exp[T] {
	return &Exp[T]{alpha: alpha}
}

// SetAlpha sets a new smoothing factor. Values outside (0, 1] are
// ignored. Already filtered data is not affected.
func (f *Exp[T]) SetAlpha(alpha T) {
	if alpha > 0 && alpha <= 1 {
		f.alpha = alpha
	}
}

// Alpha returns the current smoothing factor.
func (f *Exp[T]) Alpha() T {
	return f.alpha
}

// Set adds a new sample to the filter, and returns the updated average.
//
// The first sample after creation or Reset seeds the filter: the
// average, min, max and both thresholds are all set to it.
func (f *Exp[T]) Set(v T) T {
	if !f.initialized {
		f.average, f.last = v, v
		f.min, f.max = v, v
		f.minThreshold, f.maxThreshold = v, v
		f.stdev = 0
		f.initialized = true
		return v
	}

	f.last = v
	f.average = f.filter(f.average, v)

	// The thresholds chase the average, not the raw input.
	f.minThreshold = f.filter(f.minThreshold, f.average)
	f.maxThreshold = f.filter(f.maxThreshold, f.average)
	if v < f.minThreshold {
		f.min = v
		f.minThreshold = v
	}
	if f.maxThreshold < v {
		f.max = v
		f.maxThreshold = v
	}

	d := f.average - v
	variance := f.filter(f.stdev*f.stdev, d*d)
	f.stdev = T(math.Sqrt(float64(variance)))

	return f.average
}

// Run filters all the given samples in order, and returns the running
// average after each of them.
func (f *Exp[T]) Run(data []T) []T {
	out := make([]T, len(data))
	for i, v := range data {
		out[i] = f.Set(v)
	}
	return out
}

// Get returns the current average.
func (f *Exp[T]) Get() T {
	return f.average
}

// Reset makes the next call to Set re-seed the filter. The smoothing
// factor is kept. Until that next Set, the other getters return stale
// values.
func (f *Exp[T]) Reset() {
	f.initialized = false
}

// Initialized reports whether the filter has been seeded since it was
// created or last reset.
func (f *Exp[T]) Initialized() bool {
	return f.initialized
}

// Max returns the tracked maximum.
func (f *Exp[T]) Max() T {
	return f.max
}

// Min returns the tracked minimum.
func (f *Exp[T]) Min() T {
	return f.min
}

// StdDev returns the running standard deviation. It is an exponentially
// weighted estimate, biased towards the recent samples.
func (f *Exp[T]) StdDev() T {
	return f.stdev
}

// LastValue returns the last raw (unfiltered) sample given to Set.
func (f *Exp[T]) LastValue() T {
	return f.last
}

func (f *Exp[T]) filter(old, v T) T {
	return old*(1-f.alpha) + v*f.alpha
}

// maxCutoffAlpha is the largest alpha for which the filter response drops
// by 3 dB somewhere below the Nyquist frequency: 2*(sqrt(2)-1).
const maxCutoffAlpha = 2 * (math.Sqrt2 - 1)

// CutoffRatio returns the -3 dB cutoff frequency of an exponential filter
// with the given alpha, as a fraction of the sample rate:
//
//	F3dB/Fsample = acos(1 - alpha²/(2*(1-alpha))) / 2π
//
// Below an alpha of about 0.1 this is close to 0.16*alpha. Alphas at or
// above 2*(sqrt(2)-1) never reach -3 dB, so 0.5 (Nyquist) is returned.
func CutoffRatio(alpha float64) float64 {
	if alpha >= maxCutoffAlpha {
		return 0.5
	}
	if alpha <= 0 {
		return 0
	}
	return math.Acos(1-alpha*alpha/(2*(1-alpha))) / (2 * math.Pi)
}

// AlphaForCutoff is the inverse of CutoffRatio: it returns the alpha
// giving a -3 dB cutoff at the given fraction of the sample rate.
//
// Ratios of 0 or less give 0, which SetAlpha will reject. Ratios of 0.5
// or more give 1, meaning no filtering.
func AlphaForCutoff(ratio float64) float64 {
	if ratio <= 0 {
		return 0
	}
	if ratio >= 0.5 {
		return 1
	}
	// alpha² + 2c*alpha - 2c = 0, with c = 1 - cos(2π*ratio).
	c := 1 - math.Cos(2*math.Pi*ratio)
	return math.Sqrt(c*c+2*c) - c
}
