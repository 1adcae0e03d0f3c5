package filter

// IntExp is an integer exponential filter, where each new sample gets a
// weight of 1/2^k for the coefficient k. It only uses shifts and adds,
// and wraps around like uint32 arithmetic does.
//
// Coefficients 1, 2, 3 and 4 keep 50%, 75%, 87.5% and 93.75% of the old
// mean. Starting with 2 or 3 is recommended; coefficients approaching the
// resolution of the filtered value make it highly inefficient.
//
// The zero value has a mean of 0, and passes values through unfiltered
// until Init is called. The first sample after Init is filtered against
// that zero mean; it does not seed the filter.
type IntExp struct {
	coeff uint8
	mean  uint32
	last  uint32
}

// NewIntExp returns a zeroed filter initialized with the given
// coefficient.
func NewIntExp(coeff uint8) *IntExp {
	f := &IntExp{}
	f.Init(coeff)
	return f
}

// Init sets the filter coefficient. A coefficient of 0 is changed to 1.
// The mean is left as is.
func (f *IntExp) Init(coeff uint8) {
	if coeff == 0 {
		coeff = 1
	}
	f.coeff = coeff
}

// Filter adds a new sample to the filter, and returns the new mean.
//
// The result is rounded to nearest, with exact halves rounded up.
func (f *IntExp) Filter(v uint32) uint32 {
	k := f.coeff

	// mean*(2^k - 1) + v
	scaled := f.mean<<k - f.mean + v
	f.mean = scaled >> k

	// Round up if the last bit shifted out was set.
	if k > 0 && (scaled>>(k-1))&1 != 0 {
		f.mean++
	}

	f.last = v
	return f.mean
}

// Run filters all the given samples in order, and returns the mean
// after each of them.
func (f *IntExp) Run(data []uint32) []uint32 {
	out := make([]uint32, len(data))
	for i, v := range data {
		out[i] = f.Filter(v)
	}
	return out
}

// Coeff returns the filter coefficient.
func (f *IntExp) Coeff() uint8 {
	return f.coeff
}

// Mean returns the current filtered value.
func (f *IntExp) Mean() uint32 {
	return f.mean
}

// Last returns the last raw sample given to Filter.
func (f *IntExp) Last() uint32 {
	return f.last
}
