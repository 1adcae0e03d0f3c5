package filter

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b, tol float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return math.Abs(a-b) <= tol
}

func TestExpSeed(t *testing.T) {
	for _, v := range []float64{0, 1, -3.5, 1e6} {
		f := NewExp(0.3)
		if got := f.Set(v); got != v {
			t.Errorf("Set(%v) = %v, want %v", v, got, v)
		}
		if f.Get() != v || f.Min() != v || f.Max() != v || f.LastValue() != v {
			t.Errorf(
				"after seed with %v: avg=%v min=%v max=%v last=%v",
				v, f.Get(), f.Min(), f.Max(), f.LastValue(),
			)
		}
		if f.StdDev() != 0 {
			t.Errorf("after seed with %v: stdev=%v, want 0", v, f.StdDev())
		}
		if !f.Initialized() {
			t.Errorf("after seed with %v: not initialized", v)
		}
	}
}

func TestExpResetReseeds(t *testing.T) {
	f := NewExp(0.5)
	for _, v := range []float64{1, 10, -4, 7} {
		f.Set(v)
	}
	f.Reset()
	if f.Initialized() {
		t.Fatal("initialized after Reset")
	}
	if f.Alpha() != 0.5 {
		t.Errorf("alpha after Reset = %v, want 0.5", f.Alpha())
	}

	if got := f.Set(42); got != 42 {
		t.Errorf("Set after Reset = %v, want 42", got)
	}
	if f.Min() != 42 || f.Max() != 42 || f.LastValue() != 42 {
		t.Errorf(
			"after reseed: min=%v max=%v last=%v",
			f.Min(), f.Max(), f.LastValue(),
		)
	}
	if f.StdDev() != 0 {
		t.Errorf("after reseed: stdev=%v, want 0", f.StdDev())
	}
}

func TestExpUpdate(t *testing.T) {
	f := NewExp(0.5)
	f.Set(0)

	// avg = 0*0.5 + 10*0.5 = 5
	// thresholds: 0*0.5 + 5*0.5 = 2.5; 10 > 2.5 so max = 10
	// stdev = sqrt(0*0.5 + 25*0.5)
	if got := f.Set(10); got != 5 {
		t.Fatalf("Set(10) = %v, want 5", got)
	}
	if f.Max() != 10 {
		t.Errorf("max = %v, want 10", f.Max())
	}
	if f.Min() != 0 {
		t.Errorf("min = %v, want 0", f.Min())
	}
	if f.LastValue() != 10 {
		t.Errorf("last = %v, want 10", f.LastValue())
	}
	if want := math.Sqrt(12.5); !almostEqual(f.StdDev(), want, tolerance) {
		t.Errorf("stdev = %v, want %v", f.StdDev(), want)
	}

	// avg = 2.5; minThreshold = 2.5*0.5 + 2.5*0.5 = 2.5; 0 < 2.5 so
	// min = 0 (again) and the threshold snaps to 0.
	// maxThreshold = 10*0.5 + 2.5*0.5 = 6.25; 0 is not above it.
	// stdev = sqrt(12.5*0.5 + 6.25*0.5)
	if got := f.Set(0); got != 2.5 {
		t.Fatalf("Set(0) = %v, want 2.5", got)
	}
	if f.Max() != 10 || f.Min() != 0 {
		t.Errorf("min/max = %v/%v, want 0/10", f.Min(), f.Max())
	}
	if want := math.Sqrt(9.375); !almostEqual(f.StdDev(), want, tolerance) {
		t.Errorf("stdev = %v, want %v", f.StdDev(), want)
	}
}

func TestExpConvergence(t *testing.T) {
	for _, alpha := range []float64{1, 0.5, 0.1, 0.01} {
		f := NewExp(alpha)
		for _, v := range []float64{-100, 250, 3, 0, 77} {
			f.Set(v)
		}
		const target = 12.0
		for i := 0; i < 20000; i++ {
			f.Set(target)
		}
		if !almostEqual(f.Get(), target, 1e-6) {
			t.Errorf("alpha %v: avg = %v, want %v", alpha, f.Get(), target)
		}
		if !almostEqual(f.minThreshold, target, 1e-6) {
			t.Errorf(
				"alpha %v: minThreshold = %v, want %v",
				alpha, f.minThreshold, target,
			)
		}
		if !almostEqual(f.maxThreshold, target, 1e-6) {
			t.Errorf(
				"alpha %v: maxThreshold = %v, want %v",
				alpha, f.maxThreshold, target,
			)
		}
		if !almostEqual(f.StdDev(), 0, 1e-6) {
			t.Errorf("alpha %v: stdev = %v, want 0", alpha, f.StdDev())
		}
	}
}

func TestExpThresholdPromotion(t *testing.T) {
	const v = 100.0
	f := NewExp(0.5)
	for i := 0; i < 200; i++ {
		f.Set(v)
	}

	f.Set(v + 1000)
	if f.Max() != v+1000 {
		t.Errorf("max = %v, want %v", f.Max(), v+1000)
	}
	if f.maxThreshold != v+1000 {
		t.Errorf("maxThreshold = %v, want %v", f.maxThreshold, v+1000)
	}

	f.Set(v - 1000)
	if f.Min() != v-1000 {
		t.Errorf("min = %v, want %v", f.Min(), v-1000)
	}
	if f.minThreshold != v-1000 {
		t.Errorf("minThreshold = %v, want %v", f.minThreshold, v-1000)
	}
	if f.Max() != v+1000 {
		t.Errorf("max changed to %v by a low sample", f.Max())
	}
}

func TestExpThresholdDrift(t *testing.T) {
	f := NewExp(0.25)
	for i := 0; i < 100; i++ {
		f.Set(0)
	}
	f.Set(50)

	// After the outlier, the threshold contracts towards the average,
	// so a smaller peak later on becomes the new max.
	prev := f.maxThreshold
	for i := 0; i < 100; i++ {
		f.Set(0)
		if f.maxThreshold > prev {
			t.Fatalf("maxThreshold grew from %v to %v", prev, f.maxThreshold)
		}
		prev = f.maxThreshold
	}
	f.Set(10)
	if f.Max() != 10 {
		t.Errorf("max = %v, want 10", f.Max())
	}
}

func TestExpSetAlphaRejects(t *testing.T) {
	input := []float64{3, 9, -2, 14, 5, 5, 8, -7}

	ref := NewExp(0.25)
	want := ref.Run(input)

	for _, bad := range []float64{0, -0.1, 1.5, math.NaN()} {
		f := NewExp(0.25)
		f.SetAlpha(bad)
		if f.Alpha() != 0.25 {
			t.Errorf("SetAlpha(%v): alpha = %v, want 0.25", bad, f.Alpha())
		}
		got := f.Run(input)
		for i := range want {
			if got[i] != want[i] {
				t.Errorf(
					"SetAlpha(%v): output[%v] = %v, want %v",
					bad, i, got[i], want[i],
				)
			}
		}
	}
}

func TestExpSetAlphaAccepts(t *testing.T) {
	f := NewExp(0.25)
	for _, a := range []float64{1, 0.5, 1e-6} {
		f.SetAlpha(a)
		if f.Alpha() != a {
			t.Errorf("SetAlpha(%v): alpha = %v", a, f.Alpha())
		}
	}

	// Old data is not affected by a new alpha.
	f.SetAlpha(0.5)
	f.Set(4)
	f.Set(8)
	f.SetAlpha(1)
	if f.Get() != 6 {
		t.Errorf("avg after SetAlpha = %v, want 6", f.Get())
	}
	if got := f.Set(20); got != 20 {
		t.Errorf("Set with alpha 1 = %v, want 20", got)
	}
}

func TestExpAccessorsIdempotent(t *testing.T) {
	f := NewExp(0.2)
	f.Run([]float64{1, 5, 2, 8, 3})

	avg, lo, hi, sd, last := f.Get(), f.Min(), f.Max(), f.StdDev(), f.LastValue()
	for i := 0; i < 3; i++ {
		if f.Get() != avg || f.Min() != lo || f.Max() != hi ||
			f.StdDev() != sd || f.LastValue() != last {
			t.Fatalf("accessor results changed on call %v", i+2)
		}
	}
}

func TestExpNaNPropagates(t *testing.T) {
	f := NewExp(0.5)
	f.Set(1)
	if got := f.Set(math.NaN()); !math.IsNaN(got) {
		t.Errorf("Set(NaN) = %v, want NaN", got)
	}
	if !math.IsNaN(f.StdDev()) {
		t.Errorf("stdev = %v, want NaN", f.StdDev())
	}
}

func TestExpFloat32(t *testing.T) {
	f := NewExp[float32](0.5)
	f.Set(2)
	if got := f.Set(4); got != 3 {
		t.Errorf("Set(4) = %v, want 3", got)
	}
	if f.Max() != 4 {
		t.Errorf("max = %v, want 4", f.Max())
	}
}

func TestExpRun(t *testing.T) {
	f := NewExp(0.5)
	got := f.Run([]float64{8, 0, 0, 4})
	want := []float64{8, 4, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Run()[%v] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCutoffRatio(t *testing.T) {
	tests := []struct {
		alpha float64
		want  float64
	}{
		{0, 0},
		{1, 0.5},
		{maxCutoffAlpha, 0.5},
		{0.5, math.Acos(0.75) / (2 * math.Pi)},
	}
	for _, tt := range tests {
		if got := CutoffRatio(tt.alpha); !almostEqual(got, tt.want, tolerance) {
			t.Errorf("CutoffRatio(%v) = %v, want %v", tt.alpha, got, tt.want)
		}
	}

	// Small alphas are close to 0.16*alpha.
	for _, a := range []float64{0.01, 0.005, 0.001} {
		got := CutoffRatio(a)
		if r := got / a; r < 0.155 || r > 0.165 {
			t.Errorf("CutoffRatio(%v)/alpha = %v, want about 0.16", a, r)
		}
	}
}

func TestAlphaForCutoff(t *testing.T) {
	for _, a := range []float64{0.001, 0.01, 0.1, 0.2, 0.5, 0.8} {
		ratio := CutoffRatio(a)
		if got := AlphaForCutoff(ratio); !almostEqual(got, a, 1e-9) {
			t.Errorf("AlphaForCutoff(CutoffRatio(%v)) = %v", a, got)
		}
	}
	if got := AlphaForCutoff(0); got != 0 {
		t.Errorf("AlphaForCutoff(0) = %v, want 0", got)
	}
	if got := AlphaForCutoff(0.5); got != 1 {
		t.Errorf("AlphaForCutoff(0.5) = %v, want 1", got)
	}
}
