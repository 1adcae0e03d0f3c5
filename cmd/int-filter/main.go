package main

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/exp/slices"

	"github.com/alexflint/go-arg"

	"github.com/edorfaus/expfilter/filter"
	"github.com/edorfaus/expfilter/log"
	"github.com/edorfaus/expfilter/wav"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var args = struct {
	Input  string `arg:"positional,required" help:"input wav file"`
	Output string `arg:"positional" help:"output wav file [out.wav]"`

	Coeff   uint8 `help:"filter coefficient; new samples get 1/2^coeff weight"`
	Channel int   `help:"input channel to use; -1 means the last one"`
	Seed    bool  `help:"start from the first sample instead of the lowest value"`

	Stereo bool `help:"output both input and filtered samples as stereo"`
	Stats  bool `help:"print some statistics"`
	Debug  bool `help:"print verbose debug info (log level 4)"`
}{
	Output:  "out.wav",
	Coeff:   2,
	Channel: wav.LastChannel,
}

func run() error {
	arg.MustParse(&args)

	if args.Debug {
		log.Level = log.Debug
	}

	samples, meta, err := wav.LoadChannel(args.Input, args.Channel)
	if err != nil {
		return err
	}
	rate, bits := meta.SampleRate, meta.BitDepth
	if err := checkRange(bits, args.Coeff); err != nil {
		return err
	}

	type d = time.Duration
	log.F(
		log.Info, "Input: %v %v-bit samples at %v Hz = %v\n",
		len(samples), bits, rate, d(len(samples))*time.Second/d(rate),
	)

	f := &filter.IntExp{}
	output := runFilter(f, samples, bits)

	if args.Stats && len(samples) > 0 {
		fmt.Printf(
			"Input sample min: %v, max: %v\n",
			slices.Min(samples), slices.Max(samples),
		)
		fmt.Printf(
			"Output sample min: %v, max: %v\n",
			slices.Min(output), slices.Max(output),
		)
		fmt.Printf("Final mean: %v, last: %v\n", f.Mean(), f.Last())
	}

	if args.Stereo {
		return wav.SaveChannels(args.Output, rate, bits, samples, output)
	}
	return wav.SaveMono(args.Output, rate, bits, output)
}

// checkRange returns an error if filtering samples of the given bit depth
// with the given coefficient could overflow the filter's 32 bits.
func checkRange(bits int, coeff uint8) error {
	if bits > 32 {
		return fmt.Errorf("unsupported bit depth: %v (max 32)", bits)
	}
	if coeff == 0 {
		coeff = 1
	}
	if bits+int(coeff) > 32 {
		return fmt.Errorf(
			"coefficient %v too large for %v-bit samples (max %v)",
			coeff, bits, 32-bits,
		)
	}
	return nil
}

func runFilter(f *filter.IntExp, samples []int, bits int) []int {
	// The filter works on unsigned values, so offset the samples to be
	// non-negative while filtering.
	in := filter.ToUnsigned(samples, bits)

	// An uninitialized filter passes its input through, which primes
	// the mean with the first sample.
	if args.Seed && len(in) > 0 {
		f.Filter(in[0])
	}
	f.Init(args.Coeff)
	log.F(log.Info, "Filter coefficient: %v\n", f.Coeff())

	defer log.Time(log.Info, "Running filter...")(" done in")
	return filter.ToSigned(f.Run(in), bits)
}
