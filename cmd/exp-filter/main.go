package main

import (
	"fmt"
	"math"
	"os"
	"time"

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

	Alpha   float64 `help:"smoothing factor, 0 < alpha <= 1"`
	Cutoff  float64 `help:"cutoff frequency in Hz; overrides --alpha if > 0"`
	Track   string  `help:"value to output: avg, min, max, std or last"`
	Reset   int     `help:"reset the filter every N samples; 0 means never"`
	Channel int     `help:"input channel to use; -1 means the last one"`

	Stereo bool `help:"output both input and filtered samples as stereo"`
	Stats  bool `help:"print some statistics"`
	Debug  bool `help:"print verbose debug info (log level 4)"`
}{
	Output:  "out.wav",
	Alpha:   0.01,
	Track:   "avg",
	Channel: wav.LastChannel,
}

// tracked maps the --track values to the filter value they output.
var tracked = map[string]func(f *filter.Exp[float64]) float64{
	"avg":  (*filter.Exp[float64]).Get,
	"min":  (*filter.Exp[float64]).Min,
	"max":  (*filter.Exp[float64]).Max,
	"std":  (*filter.Exp[float64]).StdDev,
	"last": (*filter.Exp[float64]).LastValue,
}

func run() error {
	p := arg.MustParse(&args)

	if args.Debug {
		log.Level = log.Debug
	}
	get, ok := tracked[args.Track]
	if !ok {
		p.Fail("unknown --track value: " + args.Track)
	}
	if args.Reset < 0 {
		p.Fail("--reset must not be negative")
	}

	samples, meta, err := wav.LoadChannel(args.Input, args.Channel)
	if err != nil {
		return err
	}
	rate, bits := meta.SampleRate, meta.BitDepth
	if len(samples) == 0 {
		return fmt.Errorf("no samples in %v", args.Input)
	}

	type d = time.Duration
	log.F(
		log.Info, "Input: %v %v-bit samples at %v Hz = %v\n",
		len(samples), bits, rate, d(len(samples))*time.Second/d(rate),
	)

	alpha, err := pickAlpha(args.Alpha, args.Cutoff, rate)
	if err != nil {
		return err
	}
	log.F(
		log.Info, "Alpha: %v, cutoff: %.2f Hz\n",
		alpha, filter.CutoffRatio(alpha)*float64(rate),
	)

	f := filter.NewExp(alpha)
	output := runFilter(f, samples, get)

	if n := filter.Clamp(output, bits); n > 0 {
		log.Warn("clipped", n, "output samples")
	}

	if args.Stats {
		outputStats(f, samples, output)
	}

	if args.Stereo {
		return wav.SaveChannels(args.Output, rate, bits, samples, output)
	}
	return wav.SaveMono(args.Output, rate, bits, output)
}

// pickAlpha returns the smoothing factor to use: the one for the given
// cutoff frequency if that is above 0, otherwise alpha itself.
func pickAlpha(alpha, cutoff float64, rate int) (float64, error) {
	if cutoff > 0 {
		alpha = filter.AlphaForCutoff(cutoff / float64(rate))
	}
	if alpha <= 0 || alpha > 1 {
		return 0, fmt.Errorf("invalid smoothing factor: %v", alpha)
	}
	return alpha, nil
}

func runFilter(
	f *filter.Exp[float64], samples []int, get func(*filter.Exp[float64]) float64,
) []int {
	defer log.Time(log.Info, "Running filter...")(" done in")

	output := make([]int, len(samples))
	for i, v := range samples {
		if args.Reset > 0 && i > 0 && i%args.Reset == 0 {
			log.Ln(log.Debug, "Resetting filter at sample", i)
			f.Reset()
		}
		f.Set(float64(v))
		output[i] = int(math.Round(get(f)))
	}
	return output
}

func outputStats(f *filter.Exp[float64], samples, output []int) {
	il, ih := filter.LowHigh(samples)
	ol, oh := filter.LowHigh(output)
	fmt.Printf("Input sample min: %v, max: %v\n", il, ih)
	fmt.Printf("Output sample min: %v, max: %v\n", ol, oh)
	fmt.Printf(
		"Final state: avg: %.3f, min: %v, max: %v, std: %.3f, last: %v\n",
		f.Get(), f.Min(), f.Max(), f.StdDev(), f.LastValue(),
	)
}
