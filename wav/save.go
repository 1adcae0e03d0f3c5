package wav

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/edorfaus/expfilter/log"
)

// SaveMono saves the given samples as a single-channel WAVE file.
func SaveMono(fn string, rate, bits int, samples []int) error {
	return save(fn, rate, bits, 1, samples)
}

// SaveChannels saves the given channels as a multi-channel WAVE file,
// with the samples interleaved in the order the channels are given. All
// the channels must have the same length.
func SaveChannels(fn string, rate, bits int, channels ...[]int) error {
	if len(channels) == 0 {
		return fmt.Errorf("no channels to save")
	}
	n := len(channels[0])
	for i, c := range channels {
		if len(c) != n {
			return fmt.Errorf(
				"channel %v has %v samples, expected %v", i, len(c), n,
			)
		}
	}

	data := make([]int, n*len(channels))
	for i, c := range channels {
		for j, v := range c {
			data[j*len(channels)+i] = v
		}
	}

	return save(fn, rate, bits, len(channels), data)
}

func save(fn string, rate, bits, numChannels int, data []int) (er error) {
	defer log.Time(log.Info, "Saving WAVE to: %v ...", fn)(" done in")

	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil && er == nil {
			er = err
		}
	}()

	e := wav.NewEncoder(f, rate, bits, numChannels, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  rate,
		},

		Data: data,

		SourceBitDepth: bits,
	}
	if err := e.Write(buf); err != nil {
		return err
	}

	return e.Close()
}
