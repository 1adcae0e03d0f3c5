package wav

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/edorfaus/expfilter/log"
)

// Meta describes the format of the loaded samples.
type Meta struct {
	SampleRate  int
	BitDepth    int
	NumChannels int
}

// LastChannel can be given to LoadChannel to select the last channel in
// the file (the right channel, if stereo).
const LastChannel = -1

func readFile(filename string) ([]byte, error) {
	defer log.Time(log.Info, "Reading: %v ...", filename)(" done in")
	return os.ReadFile(filename)
}

// LoadChannel loads the samples of a single channel from the given file.
// Channels are numbered from 0; LastChannel selects the last one.
func LoadChannel(filename string, channel int) ([]int, Meta, error) {
	data, meta, err := LoadInterleaved(filename)
	if err != nil {
		return nil, meta, err
	}

	if channel == LastChannel {
		channel = meta.NumChannels - 1
	}
	if channel < 0 || channel >= meta.NumChannels {
		return nil, meta, fmt.Errorf(
			"no channel %v in file with %v channels",
			channel, meta.NumChannels,
		)
	}
	if meta.NumChannels == 1 {
		return data, meta, nil
	}

	defer log.Time(log.Info, "Extracting channel %v...", channel)(" done in")

	// Make a new buffer so we can release the oversized one.
	out := make([]int, len(data)/meta.NumChannels)

	for i, j := 0, channel; i < len(out); i, j = i+1, j+meta.NumChannels {
		out[i] = data[j]
	}

	meta.NumChannels = 1

	return out, meta, nil
}

// LoadInterleaved loads the wave samples from the given file, without
// de-interleaving them if there's more than one channel.
func LoadInterleaved(filename string) ([]int, Meta, error) {
	fileData, err := readFile(filename)
	if err != nil {
		return nil, Meta{}, err
	}
	return Decode(bytes.NewReader(fileData))
}

// Decode decodes all the interleaved wave samples from the given reader.
func Decode(r io.ReadSeeker) ([]int, Meta, error) {
	defer log.Time(log.Info, "Decoding WAVE data...\n")("Decoding done in")

	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, Meta{}, fmt.Errorf("not a valid WAVE file")
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, Meta{}, err
	}
	d = wav.NewDecoder(r)

	if err := d.FwdToPCM(); err != nil {
		return nil, Meta{}, err
	}

	if d.BitDepth < 8 || d.BitDepth > 64 || d.BitDepth%8 != 0 {
		return nil, Meta{}, fmt.Errorf("bad bit depth: %v", d.BitDepth)
	}
	expectedSamples := int(d.PCMLen() / int64(d.BitDepth/8))
	log.Ln(log.Verbose, "Expected samples:", expectedSamples)

	// +1 just in case our calculation isn't quite right.
	buf := &audio.IntBuffer{
		Data: make([]int, expectedSamples+1),
	}
	n, err := d.PCMBuffer(buf)
	if err != nil {
		return nil, Meta{}, err
	}
	buf.Data = buf.Data[:n]
	log.Ln(log.Verbose, "     Got samples:", n)

	if n > expectedSamples {
		log.Warn("unexpected sample, may have lost some")
	}
	if n < expectedSamples {
		log.Warn("got fewer samples than expected")
	}

	if err := d.Err(); err != nil {
		return nil, Meta{}, err
	}

	if buf.Format == nil || buf.Format.NumChannels < 1 {
		err := fmt.Errorf("missing or bad PCM format information")
		return nil, Meta{}, err
	}
	if buf.Format.SampleRate <= 0 {
		err := fmt.Errorf("bad sample rate: %v", buf.Format.SampleRate)
		return nil, Meta{}, err
	}

	meta := Meta{
		SampleRate:  buf.Format.SampleRate,
		BitDepth:    buf.SourceBitDepth,
		NumChannels: buf.Format.NumChannels,
	}
	return buf.Data, meta, nil
}
