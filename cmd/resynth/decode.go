package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// clip is a decoded file as one float64 slice per channel.
type clip struct {
	sampleRate int
	channels   [][]float64
}

func (c *clip) frames() int {
	if len(c.channels) == 0 {
		return 0
	}
	return len(c.channels[0])
}

var errNoAudio = errors.New("file has no audio")

func decodeFile(path string) (*clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		return decodeWAV(f)
	case ".aif", ".aiff":
		return decodeAIFF(f)
	case ".mp3":
		return decodeMP3(f)
	case ".ogg", ".oga":
		return decodeOgg(f)
	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
}

// pcmDecoder is the part of the go-audio wav and aiff decoders used here.
type pcmDecoder interface {
	PCMBuffer(buf *audio.IntBuffer) (int, error)
}

func decodeWAV(r io.ReadSeeker) (*clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid wav file")
	}
	dec.ReadInfo()
	return readPCM(dec, int(dec.NumChans), int(dec.SampleRate), int(dec.BitDepth))
}

func decodeAIFF(r io.ReadSeeker) (*clip, error) {
	dec := aiff.NewDecoder(r)
	dec.ReadInfo()
	return readPCM(dec, int(dec.NumChans), int(dec.SampleRate), int(dec.BitDepth))
}

func readPCM(dec pcmDecoder, numChans, sampleRate, bitDepth int) (*clip, error) {
	if numChans == 0 || sampleRate == 0 || bitDepth == 0 {
		return nil, errNoAudio
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChans, SampleRate: sampleRate},
		Data:           make([]int, 4096*numChans),
		SourceBitDepth: bitDepth,
	}
	scale := 1 / float64(int64(1)<<(bitDepth-1))

	c := &clip{sampleRate: sampleRate, channels: make([][]float64, numChans)}
	for {
		n, err := dec.PCMBuffer(buf)
		for i := range n {
			c.channels[i%numChans] = append(c.channels[i%numChans], float64(buf.Data[i])*scale)
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if n == 0 || err != nil {
			break
		}
	}

	if c.frames() == 0 {
		return nil, errNoAudio
	}
	return c, nil
}

// decodeMP3 reads the 16-bit little-endian stereo stream go-mp3 produces.
func decodeMP3(r io.Reader) (*clip, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	const channels = 2
	frames := len(raw) / (2 * channels)
	c := &clip{sampleRate: dec.SampleRate(), channels: make([][]float64, channels)}
	for ch := range c.channels {
		c.channels[ch] = make([]float64, frames)
	}
	for i := range frames * channels {
		v := int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
		c.channels[i%channels][i/channels] = float64(v) / 32768
	}

	if frames == 0 {
		return nil, errNoAudio
	}
	return c, nil
}

func decodeOgg(r io.Reader) (*clip, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ogg: %w", err)
	}
	if format.Channels == 0 || len(data) == 0 {
		return nil, errNoAudio
	}

	frames := len(data) / format.Channels
	c := &clip{sampleRate: format.SampleRate, channels: make([][]float64, format.Channels)}
	for ch := range c.channels {
		c.channels[ch] = make([]float64, frames)
	}
	for i := range frames * format.Channels {
		c.channels[i%format.Channels][i/format.Channels] = float64(data[i])
	}
	return c, nil
}

// writeWAV writes c as 16-bit PCM, clipping to full scale.
func writeWAV(path string, c *clip) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	numChans := len(c.channels)
	enc := wav.NewEncoder(f, c.sampleRate, 16, numChans, 1)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChans, SampleRate: c.sampleRate},
		Data:           make([]int, c.frames()*numChans),
		SourceBitDepth: 16,
	}
	for ch, samples := range c.channels {
		for i, v := range samples {
			v = min(max(v, -1), 1)
			buf.Data[i*numChans+ch] = int(v * 32767)
		}
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("wav encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("wav encode: %w", err)
	}
	return f.Close()
}
