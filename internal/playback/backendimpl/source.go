package backendimpl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"

	"github.com/llehouerou/waves/internal/playback/backendimpl/oggvorbis"
)

// source is the producer's view of a decoded track: a pull-based supplier
// of interleaved stereo float32 frames, abstracting over beep's
// StreamSeekCloser (mp3/flac/wav) and the hand-rolled Vorbis decoder.
type source interface {
	// stream fills dst (len(dst) must be even) with up to len(dst)/2
	// stereo frames, returning how many frames were written. err is
	// io.EOF at end of stream, non-nil on decode failure.
	stream(dst []float32) (frames int, err error)
	sampleRate() int
	// lenFrames is the total frame count if known up front, else -1.
	lenFrames() int
	close() error
}

// openSource opens path and returns a source (whose sampleRate is what the
// output device is initialized with), dispatching on the (lowercased) file
// extension — the same four containers spec.md §4.B/§6 names.
func openSource(path string) (source, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch ext {
	case "mp3":
		s, format, err := mp3.Decode(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &beepSource{s: s, format: format}, nil
	case "flac":
		if err := skipID3v2(f); err != nil {
			f.Close()
			return nil, err
		}
		s, format, err := flac.Decode(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &beepSource{s: s, format: format}, nil
	case "wav":
		s, format, err := wav.Decode(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &beepSource{s: s, format: format}, nil
	case "ogg":
		dec, err := oggvorbis.New(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &oggSource{f: f, dec: dec}, nil
	default:
		f.Close()
		return nil, fmt.Errorf("backendimpl: unsupported format %q", ext)
	}
}

// beepSource adapts a beep.StreamSeekCloser (mp3/flac/wav) to source.
type beepSource struct {
	s       beep.StreamSeekCloser
	format  beep.Format
	scratch [][2]float64
}

func (b *beepSource) stream(dst []float32) (int, error) {
	frames := len(dst) / 2
	if cap(b.scratch) < frames {
		b.scratch = make([][2]float64, frames)
	}
	buf := b.scratch[:frames]
	n, ok := b.s.Stream(buf)
	for i := 0; i < n; i++ {
		dst[i*2] = float32(buf[i][0])
		dst[i*2+1] = float32(buf[i][1])
	}
	if !ok {
		if err := b.s.Err(); err != nil {
			return n, err
		}
		return n, io.EOF
	}
	return n, nil
}

func (b *beepSource) sampleRate() int { return int(b.format.SampleRate) }
func (b *beepSource) lenFrames() int  { return b.s.Len() }
func (b *beepSource) close() error    { return b.s.Close() }

// oggSource adapts oggvorbis.Decoder to source, down/up-mixing its native
// channel count to stereo (duplicating mono, dropping channels beyond the
// first two) since the playback buffer is always stereo-interleaved.
type oggSource struct {
	f       *os.File
	dec     *oggvorbis.Decoder
	pending []float32
}

func (o *oggSource) stream(dst []float32) (int, error) {
	ch := o.dec.Channels()
	if ch < 1 {
		ch = 1
	}
	frames := len(dst) / 2
	written := 0
	for written < frames {
		if len(o.pending) < ch {
			chunk, err := o.dec.Decode()
			if err != nil {
				if written > 0 {
					return written, nil
				}
				return 0, err
			}
			o.pending = append(o.pending, chunk...)
			continue
		}
		l := o.pending[0]
		r := l
		if ch >= 2 {
			r = o.pending[1]
		}
		dst[written*2] = l
		dst[written*2+1] = r
		o.pending = o.pending[ch:]
		written++
	}
	return written, nil
}

func (o *oggSource) sampleRate() int { return o.dec.SampleRate() }

// lenFrames is unknown up front for the hand-rolled Vorbis decoder (no
// duration scan is implemented) — Seekable() stays permanently false for
// Ogg Vorbis tracks, so Seek is ignored for them.
func (o *oggSource) lenFrames() int { return -1 }

func (o *oggSource) close() error { return o.f.Close() }

// skipID3v2 skips a leading ID3v2 tag some taggers prepend to FLAC files,
// which the FLAC decoder does not expect. Grounded on the teacher's
// internal/player/player.go (skipID3v2).
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := r.Read(header)
	if err != nil {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
