// Package oggvorbis decodes Ogg Vorbis audio into interleaved float32 PCM.
// It is a trimmed, Vorbis-only port of the teacher's oggreader.go/oggcodec.go
// page/packet demuxer (the Opus branch is dropped — out of scope per
// spec.md's mandatory format list) feeding github.com/jfreymuth/vorbis's
// packet decoder.
package oggvorbis

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/jfreymuth/vorbis"
)

const oggMagic = "OggS"

var (
	errInvalidMagic   = errors.New("oggvorbis: invalid capture pattern")
	errInvalidVersion = errors.New("oggvorbis: unsupported page version")
	errNotVorbis      = errors.New("oggvorbis: not a Vorbis identification header")
)

type pageHeader struct {
	GranulePos   int64
	SegmentTable []byte
}

func readPageHeader(r io.Reader) (*pageHeader, error) {
	var buf [27]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	if string(buf[0:4]) != oggMagic {
		return nil, errInvalidMagic
	}
	if buf[4] != 0 {
		return nil, errInvalidVersion
	}
	hdr := &pageHeader{
		GranulePos: int64(binary.LittleEndian.Uint64(buf[6:14])), //nolint:gosec // granule pos stored unsigned, semantically signed
	}
	n := buf[26]
	if n > 0 {
		hdr.SegmentTable = make([]byte, n)
		if _, err := io.ReadFull(r, hdr.SegmentTable); err != nil {
			return nil, err
		}
	}
	return hdr, nil
}

func readPageBody(r io.Reader, hdr *pageHeader) ([][]byte, error) {
	var total int
	for _, s := range hdr.SegmentTable {
		total += int(s)
	}
	body := make([]byte, total)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	var packets [][]byte
	var cur []byte
	offset := 0
	for _, segSize := range hdr.SegmentTable {
		cur = append(cur, body[offset:offset+int(segSize)]...)
		offset += int(segSize)
		if segSize < 255 {
			packets = append(packets, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		packets = append(packets, cur)
	}
	return packets, nil
}

// Decoder reads sequential Ogg pages and decodes their Vorbis packets into
// interleaved float32 PCM. It has no random-access seek support and does
// not report a total length, so the playback backend never seeks Ogg
// Vorbis tracks (see backendimpl); for the other formats the backend seeks
// by repositioning the output read cursor within the already-decoded
// buffer.
type Decoder struct {
	r          io.Reader
	vorbis     *vorbis.Decoder
	channels   int
	sampleRate int
	pending    [][]byte
	err        error
}

// New parses the identification/comment/setup headers from r and returns a
// Decoder ready to produce PCM via Decode.
func New(r io.Reader) (*Decoder, error) {
	d := &Decoder{r: r}

	var headers [][]byte
	var queued [][]byte

	nextPacket := func() ([]byte, error) {
		for len(queued) == 0 {
			hdr, err := readPageHeader(r)
			if err != nil {
				return nil, err
			}
			pkts, err := readPageBody(r, hdr)
			if err != nil {
				return nil, err
			}
			queued = pkts
		}
		p := queued[0]
		queued = queued[1:]
		return p, nil
	}

	for len(headers) < 3 {
		p, err := nextPacket()
		if err != nil {
			return nil, err
		}
		if len(headers) == 0 {
			if len(p) < 16 || p[0] != 0x01 || string(p[1:7]) != "vorbis" {
				return nil, errNotVorbis
			}
			d.channels = int(p[11])
			d.sampleRate = int(binary.LittleEndian.Uint32(p[12:16]))
		}
		headers = append(headers, append([]byte(nil), p...))
	}

	dec := &vorbis.Decoder{}
	for _, h := range headers {
		if err := dec.ReadHeader(h); err != nil {
			return nil, err
		}
	}
	d.vorbis = dec
	d.pending = queued

	return d, nil
}

func (d *Decoder) Channels() int   { return d.channels }
func (d *Decoder) SampleRate() int { return d.sampleRate }
func (d *Decoder) Err() error      { return d.err }

// Decode returns the next chunk of interleaved PCM samples, or nil, io.EOF
// at end of stream.
func (d *Decoder) Decode() ([]float32, error) {
	for {
		if len(d.pending) > 0 {
			packet := d.pending[0]
			d.pending = d.pending[1:]
			samples, err := d.vorbis.Decode(packet)
			if err != nil {
				continue
			}
			if len(samples) > 0 {
				return samples, nil
			}
			continue
		}

		hdr, err := readPageHeader(d.r)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, io.EOF
			}
			return nil, err
		}
		packets, err := readPageBody(d.r, hdr)
		if err != nil {
			return nil, err
		}
		d.pending = packets
	}
}
