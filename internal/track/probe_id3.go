package track

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// probeID3 populates t.Tags from an ID3v2 tag, for both native MP3 files and
// WAV files carrying an embedded "id3 " RIFF chunk. Every known ID3v2.3
// frame is both humanized (via id3Tags) and kept under its raw, lowercased,
// txxx-stripped key, matching the dual insertion original_source performs.
func probeID3(t *Track) error {
	var tag *id3v2.Tag
	var err error

	if strings.EqualFold(extOf(t.Path), "wav") {
		tag, err = openWAVID3(t.Path)
	} else {
		tag, err = id3v2.Open(t.Path, id3v2.Options{Parse: true})
	}
	if err != nil {
		// No tag is not fatal: plenty of WAV files carry none at all.
		return nil
	}
	defer tag.Close()

	for frameID, frames := range tag.AllFrames() {
		for _, f := range frames {
			val, ok := frameText(f)
			if !ok {
				continue
			}

			lower := strings.ToLower(frameID)
			if lower == "tcon" {
				val = expandID3Genre(val)
			}
			if human, ok := humanizeID3Key(lower); ok {
				t.Tags.set(human, val)
			}

			if txxx, ok := f.(id3v2.UserDefinedTextFrame); ok {
				t.Tags.set(strings.ToLower(txxx.Description), txxx.Value)
				continue
			}
			t.Tags.set(lower, val)
		}
	}
	return nil
}

func frameText(f id3v2.Framer) (string, bool) {
	switch v := f.(type) {
	case id3v2.TextFrame:
		return v.Text, true
	case id3v2.UserDefinedTextFrame:
		return v.Value, true
	default:
		return "", false
	}
}

func extOf(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/' && path[i] != '\\'; i-- {
		if path[i] == '.' {
			return path[i+1:]
		}
	}
	return ""
}

// openWAVID3 walks a WAV file's RIFF chunk list looking for an "id3 " chunk
// and hands its payload to id3v2's reader-based parser. No example repo in
// the retrieval pack probes WAV for ID3 data, so this chunk walk is hand
// rolled against the RIFF spec rather than grounded on a pack file.
func openWAVID3(path string) (*id3v2.Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var riffHeader [12]byte
	if _, err := io.ReadFull(f, riffHeader[:]); err != nil {
		return nil, err
	}
	if string(riffHeader[0:4]) != "RIFF" || string(riffHeader[8:12]) != "WAVE" {
		return nil, errors.New("track: not a RIFF/WAVE file")
	}

	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(f, chunkHeader[:]); err != nil {
			return nil, errors.New("track: no id3 chunk found")
		}
		id := string(chunkHeader[0:4])
		size := binary.LittleEndian.Uint32(chunkHeader[4:8])

		if id == "id3 " || id == "ID3 " {
			payload := make([]byte, size)
			if _, err := io.ReadFull(f, payload); err != nil {
				return nil, err
			}
			return id3v2.ParseReader(bytes.NewReader(payload), id3v2.Options{Parse: true})
		}

		skip := int64(size)
		if size%2 == 1 {
			skip++ // RIFF chunks are word-aligned
		}
		if _, err := f.Seek(skip, io.SeekCurrent); err != nil {
			return nil, errors.New("track: no id3 chunk found")
		}
	}
}
