// Package track loads individual audio files into Tracks: a path, a
// case-insensitive tag dictionary, and a linear ReplayGain multiplier.
package track

import (
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Tags is a case-insensitive (keys always lowercase) tag dictionary.
type Tags map[string]string

// Get satisfies tagstring.Tags.
func (t Tags) Get(key string) (string, bool) {
	v, ok := t[strings.ToLower(key)]
	return v, ok
}

func (t Tags) set(key, val string) {
	t[strings.ToLower(key)] = val
}

// Track is immutable after LoadMeta has run: an absolute path, its tag
// dictionary, and a linear gain multiplier derived from ReplayGain (1.0 when
// absent).
type Track struct {
	Path string
	Tags Tags
	Gain float32
}

// New creates a Track with only its path populated; LoadMeta must be called
// before Tags/Gain are meaningful.
func New(path string) *Track {
	return &Track{Path: path, Tags: Tags{}, Gain: 1.0}
}

// LoadMeta probes the file for tags and ReplayGain, dispatching by
// extension, then applies the replaygain-gain and fallback-title rules
// shared across every format.
func (t *Track) LoadMeta() error {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(t.Path), ".")) {
	case "mp3", "wav":
		if err := probeID3(t); err != nil {
			return err
		}
	case "flac":
		if err := probeFLAC(t); err != nil {
			return err
		}
	case "ogg":
		if err := probeOgg(t); err != nil {
			return err
		}
	}

	if text, ok := t.Tags.Get("replaygain_track_gain"); ok {
		if gain, ok := parseReplayGain(text); ok {
			t.Gain = gain
		}
	}

	if _, ok := t.Tags.Get("title"); !ok {
		base := filepath.Base(t.Path)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		t.Tags.set("title", stem)
	}

	return nil
}

// parseReplayGain parses the leading signed decimal of a
// "replaygain_track_gain" value (e.g. "-6.20 dB") and converts it to a
// linear gain multiplier: gain = 10^(dB/20).
func parseReplayGain(text string) (float32, bool) {
	text = strings.TrimSpace(text)
	end := 0
	for end < len(text) {
		c := text[end]
		if c >= '0' && c <= '9' || c == '.' || c == '+' || c == '-' {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0, false
	}
	db, err := strconv.ParseFloat(text[:end], 32)
	if err != nil {
		return 0, false
	}
	return float32(math.Pow(10, db/20.0)), true
}

// GetAllTag returns the value of tag (a plain tag lookup, not a tagstring)
// for every track that has it, in track order.
func GetAllTag(tag string, tracks []*Track) []string {
	var out []string
	for _, t := range tracks {
		if v, ok := t.Tags.Get(tag); ok {
			out = append(out, v)
		}
	}
	return out
}

// GetAllTagSort returns the deduplicated, sorted set of tag values across
// tracks.
func GetAllTagSort(tag string, tracks []*Track) []string {
	vals := GetAllTag(tag, tracks)
	sort.Strings(vals)
	return dedupSorted(vals)
}

func dedupSorted(vals []string) []string {
	if len(vals) == 0 {
		return vals
	}
	out := vals[:1]
	for _, v := range vals[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// SortByTag stably sorts tracks by a tag's value; tracks missing the tag
// sort after those that have it, and two tracks both missing it compare
// equal.
func SortByTag(tag string, tracks []*Track) {
	sort.SliceStable(tracks, func(i, j int) bool {
		a, aok := tracks[i].Tags.Get(tag)
		b, bok := tracks[j].Tags.Get(tag)
		switch {
		case !aok && !bok:
			return false
		case aok && !bok:
			return true
		case !aok && bok:
			return false
		default:
			return a < b
		}
	})
}
