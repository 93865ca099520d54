// Package library owns the track set, the filter/sort pipeline that turns
// it into a queue, the current-track model, and the playback backend that
// drives it — publishing a LibEvt on the event bus after every mutation.
package library

import (
	"strings"

	"github.com/llehouerou/waves/internal/track"
)

// Filter is one narrowing stage in the chain: tracks are retained when the
// value of their Tag (looked up case-insensitively) exactly equals one of
// Items. An empty Items list
// means "pass through" — the stage does not narrow its input.
type Filter struct {
	Tag   string
	Items []string
}

// Equal reports whether f and o are structurally identical, used by
// SetFilters to decide whether a cached stage can be reused unchanged.
func (f Filter) Equal(o Filter) bool {
	if !strings.EqualFold(f.Tag, o.Tag) || len(f.Items) != len(o.Items) {
		return false
	}
	for i, v := range f.Items {
		if v != o.Items[i] {
			return false
		}
	}
	return true
}

func (f Filter) matches(t *track.Track) bool {
	if len(f.Items) == 0 {
		return true
	}
	val, ok := t.Tags.Get(f.Tag)
	if !ok {
		return false
	}
	for _, item := range f.Items {
		if val == item {
			return true
		}
	}
	return false
}

// FilteredTracks is one stage's input filter and the cached result of
// applying it to the previous stage's output (or the full track list for
// stage 0).
type FilteredTracks struct {
	Filter Filter
	Tracks []*track.Track
}

// applyFilters runs every filter in filters over tracks, reusing cached
// stages from prev as long as the filter at each position is structurally
// identical. Recomputation starts at the first mismatch and cascades
// downward, each stage filtering the previous stage's output.
func applyFilters(tracks []*track.Track, filters []Filter, prev []FilteredTracks) []FilteredTracks {
	out := make([]FilteredTracks, 0, len(filters))
	reusing := true
	for i, f := range filters {
		if reusing && i < len(prev) && prev[i].Filter.Equal(f) {
			out = append(out, prev[i])
			continue
		}
		reusing = false

		var in []*track.Track
		if i == 0 {
			in = tracks
		} else {
			in = out[i-1].Tracks
		}

		var stage []*track.Track
		if len(f.Items) == 0 {
			stage = in
		} else {
			stage = make([]*track.Track, 0, len(in))
			for _, t := range in {
				if f.matches(t) {
					stage = append(stage, t)
				}
			}
		}
		out = append(out, FilteredTracks{Filter: f, Tracks: stage})
	}
	return out
}

// queueFrom returns a fresh copy of the last non-empty stage's tracks, or of
// the full track list when every stage is empty (or there are no stages).
// The copy matters: the source slice may alias a cached FilteredTracks.Tracks
// (or l.tracks itself), and sortQueue sorts its argument in place — sorting
// an alias would reorder data spec.md §3 calls immutable and cached.
func queueFrom(tracks []*track.Track, stages []FilteredTracks) []*track.Track {
	src := tracks
	for i := len(stages) - 1; i >= 0; i-- {
		if len(stages[i].Tracks) > 0 {
			src = stages[i].Tracks
			break
		}
	}
	return append([]*track.Track(nil), src...)
}
