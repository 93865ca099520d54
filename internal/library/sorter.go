package library

import (
	"sort"

	"github.com/llehouerou/waves/internal/tagstring"
	"github.com/llehouerou/waves/internal/track"
)

// Sorter is a tagstring used as one key of a multi-key sort; an ordered
// list of Sorters produces a lexicographic comparison across tracks.
type Sorter struct {
	Tagstring string
}

// tagstring's missing-value sentinel (see internal/tagstring); a render
// that produces this exact string is treated as "None" for sort purposes,
// matching spec.md §4.C's Some/None comparison rule.
const missingSentinel = "???"

// sortQueue stably sorts tracks in place by the rendered value of each
// sorter tagstring in order: present values compare by string order, a
// present value always sorts before a missing ("???") one, and two missing
// values compare equal.
func sortQueue(tracks []*track.Track, sorters []Sorter) {
	if len(sorters) == 0 {
		return
	}
	sort.SliceStable(tracks, func(i, j int) bool {
		for _, s := range sorters {
			a := tagstring.Eval(s.Tagstring, tracks[i].Tags)
			b := tagstring.Eval(s.Tagstring, tracks[j].Tags)
			aMissing, bMissing := a == missingSentinel, b == missingSentinel
			switch {
			case aMissing && bMissing:
				continue
			case aMissing:
				return false
			case bMissing:
				return true
			case a == b:
				continue
			default:
				return a < b
			}
		}
		return false
	})
}
