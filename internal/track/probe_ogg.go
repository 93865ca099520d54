package track

import (
	"os"
	"strings"

	"github.com/dhowden/tag"
)

// probeOgg reads Ogg Vorbis comment headers via dhowden/tag and lowercases
// every key into the tag dictionary; values are already vorbis-comment
// strings so no further normalization is required.
func probeOgg(t *Track) error {
	f, err := os.Open(t.Path)
	if err != nil {
		return nil
	}
	defer f.Close()

	m, err := tag.ReadOGGTags(f)
	if err != nil {
		return nil
	}

	for k, v := range m.Raw() {
		if s, ok := v.(string); ok {
			t.Tags.set(strings.ToLower(k), s)
		}
	}
	return nil
}
