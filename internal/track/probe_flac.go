package track

import (
	"strings"

	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"
)

// probeFLAC reads the VORBIS_COMMENT metadata block of a FLAC file and
// lowercases every comment key into the tag dictionary.
func probeFLAC(t *Track) error {
	f, err := flac.ParseFile(t.Path)
	if err != nil {
		return nil
	}

	for _, meta := range f.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}
		cmt, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			continue
		}
		for _, comment := range cmt.Comments {
			key, val, ok := splitVorbisComment(comment)
			if ok {
				t.Tags.set(strings.ToLower(key), val)
			}
		}
	}
	return nil
}

func splitVorbisComment(comment string) (key, val string, ok bool) {
	i := strings.IndexByte(comment, '=')
	if i < 0 {
		return "", "", false
	}
	return comment[:i], comment[i+1:], true
}
