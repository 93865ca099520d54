package track

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// supportedExtensions are the containers this project knows how to probe and
// play: mp3, flac, ogg (vorbis) and wav.
var supportedExtensions = [...]string{".mp3", ".flac", ".ogg", ".wav"}

const maxWalkDepth = 10

func isSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range supportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Discover walks root (bounded to maxWalkDepth) and returns a bare Track
// (path only, no metadata) for every supported audio file found. Hidden
// entries (dotfiles/dotdirs) are skipped unless includeHidden is set.
func Discover(root string, includeHidden bool) ([]*Track, error) {
	var tracks []*Track
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries, keep walking
		}

		name := d.Name()
		if !includeHidden && strings.HasPrefix(name, ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			depth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
			if depth >= maxWalkDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if isSupported(name) {
			tracks = append(tracks, New(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tracks, nil
}
