package track

// id3Tags maps an ID3v2.3 frame ID (lowercased) to the human-readable tag
// name it expands into. https://id3.org/id3v2.3.0#Declared_ID3v2_frames
var id3Tags = [...][2]string{
	{"talb", "album"},
	{"tbpm", "bpm"},
	{"tcom", "composer"},
	{"tcon", "genre"},
	{"tcop", "copyright"},
	{"tdat", "date"},
	{"tdly", "delay"},
	{"tenc", "encoder"},
	{"text", "lyricist"},
	{"tflt", "filetype"},
	{"time", "time"},
	{"tit1", "grouping"},
	{"tit2", "title"},
	{"tit3", "subtitle"},
	{"tkey", "key"},
	{"tlan", "language"},
	{"tlen", "length"},
	{"tmed", "mediatype"},
	{"toal", "originalalbum"},
	{"tofn", "originalfilename"},
	{"toly", "originallyricist"},
	{"tope", "originalartist"},
	{"tory", "originalyear"},
	{"town", "owner"},
	{"tpe1", "artist"},
	{"tpe2", "accompaniment"},
	{"tpe3", "performer"},
	{"tpe4", "mixer"},
	{"tpos", "set"},
	{"tpub", "publisher"},
	{"trck", "track"},
	{"trda", "recordingdate"},
	{"trsn", "station"},
	{"trso", "stationowner"},
	{"tsiz", "size"},
	{"tsrc", "isrc"},
	{"tsee", "equipment"},
	{"tyer", "year"},
}

// humanizeID3Key returns the human-readable tag name for a lowercased ID3v2.3
// frame key, and whether one was found.
func humanizeID3Key(key string) (string, bool) {
	for _, pair := range id3Tags {
		if pair[0] == key {
			return pair[1], true
		}
	}
	return "", false
}

// id3Genres is the ID3v1 genre table (including the Winamp extensions block
// starting at index 80). https://id3.org/id3v2.3.0#Declared_ID3v2_frames
var id3Genres = [...]string{
	"Blues", "Classic Rock", "Country", "Dance", "Disco", "Funk", "Grunge",
	"Hip-Hop", "Jazz", "Metal", "New Age", "Oldies", "Other", "Pop", "R&B",
	"Rap", "Reggae", "Rock", "Techno", "Industrial", "Alternative", "Ska",
	"Death Metal", "Pranks", "Soundtrack", "Euro-Techno", "Ambient",
	"Trip-Hop", "Vocal", "Jazz+Funk", "Fusion", "Trance", "Classical",
	"Instrumental", "Acid", "House", "Game", "Sound Clip", "Gospel", "Noise",
	"AlternRock", "Bass", "Soul", "Punk", "Space", "Meditative",
	"Instrumental Pop", "Instrumental Rock", "Ethnic", "Gothic", "Darkwave",
	"Techno-Industrial", "Electronic", "Pop-Folk", "Eurodance", "Dream",
	"Southern Rock", "Comedy", "Cult", "Gangsta", "Top 40", "Christian Rap",
	"Pop/Funk", "Jungle", "Native American", "Cabaret", "New Wave",
	"Psychadelic", "Rave", "Showtunes", "Trailer", "Lo-Fi", "Tribal",
	"Acid Punk", "Acid Jazz", "Polka", "Retro", "Musical", "Rock & Roll",
	"Hard Rock",
	// Winamp extensions
	"Folk", "Folk-Rock", "National Folk", "Swing", "Fast Fusion", "Bebob",
	"Latin", "Revival", "Celtic", "Bluegrass", "Avantgarde", "Gothic Rock",
	"Progressive Rock", "Psychedelic Rock", "Symphonic Rock", "Slow Rock",
	"Big Band", "Chorus", "Easy Listening", "Acoustic", "Humour", "Speech",
	"Chanson", "Opera", "Chamber Music", "Sonata", "Symphony", "Booty Bass",
	"Primus", "Porn Groove", "Satire", "Slow Jam", "Club", "Tango", "Samba",
	"Folklore", "Ballad", "Power Ballad", "Rhythmic Soul", "Freestyle",
	"Duet", "Punk Rock", "Drum Solo", "A cappella", "Euro-House",
	"Dance Hall",
}

// expandID3Genre resolves a TCON value of the form "(N)" or "N" to its genre
// name; any other value is returned unchanged.
func expandID3Genre(val string) string {
	trimmed := trimParens(val)
	i, ok := parseUint(trimmed)
	if !ok || i >= len(id3Genres) {
		return val
	}
	return id3Genres[i]
}

func trimParens(s string) string {
	s = trimSpace(s)
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		return s[1 : len(s)-1]
	}
	return s
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func parseUint(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
