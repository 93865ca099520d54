package tagstring

import "testing"

func testTags() MapTags {
	return MapTags{
		"tit1":  "TheTitle",
		"title": "TheTitle",
		"talb":  "TheAlbum",
		"album": "TheAlbum",
		"tcon":  "TheGenre",
		"genre": "TheGenre",
		"goofy": "Title <GoofySpec>",
	}
}

func TestEval(t *testing.T) {
	tags := testTags()
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"control", "Hello, World!", "???"},
		{"control_unequal", "Hello>, Worl<d!", "???"},
		{"control_unequal2", ">Hello, World!<", "???"},
		{"sub", "<title>", "TheTitle"},
		{"sub_case", "<TiTlE>", "TheTitle"},
		{"sub_literal", "TiT1", "TheTitle"},
		{"sub_goofy", "<goofy>", "Title <GoofySpec>"},
		{"sub_goofy_literal", "goofy", "Title <GoofySpec>"},
		{"sub_before", "<title> is the title!", "TheTitle is the title!"},
		{"sub_after", "The title is <title>", "The title is TheTitle"},
		{"sub_inline", "This title: <title> is rad!", "This title: TheTitle is rad!"},
		{"sub_multi", "Title: <title>, Album: <album>!", "Title: TheTitle, Album: TheAlbum!"},
		{"escape", `\<title>`, "???"},
		{
			"mixed",
			`Title: \<title\>, Album: <<album>>>, Genre: <genre>, done!`,
			`Title: <title>, Album: ???>, Genre: TheGenre, done!`,
		},
		{"condition_true", "Tag?<title| Title: <title>!>", "Tag? Title: TheTitle!"},
		{"condition_false", "Tag?<badtag| Badtag: <badtag>!>", "Tag?"},
		{"condition_invert_true", "Tag?<!title| Title: <title>!>", "Tag?"},
		{"condition_invert_false", "Tag?<!badtag| Badtag: <badtag>!>", "Tag? Badtag: ???!"},
		{
			"condition_mixed",
			`<mood|This is a very <mood> song~><!mood|\<title\>: <title><TALB| is part of <TALB>>>`,
			"<title>: TheTitle is part of TheAlbum",
		},
		{
			"goofy_mixed",
			`<mood|This is a very <mood> song~><!mood|\<goofy\>: <goofy><TALB| is part of <TALB>>>`,
			"<goofy>: Title <GoofySpec> is part of TheAlbum",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eval(tt.template, tags); got != tt.want {
				t.Errorf("Eval(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}
