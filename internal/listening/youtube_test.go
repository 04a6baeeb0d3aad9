package listening

import "testing"

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"watch with extra params", "https://youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", false},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"shorts", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"mobile", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"bare id", "dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"not youtube", "https://example.com/watch?v=dQw4w9WgXcQ", "", true},
		{"no id", "https://www.youtube.com/watch", "", true},
		{"garbage", "not a url at all, honestly", "", true},
	}

	for _, tt := range tests {
		got, err := extractVideoID(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: id = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFindCaptionTrack(t *testing.T) {
	tracks := []captionTrack{
		{BaseURL: "https://captions/en", LanguageCode: "en"},
		{BaseURL: "https://captions/ja", LanguageCode: "ja"},
	}

	if track := findCaptionTrack(tracks, "ja"); track == nil || track.BaseURL != "https://captions/ja" {
		t.Errorf("ja track = %+v", track)
	}
	if track := findCaptionTrack(tracks, "fr"); track != nil {
		t.Errorf("fr track = %+v, want nil", track)
	}
	if track := findCaptionTrack(nil, "en"); track != nil {
		t.Errorf("empty track list returned %+v", track)
	}
}
