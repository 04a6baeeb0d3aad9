package storage

import "testing"

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name      string
		cdnDomain string
		key       string
		want      string
	}{
		{
			name:      "cdn configured",
			cdnDomain: "cdn.kotobanexus.app",
			key:       "tts/abc.mp3",
			want:      "https://cdn.kotobanexus.app/tts/abc.mp3",
		},
		{
			name: "no cdn falls back to bucket",
			key:  "user-uploads/20260828120000_draw.png",
			want: "https://storage.googleapis.com/kotoba-media/user-uploads/20260828120000_draw.png",
		},
	}

	for _, tt := range tests {
		b := &Bucket{bucketName: "kotoba-media", cdnDomain: tt.cdnDomain}
		if got := b.PublicURL(tt.key); got != tt.want {
			t.Errorf("%s: PublicURL = %q, want %q", tt.name, got, tt.want)
		}
	}
}
