package listening

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoCaptions is returned when the video has no caption track for
// the requested language.
var ErrNoCaptions = errors.New("no captions for requested language")

const playerEndpoint = "https://www.youtube.com/youtubei/v1/player"

// YouTubeClient resolves caption track URLs through the public
// innertube player endpoint, the same call the web player makes.
type YouTubeClient struct {
	http *http.Client
}

func NewYouTubeClient() *YouTubeClient {
	return &YouTubeClient{
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

type playerRequest struct {
	Context playerContext `json:"context"`
	VideoID string        `json:"videoId"`
}

type playerContext struct {
	Client playerClient `json:"client"`
}

type playerClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
}

type playerResponse struct {
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
}

// SubtitleURL returns the caption track URL for lang, or ErrNoCaptions
// when the video carries no track in that language.
func (c *YouTubeClient) SubtitleURL(ctx context.Context, videoURL, lang string) (string, error) {
	videoID, err := extractVideoID(videoURL)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(playerRequest{
		Context: playerContext{
			Client: playerClient{ClientName: "WEB", ClientVersion: "2.20260101.00.00"},
		},
		VideoID: videoID,
	})
	if err != nil {
		return "", fmt.Errorf("marshal player request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, playerEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build player request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call player endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("player endpoint returned %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read player response: %w", err)
	}

	var parsed playerResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode player response: %w", err)
	}

	track := findCaptionTrack(parsed.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, lang)
	if track == nil {
		return "", fmt.Errorf("%w: %s", ErrNoCaptions, lang)
	}
	return track.BaseURL, nil
}

func findCaptionTrack(tracks []captionTrack, lang string) *captionTrack {
	for i := range tracks {
		if tracks[i].LanguageCode == lang {
			return &tracks[i]
		}
	}
	return nil
}

// extractVideoID accepts the URL shapes the frontend sends: watch,
// youtu.be, embed, shorts, or a bare 11-character id.
func extractVideoID(videoURL string) (string, error) {
	if len(videoURL) == 11 && !strings.ContainsAny(videoURL, "/?&.") {
		return videoURL, nil
	}

	u, err := url.Parse(videoURL)
	if err != nil {
		return "", fmt.Errorf("parse video URL: %w", err)
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, nil
		}
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return id, nil
		}
		for _, prefix := range []string{"/embed/", "/shorts/", "/live/"} {
			if strings.HasPrefix(u.Path, prefix) {
				if id := strings.Trim(strings.TrimPrefix(u.Path, prefix), "/"); id != "" {
					return id, nil
				}
			}
		}
	}
	return "", fmt.Errorf("could not extract video id from %q", videoURL)
}
