package speech

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"
)

// DefaultVoice is used when the caller does not pick one.
const DefaultVoice = "ja-JP-Neural2-B"

const synthesisTimeout = 30 * time.Second

// Synthesizer turns Japanese text into MP3 audio.
type Synthesizer struct {
	client *texttospeech.Client
}

func NewSynthesizer(ctx context.Context) (*Synthesizer, error) {
	var opts []option.ClientOption
	if credsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credsPath))
	} else {
		log.Println("[speech] GOOGLE_APPLICATION_CREDENTIALS not set, relying on ambient credentials")
	}

	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create texttospeech client: %w", err)
	}
	return &Synthesizer{client: client}, nil
}

// Synthesize renders text with the given voice and returns MP3 bytes.
func (s *Synthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("text is empty")
	}
	if voice == "" {
		voice = DefaultVoice
	}

	ctx, cancel := context.WithTimeout(ctx, synthesisTimeout)
	defer cancel()

	resp, err := s.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: "ja-JP",
			Name:         voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	return resp.AudioContent, nil
}

func (s *Synthesizer) Close() error {
	return s.client.Close()
}
