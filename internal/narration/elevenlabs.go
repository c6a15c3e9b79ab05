package narration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/caratcompare/caratreel/internal/logger"
)

const elevenLabsURL = "https://api.elevenlabs.io"

type ElevenLabs struct {
	BaseURL    string
	APIKey     string
	VoiceID    string
	Model      string
	Stability  float64
	Similarity float64
	Dir        string
	Client     *http.Client
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

func (e *ElevenLabs) Synthesize(ctx context.Context, text string) (string, error) {
	log := logger.Scope("elevenlabs")

	body, err := json.Marshal(speechRequest{
		Text:    text,
		ModelID: e.Model,
		VoiceSettings: voiceSettings{
			Stability:       e.Stability,
			SimilarityBoost: e.Similarity,
			UseSpeakerBoost: true,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=mp3_44100_128", e.BaseURL, e.VoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.APIKey)

	log.Debugf("requesting voice %s, model %s", e.VoiceID, e.Model)
	resp, err := e.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("elevenlabs returned %d: %s", resp.StatusCode, string(msg))
	}

	var n int64
	path, err := writeAudio(e.Dir, func(w io.Writer) (err error) {
		n, err = io.Copy(w, resp.Body)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("saving narration: %w", err)
	}
	log.Infof("narration saved to %s (%d bytes)", path, n)
	return path, nil
}
