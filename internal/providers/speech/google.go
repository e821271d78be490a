package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type GoogleOptions struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// GoogleSynthesizer calls the Google Cloud Text-to-Speech REST API.
type GoogleSynthesizer struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

const googleDefaultTimeout = 60 * time.Second

type googleSynthesizeRequest struct {
	Input       googleSynthesisInput `json:"input"`
	Voice       googleVoiceParams    `json:"voice"`
	AudioConfig googleAudioConfig    `json:"audioConfig"`
}

type googleSynthesisInput struct {
	Text string `json:"text"`
}

type googleVoiceParams struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name,omitempty"`
}

type googleAudioConfig struct {
	AudioEncoding string  `json:"audioEncoding"`
	SpeakingRate  float64 `json:"speakingRate,omitempty"`
}

type googleSynthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

func NewGoogleSynthesizer(opts GoogleOptions) (*GoogleSynthesizer, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("google tts api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://texttospeech.googleapis.com/v1"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: googleDefaultTimeout}
	}
	return &GoogleSynthesizer{
		apiKey:  strings.TrimSpace(opts.APIKey),
		baseURL: baseURL,
		client:  client,
	}, nil
}

func (g *GoogleSynthesizer) Synthesize(ctx context.Context, input SynthesisInput) ([]byte, error) {
	payload := googleSynthesizeRequest{
		Input: googleSynthesisInput{Text: input.Text},
		Voice: googleVoiceParams{
			LanguageCode: input.Voice.GoogleLocale,
			Name:         input.Voice.GoogleVoice,
		},
		AudioConfig: googleAudioConfig{
			AudioEncoding: "MP3",
			SpeakingRate:  input.Speed,
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("speech: encode request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/text:synthesize?key=%s", g.baseURL, url.QueryEscape(g.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("speech: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("speech: google tts request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("speech: google tts status %d", resp.StatusCode)
	}
	var decoded googleSynthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("speech: decode response: %w", err)
	}
	if decoded.AudioContent == "" {
		return nil, errors.New("speech: google tts returned empty audio")
	}
	data, err := base64.StdEncoding.DecodeString(decoded.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("speech: decode audio content: %w", err)
	}
	return data, nil
}

var _ Synthesizer = (*GoogleSynthesizer)(nil)
