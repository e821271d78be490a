package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type HTTPEngineOptions struct {
	BaseURL    string
	HTTPClient *http.Client
}

// HTTPSynthesizer talks to a standalone TTS engine over HTTP, such as an
// edge-tts sidecar. The engine receives the text and an Edge voice identifier
// and answers with raw MP3 bytes.
type HTTPSynthesizer struct {
	baseURL string
	client  *http.Client
}

const httpEngineDefaultTimeout = 120 * time.Second

type httpEngineRequest struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice"`
	Rate  float64 `json:"rate,omitempty"`
}

func NewHTTPSynthesizer(opts HTTPEngineOptions) (*HTTPSynthesizer, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("tts engine base url is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: httpEngineDefaultTimeout}
	}
	return &HTTPSynthesizer{baseURL: baseURL, client: client}, nil
}

func (h *HTTPSynthesizer) Synthesize(ctx context.Context, input SynthesisInput) ([]byte, error) {
	payload := httpEngineRequest{
		Text:  input.Text,
		Voice: input.Voice.EdgeVoice,
		Rate:  input.Speed,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("speech: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/synthesize", &buf)
	if err != nil {
		return nil, fmt.Errorf("speech: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")
	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("speech: tts engine request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("speech: tts engine status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("speech: read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("speech: tts engine returned empty audio")
	}
	return data, nil
}

var _ Synthesizer = (*HTTPSynthesizer)(nil)
