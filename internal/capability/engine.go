package capability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// EngineClient talks to a local language-inference daemon over HTTP JSON. One
// client implements all three provider contracts; config decides which of its
// capabilities are actually exposed to the adapter.
type EngineClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewEngineClient(baseURL string) *EngineClient {
	return &EngineClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

type engineTranslateRequest struct {
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	Text           string `json:"text"`
}

type engineTranslateResponse struct {
	TranslatedText string `json:"translated_text"`
}

type engineDetectRequest struct {
	Text string `json:"text"`
}

type engineDetectResponse struct {
	Candidates []Candidate `json:"candidates"`
}

type engineSummarizeRequest struct {
	Text    string         `json:"text"`
	Options SummaryOptions `json:"options"`
}

type engineSummarizeResponse struct {
	Summary string `json:"summary"`
}

type engineErrorResponse struct {
	Error string `json:"error"`
}

// engineSession binds a language pair; the daemon itself is stateless, so the
// session is just the pair plus the client.
type engineSession struct {
	client *EngineClient
	source string
	target string
}

func (s *engineSession) Translate(ctx context.Context, text string) (string, error) {
	var out engineTranslateResponse
	err := s.client.post(ctx, "/v1/translate", engineTranslateRequest{
		SourceLanguage: s.source,
		TargetLanguage: s.target,
		Text:           text,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.TranslatedText, nil
}

func (c *EngineClient) NewSession(ctx context.Context, source, target string) (TranslateSession, error) {
	if !IsSupportedLanguage(source) || !IsSupportedLanguage(target) {
		return nil, fmt.Errorf("unsupported language pair %s->%s", source, target)
	}
	return &engineSession{client: c, source: source, target: target}, nil
}

func (c *EngineClient) Detect(ctx context.Context, text string) ([]Candidate, error) {
	var out engineDetectResponse
	if err := c.post(ctx, "/v1/detect", engineDetectRequest{Text: text}, &out); err != nil {
		return nil, err
	}
	return out.Candidates, nil
}

func (c *EngineClient) Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error) {
	var out engineSummarizeResponse
	err := c.post(ctx, "/v1/summarize", engineSummarizeRequest{Text: text, Options: opts}, &out)
	if err != nil {
		return "", err
	}
	return out.Summary, nil
}

func (c *EngineClient) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("engine request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read engine response: %v", err)
	}
	if resp.StatusCode >= 300 {
		var errResp engineErrorResponse
		_ = json.Unmarshal(body, &errResp)
		if errResp.Error != "" {
			return fmt.Errorf("engine error: status %d: %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("engine error: status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("invalid engine response for %s: %v", path, err)
	}
	return nil
}
