package translation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/vytor/visualdex/internal/codec"
	"github.com/vytor/visualdex/internal/logger"
)

// RemoteStrategy calls a LibreTranslate-compatible HTTP endpoint.
type RemoteStrategy struct {
	url        string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

func NewRemoteStrategy(url, apiKey string, timeout time.Duration) *RemoteStrategy {
	return &RemoteStrategy{
		url:        url,
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// remoteRequest carries both the generic field names and the LibreTranslate
// ones so either flavour of server accepts it.
type remoteRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
	Q          string `json:"q"`
	Source     string `json:"source"`
	Target     string `json:"target"`
	Format     string `json:"format"`
	APIKey     string `json:"api_key,omitempty"`
}

type remoteResponse struct {
	TranslatedText string `json:"translatedText"`
}

func (s *RemoteStrategy) Name() string { return "remote" }

func (s *RemoteStrategy) Translate(ctx context.Context, req Request) (string, bool) {
	log := logger.FromContext(ctx).WithPrefix("translate")
	out, err := s.do(ctx, req)
	if err != nil {
		log.Warn("remote translation failed: %v", err)
		return "", false
	}
	return out, true
}

func (s *RemoteStrategy) do(ctx context.Context, req Request) (string, error) {
	if s.url == "" {
		return "", fmt.Errorf("no endpoint configured")
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	body, err := codec.JSON.Marshal(remoteRequest{
		Text:       req.Text,
		SourceLang: req.Source,
		TargetLang: req.Target,
		Q:          req.Text,
		Source:     req.Source,
		Target:     req.Target,
		Format:     "text",
		APIKey:     s.apiKey,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	logger.FromContext(ctx).WithPrefix("translate").Debug("remote response in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, string(snippet))
	}
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return "", fmt.Errorf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}

	var out remoteResponse
	if err := codec.JSON.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if strings.TrimSpace(out.TranslatedText) == "" {
		return "", fmt.Errorf("empty translatedText")
	}
	return out.TranslatedText, nil
}
