package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vytor/visualdex/internal/codec"
	"github.com/vytor/visualdex/internal/logger"
)

// GoogleClient calls the Cloud Vision images:annotate endpoint with a single
// LABEL_DETECTION feature.
type GoogleClient struct {
	endpoint   string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

func NewGoogleClient(endpoint, apiKey string, timeout time.Duration) *GoogleClient {
	return &GoogleClient{
		endpoint:   endpoint,
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

var _ Labeler = (*GoogleClient)(nil)

type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image    imageContent `json:"image"`
	Features []feature    `json:"features"`
}

type imageContent struct {
	Content string `json:"content"`
}

type feature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

type annotateResponse struct {
	Responses []struct {
		LabelAnnotations []struct {
			Description string  `json:"description"`
			Score       float64 `json:"score"`
		} `json:"labelAnnotations"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// DetectLabel returns the top label. Every failure is logged and mapped to ErrNotFound.
func (c *GoogleClient) DetectLabel(ctx context.Context, image []byte) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("vision")
	if len(image) == 0 {
		return "", ErrNotFound
	}

	label, err := c.annotate(ctx, image)
	if err != nil {
		log.Warn("label detection failed: %v", err)
		return "", ErrNotFound
	}
	if label == "" {
		log.Debug("no labels returned")
		return "", ErrNotFound
	}
	log.Debug("detected label %q", label)
	return label, nil
}

func (c *GoogleClient) annotate(ctx context.Context, image []byte) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := codec.JSON.Marshal(annotateRequest{Requests: []imageRequest{{
		Image:    imageContent{Content: base64.StdEncoding.EncodeToString(image)},
		Features: []feature{{Type: "LABEL_DETECTION", MaxResults: 1}},
	}}})
	if err != nil {
		return "", err
	}

	endpoint := c.endpoint
	if c.apiKey != "" {
		u, err := url.Parse(endpoint)
		if err != nil {
			return "", fmt.Errorf("parse endpoint: %w", err)
		}
		q := u.Query()
		q.Set("key", c.apiKey)
		u.RawQuery = q.Encode()
		endpoint = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	logger.FromContext(ctx).WithPrefix("vision").Debug("annotate response in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, string(snippet))
	}

	var out annotateResponse
	if err := codec.JSON.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Responses) == 0 {
		return "", nil
	}
	first := out.Responses[0]
	if first.Error != nil {
		return "", fmt.Errorf("annotate error %d: %s", first.Error.Code, first.Error.Message)
	}
	if len(first.LabelAnnotations) == 0 {
		return "", nil
	}
	return strings.TrimSpace(first.LabelAnnotations[0].Description), nil
}
