package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/bikram-mondal/bikram-ai/pkg/utils/safe"
)

// Defaults for the generative-language REST backend
const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1"
	DefaultModel    = "gemini-2.5-flash"
	DefaultTimeout  = 15 * time.Second
)

// REST calls the generative-language HTTP endpoint directly: one POST
// per completion, credential in the query string, hard deadline enforced
// through the request context. It performs exactly one attempt and never
// touches conversation or widget state.
type REST struct {
	apiKey       string
	systemPrompt string
	model        string
	endpoint     string
	timeout      time.Duration
	httpClient   *http.Client
}

// RESTOption configures a REST gateway
type RESTOption func(*REST)

// WithModel overrides the model name
func WithModel(model string) RESTOption {
	return func(g *REST) {
		if model != "" {
			g.model = model
		}
	}
}

// WithEndpoint overrides the API base URL (used by tests)
func WithEndpoint(endpoint string) RESTOption {
	return func(g *REST) {
		if endpoint != "" {
			g.endpoint = strings.TrimSuffix(endpoint, "/")
		}
	}
}

// WithTimeout overrides the request deadline
func WithTimeout(d time.Duration) RESTOption {
	return func(g *REST) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(client *http.Client) RESTOption {
	return func(g *REST) {
		if client != nil {
			g.httpClient = client
		}
	}
}

// NewREST creates a REST gateway. An empty apiKey is allowed at
// construction; the configuration error surfaces on first use.
func NewREST(apiKey, systemPrompt string, opts ...RESTOption) *REST {
	g := &REST{
		apiKey:       apiKey,
		systemPrompt: systemPrompt,
		model:        DefaultModel,
		endpoint:     DefaultEndpoint,
		timeout:      DefaultTimeout,
		httpClient:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generatePart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []generatePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete performs a single completion attempt
func (g *REST) Complete(ctx context.Context, userText string, history string) (string, error) {
	if g.apiKey == "" {
		return "", goerr.Wrap(ErrNoCredential, "API key is missing")
	}

	reqBody := generateRequest{
		Contents: []generateContent{
			{Parts: []generatePart{{Text: buildPrompt(g.systemPrompt, history, userText)}}},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode completion request")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	endpoint := g.endpoint + "/models/" + g.model + ":generateContent?key=" + url.QueryEscape(g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", goerr.Wrap(err, "failed to build completion request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return "", goerr.Wrap(ErrTimeout, "request aborted at deadline", goerr.V("timeout", g.timeout))
		}
		return "", goerr.Wrap(ErrRequestFailed, err.Error())
	}
	defer safe.Close(ctx, resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", goerr.Wrap(ErrRequestFailed, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", goerr.Wrap(ErrUpstreamStatus, "unexpected status",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", truncate(string(body), 256)),
		)
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", goerr.Wrap(ErrMalformedResponse, "response is not valid JSON")
	}
	if out.Error != nil {
		return "", goerr.Wrap(ErrUpstreamStatus, "API error",
			goerr.V("code", out.Error.Code),
			goerr.V("message", out.Error.Message),
		)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", goerr.Wrap(ErrMalformedResponse, "completion text is missing")
	}

	var texts []string
	for _, part := range out.Candidates[0].Content.Parts {
		texts = append(texts, part.Text)
	}
	text := strings.TrimSpace(strings.Join(texts, ""))
	if text == "" {
		return "", goerr.Wrap(ErrMalformedResponse, "completion text is empty")
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
