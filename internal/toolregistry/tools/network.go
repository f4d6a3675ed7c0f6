package tools

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/haasonsaas/agentcore/pkg/models"
)

const maxResponseBytes = 1 << 20 // 1MB, mirrors the teacher's web fetch truncation guard

// httpClient is shared across the network tools; a generous but bounded
// timeout is enforced per-request on top of the registry's own ceiling.
var httpClient = &http.Client{Timeout: 20 * time.Second}

// FetchURLTool implements fetch_url: retrieves a URL and returns its body
// truncated to a reasonable size.
type FetchURLTool struct{}

func NewFetchURLTool() *FetchURLTool { return &FetchURLTool{} }

func (t *FetchURLTool) Descriptor() models.ToolDescriptor {
	return descriptor("fetch_url", "Fetches a URL via HTTP GET and returns the response body.", "network", models.RiskLow,
		map[string]models.ParamSchema{"url": param("string", "URL to fetch", true)})
}

func (t *FetchURLTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	return doGet(ctx, arg(args, "url"))
}

// WebSearchTool implements web_search against DuckDuckGo's HTML endpoint,
// requiring no API key — the teacher's websearch package supports
// SearXNG/DuckDuckGo/Brave backends; DuckDuckGo is the zero-config default.
type WebSearchTool struct {
	Endpoint string
}

func NewWebSearchTool() *WebSearchTool {
	return &WebSearchTool{Endpoint: "https://html.duckduckgo.com/html/"}
}

func (t *WebSearchTool) Descriptor() models.ToolDescriptor {
	return descriptor("web_search", "Performs a web search and returns the raw results page.", "network", models.RiskLow,
		map[string]models.ParamSchema{"query": param("string", "Search query", true)})
}

func (t *WebSearchTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	q := arg(args, "query")
	if strings.TrimSpace(q) == "" {
		return "", errorf("query is required")
	}
	u := t.Endpoint + "?q=" + url.QueryEscape(q)
	return doGet(ctx, u)
}

// HTTPRequestTool implements http_request: a general-purpose HTTP client
// tool supporting arbitrary methods and an optional request body.
type HTTPRequestTool struct{}

func NewHTTPRequestTool() *HTTPRequestTool { return &HTTPRequestTool{} }

func (t *HTTPRequestTool) Descriptor() models.ToolDescriptor {
	return descriptor("http_request", "Issues an HTTP request with an arbitrary method and body.", "network", models.RiskMedium,
		map[string]models.ParamSchema{
			"url":    param("string", "Target URL", true),
			"method": param("string", "HTTP method, defaults to GET", false),
			"body":   param("string", "Request body", false),
		})
}

func (t *HTTPRequestTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	rawURL := arg(args, "url")
	if rawURL == "" {
		return "", errorf("url is required")
	}
	method := strings.ToUpper(argOr(args, "method", "GET"))
	body := arg(args, "body")

	req, err := http.NewRequestWithContext(ctx, method, rawURL, strings.NewReader(body))
	if err != nil {
		return "", errorf("building request: %w", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", errorf("reading response: %w", err)
	}
	return "status: " + resp.Status + "\n\n" + string(data), nil
}

func doGet(ctx context.Context, rawURL string) (string, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", errorf("url is required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", "agentcore/1.0")
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", errorf("reading %s: %w", rawURL, err)
	}
	return string(data), nil
}
