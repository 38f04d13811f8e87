package builtin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/orcli-org/orcli/pkg/apperr"
	"github.com/orcli-org/orcli/pkg/tool"
	"github.com/orcli-org/orcli/pkg/types"
)

const (
	webUserAgent      = "orcli/1.0.0"
	defaultWebTimeout = 30 * time.Second
	maxFetchBytes     = 4 << 20
)

func registerWebTools(reg *tool.Registry, deps Deps) error {
	tools := []*types.Tool{
		{
			Name:        "web_fetch",
			Description: "Fetch a URL, extracting readable text from HTML pages",
			Category:    tool.CategoryWeb,
			Parameters: types.ParamSchema{
				"url":     {Type: "string", Required: true, Description: "URL to fetch"},
				"raw":     {Type: "boolean", Description: "Return the body as-is instead of extracting text"},
				"save_to": {Type: "string", Description: "Write the fetched content to this file"},
				"timeout": {Type: "integer", Description: "Request timeout in seconds"},
			},
			Example: `web_fetch url=https://example.com save_to=page.txt`,
			Handler: webFetch(deps),
		},
		{
			Name:        "web_api",
			Description: "Call an HTTP API and decode a JSON response",
			Category:    tool.CategoryWeb,
			Parameters: types.ParamSchema{
				"url":     {Type: "string", Required: true, Description: "Endpoint URL"},
				"method":  {Type: "string", Description: "HTTP method, default GET"},
				"body":    {Type: "string", Description: "Request body"},
				"headers": {Type: "object", Description: "Extra request headers"},
				"timeout": {Type: "integer", Description: "Request timeout in seconds"},
			},
			Example: `web_api url=https://api.github.com/repos/golang/go method=GET`,
			Handler: webAPI(deps),
		},
	}

	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func webTimeout(args types.Args) time.Duration {
	if secs, ok := args.Int("timeout"); ok && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultWebTimeout
}

// doRequest performs the request with the shared error mapping: context
// deadline to ErrTimeout, transport failures and non-2xx statuses to
// ErrExternalService.
func doRequest(ctx context.Context, method, url, body string, headers map[string]string, timeout time.Duration) (int, http.Header, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("invalid request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", webUserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, nil, nil, fmt.Errorf("request to %s: %w", url, apperr.ErrTimeout)
		}
		return 0, nil, nil, fmt.Errorf("request to %s: %v: %w", url, err, apperr.ErrExternalService)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("reading response from %s: %v: %w", url, err, apperr.ErrExternalService)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, resp.Header, data, fmt.Errorf("request to %s returned %d: %w", url, resp.StatusCode, apperr.ErrExternalService)
	}
	return resp.StatusCode, resp.Header, data, nil
}

func webFetch(deps Deps) types.Handler {
	return func(ctx context.Context, args types.Args) (any, error) {
		url, _ := args.String("url")
		status, header, data, err := doRequest(ctx, http.MethodGet, url, "", nil, webTimeout(args))
		if err != nil {
			return nil, err
		}

		content := string(data)
		contentType := header.Get("Content-Type")
		raw, _ := args.Bool("raw")
		if !raw && strings.Contains(contentType, "text/html") {
			content = extractText(content)
		}

		out := map[string]any{
			"url":          url,
			"status":       status,
			"content_type": contentType,
			"content":      content,
			"length":       len(content),
		}

		if dest, ok := args.String("save_to"); ok && dest != "" {
			res, err := deps.Engine.Write(dest, content, nil)
			if err != nil {
				return nil, err
			}
			out["saved_to"] = dest
			out["operation_id"] = res.OperationID
		}
		return out, nil
	}
}

func webAPI(deps Deps) types.Handler {
	return func(ctx context.Context, args types.Args) (any, error) {
		url, _ := args.String("url")
		method, ok := args.String("method")
		if !ok || method == "" {
			method = http.MethodGet
		}
		method = strings.ToUpper(method)
		body, _ := args.String("body")

		headers := map[string]string{}
		if raw, ok := args["headers"].(map[string]any); ok {
			for k, v := range raw {
				if s, ok := v.(string); ok {
					headers[k] = s
				}
			}
		}
		if body != "" {
			if _, set := headers["Content-Type"]; !set {
				headers["Content-Type"] = "application/json"
			}
		}

		status, header, data, err := doRequest(ctx, method, url, body, headers, webTimeout(args))
		if err != nil {
			return nil, err
		}

		out := map[string]any{
			"url":    url,
			"method": method,
			"status": status,
		}
		var decoded any
		if json.Unmarshal(data, &decoded) == nil {
			out["json"] = decoded
		} else {
			out["body"] = string(data)
		}
		if ct := header.Get("Content-Type"); ct != "" {
			out["content_type"] = ct
		}
		return out, nil
	}
}

// extractText strips tags from an HTML document, skipping script and
// style bodies, and collapses the result into readable lines.
func extractText(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return page
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				sb.WriteString(text)
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.TrimSpace(sb.String())
}
