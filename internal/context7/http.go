package context7

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdi-dev/pdi/internal/errs"
)

const (
	// defaultBaseURL is the hosted Context7 API.
	defaultBaseURL = "https://context7.com/api/v1"

	// httpTimeout bounds one documentation request.
	httpTimeout = 30 * time.Second

	// docTokens is the documentation budget requested per topic.
	docTokens = 5000
)

// HTTPClient talks to the hosted Context7 API with bearer auth.
// BaseURL and Client are exported so tests can point at a test server.
type HTTPClient struct {
	BaseURL string
	Client  *http.Client
	apiKey  string
}

// NewHTTPClient returns an HTTP transport using the given API key.
// Redirects are not followed: a 3xx here means the library ID moved and
// the caller should re-resolve it.
func NewHTTPClient(apiKey string) *HTTPClient {
	return &HTTPClient{
		BaseURL: defaultBaseURL,
		Client: &http.Client{
			Timeout: httpTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		apiKey: apiKey,
	}
}

// QueryDocs fetches documentation text for libraryID focused on topic.
func (c *HTTPClient) QueryDocs(ctx context.Context, libraryID, topic string) (string, error) {
	if err := ValidateLibraryID(libraryID); err != nil {
		return "", &errs.FetchError{Category: errs.FetchNotFound, Source: errs.SourceHTTP, Err: err,
			Hint: "run `pdi doctor` to verify the configured library IDs"}
	}

	q := url.Values{}
	q.Set("type", "txt")
	q.Set("tokens", fmt.Sprint(docTokens))
	if topic != "" {
		q.Set("topic", topic)
	}
	endpoint := c.BaseURL + libraryID + "?" + q.Encode()

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

type searchResponse struct {
	Results []struct {
		ID string `json:"id"`
	} `json:"results"`
}

// ResolveLibrary searches Context7 for a library name and returns the
// best-matching library ID.
func (c *HTTPClient) ResolveLibrary(ctx context.Context, name string) (string, error) {
	endpoint := c.BaseURL + "/search?query=" + url.QueryEscape(name)
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return "", err
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil || len(sr.Results) == 0 {
		return "", &errs.FetchError{
			Category: errs.FetchNotFound,
			Source:   errs.SourceHTTP,
			Hint:     "check the library name, or pass an explicit /org/project ID",
			Err:      fmt.Errorf("no library found for %q", name),
		}
	}
	id := sr.Results[0].ID
	if !strings.HasPrefix(id, "/") {
		id = "/" + id
	}
	return id, nil
}

// Close is a no-op for the HTTP transport.
func (c *HTTPClient) Close() error { return nil }

// get performs one authenticated request and classifies failures.
func (c *HTTPClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &errs.FetchError{Category: errs.FetchUnknown, Source: errs.SourceHTTP, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, &errs.FetchError{
			Category: errs.FetchNetwork,
			Source:   errs.SourceHTTP,
			Hint:     "check your network connection and try again",
			Err:      err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if ferr := classifyStatus(resp.StatusCode); ferr != nil {
		return nil, ferr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.FetchError{Category: errs.FetchNetwork, Source: errs.SourceHTTP, Err: err}
	}
	return body, nil
}

// classifyStatus maps HTTP status codes onto the fetch-error taxonomy.
func classifyStatus(status int) *errs.FetchError {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &errs.FetchError{
			Category: errs.FetchAuth,
			Source:   errs.SourceHTTP,
			Hint:     "refresh your API key with `pdi auth --key <key>`",
			Err:      fmt.Errorf("Context7 API returned %d", status),
		}
	case status == http.StatusTooManyRequests:
		return &errs.FetchError{
			Category: errs.FetchRateLimit,
			Source:   errs.SourceHTTP,
			Hint:     "wait a minute and retry, or reduce the number of topics fetched",
			Err:      fmt.Errorf("Context7 API returned %d", status),
		}
	case status == http.StatusNotFound:
		return &errs.FetchError{
			Category: errs.FetchNotFound,
			Source:   errs.SourceHTTP,
			Hint:     "the library ID may be wrong; re-resolve it with `pdi add`",
			Err:      fmt.Errorf("Context7 API returned %d", status),
		}
	case status >= 300 && status < 400:
		return &errs.FetchError{
			Category: errs.FetchRedirect,
			Source:   errs.SourceHTTP,
			Hint:     "the library moved; re-resolve its ID with `pdi add`",
			Err:      fmt.Errorf("Context7 API returned %d", status),
		}
	default:
		return &errs.FetchError{
			Category: errs.FetchUnknown,
			Source:   errs.SourceHTTP,
			Err:      fmt.Errorf("Context7 API returned %d", status),
		}
	}
}
