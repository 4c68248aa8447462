package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Ravi280797/standards-implementations/pkg/shared"
)

// RESTConfig configures a RESTDirectory.
type RESTConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	APIKey     string
	Headers    map[string]string
}

// RESTDirectory resolves directory entries against a remote directory
// node's REST API. Every Lookup is a fresh round-trip; the directory node
// owns registration.
type RESTDirectory struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	headers    map[string]string
}

type entryResponse struct {
	Subject     string `json:"subject"`
	Tag         string `json:"tag"`
	Implementer string `json:"implementer"`
}

// NewRESTDirectory creates a new RESTDirectory.
func NewRESTDirectory(config RESTConfig) (*RESTDirectory, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("directory base URL is required")
	}
	parsedBaseURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid directory base URL: %w", err)
	}
	if parsedBaseURL.Scheme != "http" && parsedBaseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid directory base URL: scheme must be http or https")
	}
	if strings.TrimSpace(parsedBaseURL.Host) == "" {
		return nil, fmt.Errorf("invalid directory base URL: host is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	headers := map[string]string{}
	for key, value := range config.Headers {
		headers[key] = value
	}

	return &RESTDirectory{
		baseURL:    strings.TrimRight(parsedBaseURL.String(), "/"),
		httpClient: httpClient,
		apiKey:     strings.TrimSpace(config.APIKey),
		headers:    headers,
	}, nil
}

// BaseURL returns the configured directory node base URL.
func (d *RESTDirectory) BaseURL() string {
	return d.baseURL
}

// Lookup implements Service. A 404 from the directory node reads as no
// entry.
func (d *RESTDirectory) Lookup(
	ctx context.Context,
	subject shared.Identity,
	tag InterfaceTag,
) (shared.Identity, bool, error) {
	path := fmt.Sprintf("/api/v1/entries/%s/%s", subject, tag)

	var entry entryResponse
	found, err := d.getJSON(ctx, path, &entry)
	if err != nil {
		return shared.ZeroIdentity, false, err
	}
	if !found || strings.TrimSpace(entry.Implementer) == "" {
		return shared.ZeroIdentity, false, nil
	}

	implementer, err := shared.ParseIdentity(entry.Implementer)
	if err != nil {
		return shared.ZeroIdentity, false, fmt.Errorf("directory node returned malformed implementer: %w", err)
	}

	return implementer, true, nil
}

func (d *RESTDirectory) getJSON(ctx context.Context, path string, target any) (bool, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+path, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	request.Header.Set("Accept", "application/json")
	if d.apiKey != "" {
		request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", d.apiKey))
	}
	for key, value := range d.headers {
		request.Header.Set(key, value)
	}

	response, err := d.httpClient.Do(request)
	if err != nil {
		return false, fmt.Errorf("directory node request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read directory node response: %w", err)
	}

	if response.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return false, fmt.Errorf(
			"directory node request failed with status %d: %s",
			response.StatusCode,
			strings.TrimSpace(string(body)),
		)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return false, fmt.Errorf("failed to decode directory node response: %w", err)
	}

	return true, nil
}
