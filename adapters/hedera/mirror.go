package hedera

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// mirrorReader fetches topic messages from a Hedera mirror node REST API.
type mirrorReader struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
}

type topicMessage struct {
	ConsensusTimestamp string `json:"consensus_timestamp"`
	Message            string `json:"message"`
	PayerAccountID     string `json:"payer_account_id"`
	SequenceNumber     int64  `json:"sequence_number"`
	TopicID            string `json:"topic_id"`
}

type topicMessagesResponse struct {
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
	Messages []topicMessage `json:"messages"`
}

func newMirrorReader(network string, baseURL string, apiKey string, httpClient *http.Client) (*mirrorReader, error) {
	normalized, err := normalizeNetwork(network)
	if err != nil {
		return nil, err
	}

	resolvedBaseURL := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if resolvedBaseURL == "" {
		if normalized == NetworkMainnet {
			resolvedBaseURL = "https://mainnet-public.mirrornode.hedera.com"
		} else {
			resolvedBaseURL = "https://testnet.mirrornode.hedera.com"
		}
	}
	parsedBaseURL, err := url.Parse(resolvedBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid mirror base URL: %w", err)
	}
	if parsedBaseURL.Scheme != "http" && parsedBaseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid mirror base URL: scheme must be http or https")
	}
	if strings.TrimSpace(parsedBaseURL.Host) == "" {
		return nil, fmt.Errorf("invalid mirror base URL: host is required")
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &mirrorReader{
		baseURL:    strings.TrimRight(parsedBaseURL.String(), "/"),
		httpClient: httpClient,
		apiKey:     strings.TrimSpace(apiKey),
	}, nil
}

// getTopicMessages fetches all messages for a topic in ascending consensus
// order, following pagination links.
func (reader *mirrorReader) getTopicMessages(ctx context.Context, topicID string) ([]topicMessage, error) {
	if strings.TrimSpace(topicID) == "" {
		return nil, fmt.Errorf("topic ID is required")
	}

	messages := make([]topicMessage, 0)
	next := fmt.Sprintf("/api/v1/topics/%s/messages?order=asc&limit=100", topicID)

	for next != "" {
		var page topicMessagesResponse
		if err := reader.getJSON(ctx, next, &page); err != nil {
			return nil, err
		}
		messages = append(messages, page.Messages...)
		next = page.Links.Next
	}

	return messages, nil
}

func (reader *mirrorReader) getJSON(ctx context.Context, pathOrURL string, target any) error {
	requestURL := pathOrURL
	if !strings.HasPrefix(requestURL, "http://") && !strings.HasPrefix(requestURL, "https://") {
		if !strings.HasPrefix(requestURL, "/") {
			requestURL = "/" + requestURL
		}
		requestURL = reader.baseURL + requestURL
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if reader.apiKey != "" {
		request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", reader.apiKey))
	}

	response, err := reader.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("mirror node request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read mirror node response: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf(
			"mirror node request failed with status %d: %s",
			response.StatusCode,
			strings.TrimSpace(string(body)),
		)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode mirror node response: %w", err)
	}
	return nil
}

func decodeMessageData(message topicMessage) ([]byte, error) {
	if strings.TrimSpace(message.Message) == "" {
		return nil, fmt.Errorf("message payload is empty")
	}
	return base64.StdEncoding.DecodeString(message.Message)
}

func normalizeNetwork(network string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(network))
	if normalized == "" {
		return NetworkTestnet, nil
	}
	switch normalized {
	case NetworkMainnet, NetworkTestnet:
		return normalized, nil
	default:
		return "", fmt.Errorf("unsupported network %q", network)
	}
}
