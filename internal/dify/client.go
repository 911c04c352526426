package dify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	chatMessagesEndpoint = "/v1/chat-messages"
	fileUploadEndpoint   = "/v1/files/upload"

	DefaultTimeout = 75 * time.Second
)

// ChatMessageResponse is the raw upstream payload. The response shape varies
// wildly between app configurations, so it stays a loose map and the extract
// helpers deal with the variants.
type ChatMessageResponse map[string]any

// FilePayload references an uploaded or remote file in a chat request.
type FilePayload map[string]any

type ChatMessageParams struct {
	Query          string
	Inputs         map[string]any
	ConversationID string
	User           string
	Files          []FilePayload
	Timeout        time.Duration
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

// UpstreamError carries the status and body of a non-2xx Dify response so
// callers can pass the upstream message through.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("dify request failed: %d - %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("dify request failed: %d", e.StatusCode)
}

// SendChatMessage posts a blocking chat-messages request.
func (c *Client) SendChatMessage(ctx context.Context, params ChatMessageParams) (ChatMessageResponse, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, fmt.Errorf("query is required to send a chat message")
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("dify API key is not configured")
	}

	body := map[string]any{
		"inputs":        map[string]any{},
		"query":         params.Query,
		"response_mode": "blocking",
		"user":          "server",
		"files":         []FilePayload{},
	}
	if params.Inputs != nil {
		body["inputs"] = params.Inputs
	}
	if params.User != "" {
		body["user"] = params.User
	}
	if params.Files != nil {
		body["files"] = params.Files
	}
	if strings.TrimSpace(params.ConversationID) != "" {
		body["conversation_id"] = params.ConversationID
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	timeout := params.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatMessagesEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: readErrorBody(resp.Body)}
	}

	var decoded ChatMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}

	return decoded, nil
}

// UploadBase64File decodes the payload and forwards it to the Dify file
// upload endpoint. Returns the opaque upload file ID.
func (c *Client) UploadBase64File(ctx context.Context, base64Data, fileName, mimeType string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("dify API key is not configured")
	}

	data, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return "", fmt.Errorf("invalid base64 file payload: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := writer.WriteField("user", "server"); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+fileUploadEndpoint, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: readErrorBody(resp.Body)}
	}

	var decoded struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if decoded.ID == "" {
		return "", fmt.Errorf("upload response did not contain a file ID")
	}

	return decoded.ID, nil
}

// DownloadImage fetches an image URL (with the API key attached, since Dify
// result URLs can require it) and returns base64 data plus the content type.
func (c *Client) DownloadImage(ctx context.Context, imageURL string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", "", err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", &UpstreamError{StatusCode: resp.StatusCode, Body: readErrorBody(resp.Body)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}

	return base64.StdEncoding.EncodeToString(data), resp.Header.Get("Content-Type"), nil
}

func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
