package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// TokenSource supplies the bearer token of the current session, or "" when logged out
type TokenSource interface {
	Token() string
}

// envelope is the response shape shared by every Fixsy service
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// apiClient performs JSON calls against one service base URL
type apiClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func newAPIClient(baseURL string, timeout time.Duration, tokens TokenSource) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tokens: tokens,
	}
}

// do sends body as JSON and decodes the envelope's data into out (if non-nil)
func (c *apiClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &APIError{Kind: KindDecode, Message: "No se pudo serializar la solicitud", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &APIError{Kind: KindConnection, Message: fmt.Sprintf("URL inválida: %s%s", c.baseURL, path), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(c.baseURL, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Printf("warning: failed to close response body: %v", closeErr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(c.baseURL, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		code, msg := "", ""
		if decodeErr == nil && env.Error != nil {
			code, msg = env.Error.Code, env.Error.Message
		}
		return httpError(resp.StatusCode, code, msg)
	}

	if out == nil {
		return nil
	}
	if decodeErr != nil {
		return &APIError{Kind: KindDecode, StatusCode: resp.StatusCode, Message: "Respuesta del servidor con formato inválido", Err: decodeErr}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return &APIError{Kind: KindDecode, StatusCode: resp.StatusCode, Message: "Respuesta del servidor sin datos"}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &APIError{Kind: KindDecode, StatusCode: resp.StatusCode, Message: "Respuesta del servidor con formato inválido", Err: err}
	}
	return nil
}
