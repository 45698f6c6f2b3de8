package hiro

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "blaze/internal/shared_kernel/errors"
)

const maxErrorBodyBytes = 1024

type readOnlyRequest struct {
	Sender    string   `json:"sender"`
	Arguments []string `json:"arguments"`
}

type readOnlyResponse struct {
	Okay   bool   `json:"okay"`
	Result string `json:"result"`
	Cause  string `json:"cause"`
}

type apiClient struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	httpTimeout time.Duration
}

func newAPIClient(baseURL, apiKey string, httpClient *http.Client, httpTimeout time.Duration) *apiClient {
	return &apiClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		httpClient:  httpClient,
		httpTimeout: httpTimeout,
	}
}

// CallReadOnly posts to /v2/contracts/call-read and returns the hex-encoded Clarity result.
func (c *apiClient) CallReadOnly(
	ctx context.Context,
	contractAddress string,
	contractName string,
	functionName string,
	payload readOnlyRequest,
) (string, *apperrors.AppError) {
	details := map[string]any{
		"contract": contractAddress + "." + contractName,
		"function": functionName,
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.NewInternal(
			"read_only_call_failed",
			"failed to encode read-only request",
			withError(details, err),
		)
	}

	endpoint := c.baseURL + "/v2/contracts/call-read/" +
		url.PathEscape(contractAddress) + "/" +
		url.PathEscape(contractName) + "/" +
		url.PathEscape(functionName)

	requestCtx, cancel := context.WithTimeout(ctx, c.httpTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", apperrors.NewInternal(
			"read_only_call_failed",
			"failed to build read-only request",
			withError(details, err),
		)
	}
	request.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		request.Header.Set("x-api-key", c.apiKey)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", apperrors.NewUnavailable(
			"read_only_call_failed",
			"failed to call stacks node api",
			withError(details, err),
		)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))
		details["status_code"] = response.StatusCode
		details["body"] = strings.TrimSpace(string(body))
		return "", apperrors.NewUnavailable(
			"read_only_call_failed",
			"stacks node api returned non-200 status",
			details,
		)
	}

	decoded := readOnlyResponse{}
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return "", apperrors.NewUnavailable(
			"read_only_call_failed",
			"failed to decode read-only response",
			withError(details, err),
		)
	}
	if !decoded.Okay {
		details["cause"] = decoded.Cause
		return "", apperrors.NewUnavailable(
			"read_only_call_rejected",
			"read-only call was rejected by the node",
			details,
		)
	}

	return decoded.Result, nil
}

func withError(details map[string]any, err error) map[string]any {
	out := make(map[string]any, len(details)+1)
	for key, value := range details {
		out[key] = value
	}
	out["error"] = err.Error()
	return out
}
