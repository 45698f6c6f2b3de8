package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	cryptorand "crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	"blaze/internal/application/dto"
	portsout "blaze/internal/application/ports/out"
	"blaze/internal/domain/contractcall"
	apperrors "blaze/internal/shared_kernel/errors"
)

const (
	// Wallet approval is interactive, so the relay may hold the request for a while.
	defaultHTTPTimeout = 2 * time.Minute
	maxErrorBodyBytes  = 1024
	maxResponseBytes   = 64 * 1024
	nonceByteLength    = 16
)

type Config struct {
	URL        string
	HMACSecret string
	Timeout    time.Duration
}

type Gateway struct {
	url        string
	hmacSecret string
	client     *nethttp.Client
	now        func() time.Time
}

var _ portsout.SignerRelayGateway = (*Gateway)(nil)

type signRequest struct {
	ActionID   string                  `json:"actionId"`
	Contract   string                  `json:"contract"`
	Descriptor contractcall.Descriptor `json:"descriptor"`
}

func NewGateway(cfg Config) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &Gateway{
		url:        strings.TrimSpace(cfg.URL),
		hmacSecret: strings.TrimSpace(cfg.HMACSecret),
		client:     &nethttp.Client{Timeout: timeout},
		now:        time.Now,
	}
}

func (g *Gateway) SignContractCall(
	ctx context.Context,
	input dto.SignContractCallInput,
) (dto.SignContractCallOutput, *apperrors.AppError) {
	if g == nil || g.client == nil || g.url == "" {
		return dto.SignContractCallOutput{}, apperrors.NewInternal(
			"signer_relay_not_configured",
			"signer relay is not configured",
			nil,
		)
	}
	if g.hmacSecret == "" {
		return dto.SignContractCallOutput{}, apperrors.NewInternal(
			"signer_relay_hmac_secret_missing",
			"signer relay hmac secret is missing",
			nil,
		)
	}
	actionID := strings.TrimSpace(input.ActionID)
	if actionID == "" {
		return dto.SignContractCallOutput{}, apperrors.NewValidation(
			"signer_action_id_missing",
			"signer action id is required",
			nil,
		)
	}

	body, err := json.Marshal(signRequest{
		ActionID:   actionID,
		Contract:   input.Descriptor.ContractID(),
		Descriptor: input.Descriptor,
	})
	if err != nil {
		return dto.SignContractCallOutput{}, apperrors.NewInternal(
			"signer_request_encode_failed",
			"failed to encode signer request",
			map[string]any{"error": err.Error()},
		)
	}

	timestamp := strconv.FormatInt(g.now().UTC().Unix(), 10)
	nonce, err := requestNonce()
	if err != nil {
		return dto.SignContractCallOutput{}, apperrors.NewInternal(
			"signer_nonce_generation_failed",
			"failed to generate signer request nonce",
			map[string]any{"error": err.Error()},
		)
	}

	request, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return dto.SignContractCallOutput{}, apperrors.NewInternal(
			"signer_request_build_failed",
			"failed to build signer request",
			map[string]any{"error": err.Error()},
		)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Idempotency-Key", actionID)
	request.Header.Set("X-Blaze-Action-Id", actionID)
	request.Header.Set("X-Blaze-Timestamp", timestamp)
	request.Header.Set("X-Blaze-Nonce", nonce)
	request.Header.Set("X-Blaze-Signature", BuildExpectedSignatureHeader(g.hmacSecret, timestamp, nonce, body))

	response, err := g.client.Do(request)
	if err != nil {
		return dto.SignContractCallOutput{}, apperrors.NewUnavailable(
			"signer_relay_unreachable",
			"failed to reach signer relay",
			map[string]any{"action_id": actionID, "error": err.Error()},
		)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		bodyPreview := ""
		raw, readErr := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))
		if readErr == nil {
			bodyPreview = strings.TrimSpace(string(raw))
		}
		return dto.SignContractCallOutput{}, apperrors.NewUnavailable(
			"signer_relay_failed",
			"signer relay returned non-2xx status",
			map[string]any{
				"action_id":   actionID,
				"status_code": response.StatusCode,
				"body":        bodyPreview,
			},
		)
	}

	var output dto.SignContractCallOutput
	if err := json.NewDecoder(io.LimitReader(response.Body, maxResponseBytes)).Decode(&output); err != nil {
		return dto.SignContractCallOutput{}, apperrors.NewUnavailable(
			"signer_relay_failed",
			"signer relay response is not valid json",
			map[string]any{"action_id": actionID, "error": err.Error()},
		)
	}
	output.Status = dto.SignerStatus(strings.ToLower(strings.TrimSpace(string(output.Status))))
	output.TxID = strings.TrimSpace(output.TxID)

	return output, nil
}

func requestNonce() (string, error) {
	raw := make([]byte, nonceByteLength)
	if _, err := cryptorand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

func requestSignature(secret, timestamp, nonce string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(timestamp))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write([]byte(nonce))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// BuildExpectedSignatureHeader is the X-Blaze-Signature value a relay should verify against.
func BuildExpectedSignatureHeader(secret, timestamp, nonce string, body []byte) string {
	return fmt.Sprintf("sha256=%s", requestSignature(secret, timestamp, nonce, body))
}
