//go:build !integration

package http

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blaze/internal/application/dto"
	"blaze/internal/domain/contractcall"
	valueobjects "blaze/internal/domain/value_objects"
)

func testDescriptor() contractcall.Descriptor {
	return contractcall.Descriptor{
		ContractAddress:   "SP2ZNGJ85ENDY6QRHQ5P2D4FXKGZWCKTB2T0Z55KS",
		ContractName:      "blaze-welsh-v0",
		FunctionName:      "withdraw",
		Network:           valueobjects.NetworkMainnet,
		PostConditionMode: contractcall.PostConditionModeDeny,
	}
}

func TestSignContractCallSuccess(t *testing.T) {
	const secret = "relay-secret"

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Idempotency-Key"); got != "act_1" {
			t.Fatalf("expected idempotency key act_1, got %s", got)
		}
		timestamp := r.Header.Get("X-Blaze-Timestamp")
		if timestamp != "1700000000" {
			t.Fatalf("expected fixed timestamp, got %s", timestamp)
		}
		nonce := strings.TrimSpace(r.Header.Get("X-Blaze-Nonce"))
		if len(nonce) != 2*nonceByteLength {
			t.Fatalf("expected hex nonce, got %q", nonce)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("failed to read request body: %v", err)
		}
		expected := BuildExpectedSignatureHeader(secret, timestamp, nonce, body)
		if got := r.Header.Get("X-Blaze-Signature"); got != expected {
			t.Fatalf("expected signature %s, got %s", expected, got)
		}

		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("expected json body, got %v", err)
		}
		if payload["contract"] != "SP2ZNGJ85ENDY6QRHQ5P2D4FXKGZWCKTB2T0Z55KS.blaze-welsh-v0" {
			t.Fatalf("unexpected contract %v", payload["contract"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"Finished","txId":" 0xabc "}`))
	}))
	defer server.Close()

	gateway := NewGateway(Config{URL: server.URL, HMACSecret: secret})
	gateway.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	output, appErr := gateway.SignContractCall(context.Background(), dto.SignContractCallInput{
		ActionID:   "act_1",
		Descriptor: testDescriptor(),
	})
	if appErr != nil {
		t.Fatalf("expected success, got %+v", appErr)
	}
	if output.Status != dto.SignerStatusFinished {
		t.Fatalf("expected finished, got %s", output.Status)
	}
	if output.TxID != "0xabc" {
		t.Fatalf("expected trimmed tx id, got %q", output.TxID)
	}
}

func TestSignContractCallNon2xxIsUnavailable(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.WriteHeader(nethttp.StatusBadGateway)
		_, _ = w.Write([]byte("wallet offline"))
	}))
	defer server.Close()

	gateway := NewGateway(Config{URL: server.URL, HMACSecret: "secret"})
	_, appErr := gateway.SignContractCall(context.Background(), dto.SignContractCallInput{
		ActionID:   "act_2",
		Descriptor: testDescriptor(),
	})
	if appErr == nil {
		t.Fatalf("expected error")
	}
	if appErr.Code != "signer_relay_failed" {
		t.Fatalf("expected signer_relay_failed, got %s", appErr.Code)
	}
	if appErr.Details["status_code"] != nethttp.StatusBadGateway {
		t.Fatalf("expected status code detail, got %+v", appErr.Details)
	}
	if appErr.Details["body"] != "wallet offline" {
		t.Fatalf("expected body preview, got %+v", appErr.Details)
	}
}

func TestSignContractCallConfigurationErrors(t *testing.T) {
	testCases := []struct {
		name     string
		config   Config
		actionID string
		code     string
	}{
		{name: "missing url", config: Config{HMACSecret: "secret"}, actionID: "act", code: "signer_relay_not_configured"},
		{name: "missing secret", config: Config{URL: "http://127.0.0.1:1"}, actionID: "act", code: "signer_relay_hmac_secret_missing"},
		{name: "missing action", config: Config{URL: "http://127.0.0.1:1", HMACSecret: "secret"}, actionID: " ", code: "signer_action_id_missing"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			gateway := NewGateway(testCase.config)
			_, appErr := gateway.SignContractCall(context.Background(), dto.SignContractCallInput{
				ActionID:   testCase.actionID,
				Descriptor: testDescriptor(),
			})
			if appErr == nil || appErr.Code != testCase.code {
				t.Fatalf("expected %s, got %+v", testCase.code, appErr)
			}
		})
	}
}
