//go:build !integration

package use_cases

import (
	"context"
	"testing"

	"blaze/internal/application/dto"
	"blaze/internal/domain/clarity"
	apperrors "blaze/internal/shared_kernel/errors"
)

func TestGetBalanceUseCaseReturnsChainBalance(t *testing.T) {
	reader := &fakeChainReader{results: map[string]clarity.Value{
		"get-balance": clarity.ResponseOk{Value: clarity.NewUInt(4200000)},
	}}
	useCase := NewGetBalanceUseCase(testTokenRegistry(t), reader, nil)

	output, appErr := useCase.Execute(context.Background(), dto.GetBalanceQuery{Token: "WELSH", Address: testAlice})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Balance.String() != "4200000" || output.Degraded {
		t.Fatalf("expected balance 4200000, got %+v", output)
	}
	if len(reader.calls) != 1 || reader.calls[0].contract != testWelshBlaze || reader.calls[0].sender != testAlice {
		t.Fatalf("expected get-balance on the blaze contract, got %+v", reader.calls)
	}
}

func TestGetBalanceUseCaseFailureYieldsZero(t *testing.T) {
	testCases := []struct {
		name   string
		reader *fakeChainReader
	}{
		{
			name: "gateway error",
			reader: &fakeChainReader{errs: map[string]*apperrors.AppError{
				"get-balance": apperrors.NewUnavailable("read_only_call_failed", "node down", nil),
			}},
		},
		{
			name: "unexpected result type",
			reader: &fakeChainReader{results: map[string]clarity.Value{
				"get-balance": clarity.Bool(true),
			}},
		},
		{
			name: "error response",
			reader: &fakeChainReader{results: map[string]clarity.Value{
				"get-balance": clarity.ResponseErr{Value: clarity.NewUInt(1)},
			}},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			useCase := NewGetBalanceUseCase(testTokenRegistry(t), testCase.reader, nil)
			output, appErr := useCase.Execute(context.Background(), dto.GetBalanceQuery{Token: "WELSH", Address: testAlice})
			if appErr != nil {
				t.Fatalf("expected failure to be swallowed, got %+v", appErr)
			}
			if !output.Balance.IsZero() || !output.Degraded {
				t.Fatalf("expected degraded zero balance, got %+v", output)
			}
		})
	}
}

func TestGetBalanceUseCaseRejectsMalformedInput(t *testing.T) {
	useCase := NewGetBalanceUseCase(testTokenRegistry(t), &fakeChainReader{}, nil)

	_, appErr := useCase.Execute(context.Background(), dto.GetBalanceQuery{Token: "WELSH", Address: "not-an-address"})
	if appErr == nil || appErr.Type != apperrors.TypeValidation {
		t.Fatalf("expected validation error, got %+v", appErr)
	}

	_, appErr = useCase.Execute(context.Background(), dto.GetBalanceQuery{Token: "STX", Address: testAlice})
	if appErr == nil || appErr.Code != "unsupported_token" {
		t.Fatalf("expected unsupported_token for STX, got %+v", appErr)
	}
}

func TestGetNonceUseCaseReturnsNonce(t *testing.T) {
	reader := &fakeChainReader{results: map[string]clarity.Value{
		"get-nonce": clarity.NewUInt(7),
	}}
	useCase := NewGetNonceUseCase(testTokenRegistry(t), reader)

	output, appErr := useCase.Execute(context.Background(), dto.GetNonceQuery{Token: "WELSH", Address: testAlice})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Nonce != 7 {
		t.Fatalf("expected nonce 7, got %d", output.Nonce)
	}
}

func TestGetNonceUseCasePropagatesFailureUnchanged(t *testing.T) {
	chainErr := apperrors.NewUnavailable("read_only_call_failed", "node down", map[string]any{"status": 503})
	reader := &fakeChainReader{errs: map[string]*apperrors.AppError{"get-nonce": chainErr}}
	useCase := NewGetNonceUseCase(testTokenRegistry(t), reader)

	_, appErr := useCase.Execute(context.Background(), dto.GetNonceQuery{Token: "WELSH", Address: testAlice})
	if appErr != chainErr {
		t.Fatalf("expected the gateway error to propagate unchanged, got %+v", appErr)
	}
}
