package hiro

import (
	"context"
	"net/http"
	"strings"
	"time"

	portsout "blaze/internal/application/ports/out"
	"blaze/internal/domain/clarity"
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
)

const defaultHTTPTimeout = 5 * time.Second

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Gateway answers read-only contract calls through the Hiro Stacks API.
type Gateway struct {
	client *apiClient
}

var _ portsout.ChainReadOnlyGateway = (*Gateway)(nil)

func NewGateway(cfg Config) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &Gateway{
		client: newAPIClient(
			strings.TrimSpace(cfg.BaseURL),
			strings.TrimSpace(cfg.APIKey),
			&http.Client{},
			timeout,
		),
	}
}

func (g *Gateway) CallReadOnly(
	ctx context.Context,
	contract valueobjects.Principal,
	functionName string,
	sender valueobjects.Principal,
	args []clarity.Value,
) (clarity.Value, *apperrors.AppError) {
	if g == nil || g.client == nil || g.client.baseURL == "" {
		return nil, apperrors.NewInternal(
			"chain_gateway_not_configured",
			"stacks api base url is not configured",
			nil,
		)
	}
	if !contract.IsContract() {
		return nil, apperrors.NewValidation(
			"invalid_contract",
			"read-only calls require a contract principal",
			map[string]any{"contract": contract.String()},
		)
	}

	encodedArgs, err := clarity.Args(args).Hex()
	if err != nil {
		return nil, apperrors.NewValidation(
			"invalid_function_args",
			"read-only arguments cannot be serialized",
			map[string]any{"error": err.Error(), "function": functionName},
		)
	}

	resultHex, appErr := g.client.CallReadOnly(ctx, contract.AddressString(), contract.ContractName(), functionName, readOnlyRequest{
		Sender:    sender.String(),
		Arguments: encodedArgs,
	})
	if appErr != nil {
		return nil, appErr
	}

	value, err := clarity.DeserializeHex(resultHex)
	if err != nil {
		return nil, apperrors.NewUnavailable(
			"read_only_call_failed",
			"read-only result is not a valid clarity value",
			map[string]any{"error": err.Error(), "function": functionName},
		)
	}
	return value, nil
}
