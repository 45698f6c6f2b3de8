package router

import (
	"net/http"

	"blaze/internal/adapters/inbound/http/controllers"
)

type Dependencies struct {
	HealthController        *controllers.HealthController
	SwaggerController       *controllers.SwaggerController
	TokensController        *controllers.TokensController
	ContractCallsController *controllers.ContractCallsController
	BalancesController      *controllers.BalancesController
	TransfersController     *controllers.TransfersController
	SessionController       *controllers.SessionController
	BalanceStreamController *controllers.BalanceStreamController
}

func New(deps Dependencies) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", deps.HealthController.GetHealth)
	mux.HandleFunc("GET /swagger", deps.SwaggerController.RedirectToIndex)
	mux.HandleFunc("GET /swagger/openapi.yaml", deps.SwaggerController.GetOpenAPISpec)
	mux.HandleFunc("GET /swagger/", deps.SwaggerController.ServeUI)

	mux.HandleFunc("GET /v1/tokens", deps.TokensController.ListTokens)
	mux.HandleFunc("GET /v1/tokens/{token}/balances/{address}", deps.BalancesController.GetBalance)
	mux.HandleFunc("GET /v1/tokens/{token}/nonces/{address}", deps.BalancesController.GetNonce)
	mux.HandleFunc("POST /v1/contract-calls/{operation}", deps.ContractCallsController.BuildContractCall)
	mux.HandleFunc("POST /v1/contract-calls/{operation}/submit", deps.ContractCallsController.SubmitContractCall)
	mux.HandleFunc("GET /v1/session", deps.SessionController.GetSession)
	mux.HandleFunc("PUT /v1/session", deps.SessionController.UpdateSession)

	mux.HandleFunc("POST /api/v0/blaze/xfer", deps.TransfersController.RelayTransfer)
	mux.HandleFunc("POST /api/v0/blaze/faucet", deps.TransfersController.ClaimFaucet)
	mux.HandleFunc("GET /api/v0/blaze/user/{address}", deps.BalancesController.GetUserBalances)
	if deps.BalanceStreamController != nil {
		mux.HandleFunc("GET /api/v0/blaze/balance-stream", deps.BalanceStreamController.Stream)
	}

	return mux
}
