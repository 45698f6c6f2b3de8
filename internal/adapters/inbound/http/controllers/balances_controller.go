package controllers

import (
	"log"
	"net/http"

	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
)

type BalancesController struct {
	balanceUseCase      portsin.GetBalanceUseCase
	nonceUseCase        portsin.GetNonceUseCase
	userBalancesUseCase portsin.GetUserBalancesUseCase
	logger              *log.Logger
}

func NewBalancesController(
	balanceUseCase portsin.GetBalanceUseCase,
	nonceUseCase portsin.GetNonceUseCase,
	userBalancesUseCase portsin.GetUserBalancesUseCase,
	logger *log.Logger,
) *BalancesController {
	return &BalancesController{
		balanceUseCase:      balanceUseCase,
		nonceUseCase:        nonceUseCase,
		userBalancesUseCase: userBalancesUseCase,
		logger:              logger,
	}
}

// GetBalance answers 200 with degraded=true when the chain read failed.
func (c *BalancesController) GetBalance(w http.ResponseWriter, r *http.Request) {
	output, appErr := c.balanceUseCase.Execute(r.Context(), dto.GetBalanceQuery{
		Token:   r.PathValue("token"),
		Address: r.PathValue("address"),
	})
	if appErr != nil {
		logRequestError(c.logger, "/v1/tokens/{token}/balances/{address}", r, appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (c *BalancesController) GetNonce(w http.ResponseWriter, r *http.Request) {
	output, appErr := c.nonceUseCase.Execute(r.Context(), dto.GetNonceQuery{
		Token:   r.PathValue("token"),
		Address: r.PathValue("address"),
	})
	if appErr != nil {
		logRequestError(c.logger, "/v1/tokens/{token}/nonces/{address}", r, appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (c *BalancesController) GetUserBalances(w http.ResponseWriter, r *http.Request) {
	output, appErr := c.userBalancesUseCase.Execute(r.Context(), dto.GetUserBalancesQuery{
		Address: r.PathValue("address"),
	})
	if appErr != nil {
		logRequestError(c.logger, "/api/v0/blaze/user/{address}", r, appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output.Balances)
}
