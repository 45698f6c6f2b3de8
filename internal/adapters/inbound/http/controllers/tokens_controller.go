package controllers

import (
	"log"
	"net/http"

	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
)

type TokensController struct {
	useCase portsin.ListTokensUseCase
	logger  *log.Logger
}

func NewTokensController(useCase portsin.ListTokensUseCase, logger *log.Logger) *TokensController {
	return &TokensController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *TokensController) ListTokens(w http.ResponseWriter, r *http.Request) {
	output, appErr := c.useCase.Execute(r.Context(), dto.ListTokensQuery{})
	if appErr != nil {
		logRequestError(c.logger, "/v1/tokens", r, appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}
