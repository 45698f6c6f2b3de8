package controllers

import (
	"log"
	"net/http"

	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
)

type TransfersController struct {
	relayUseCase  portsin.RelayTransferUseCase
	faucetUseCase portsin.ClaimFaucetUseCase
	logger        *log.Logger
}

func NewTransfersController(
	relayUseCase portsin.RelayTransferUseCase,
	faucetUseCase portsin.ClaimFaucetUseCase,
	logger *log.Logger,
) *TransfersController {
	return &TransfersController{
		relayUseCase:  relayUseCase,
		faucetUseCase: faucetUseCase,
		logger:        logger,
	}
}

func (c *TransfersController) RelayTransfer(w http.ResponseWriter, r *http.Request) {
	command := dto.RelayTransferCommand{}
	if appErr := decodeJSONBody(w, r, &command); appErr != nil {
		logRequestError(c.logger, "/api/v0/blaze/xfer", r, appErr)
		writeAppError(w, appErr)
		return
	}

	output, appErr := c.relayUseCase.Execute(r.Context(), command)
	if appErr != nil {
		logRequestError(c.logger, "/api/v0/blaze/xfer", r, appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (c *TransfersController) ClaimFaucet(w http.ResponseWriter, r *http.Request) {
	command := dto.FaucetCommand{}
	if appErr := decodeJSONBody(w, r, &command); appErr != nil {
		logRequestError(c.logger, "/api/v0/blaze/faucet", r, appErr)
		writeAppError(w, appErr)
		return
	}

	output, appErr := c.faucetUseCase.Execute(r.Context(), command)
	if appErr != nil {
		logRequestError(c.logger, "/api/v0/blaze/faucet", r, appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}
