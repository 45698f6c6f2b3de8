package controllers

import (
	"log"
	"net/http"
	"strings"

	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
)

type ContractCallsController struct {
	buildUseCase  portsin.BuildContractCallUseCase
	submitUseCase portsin.SubmitContractCallUseCase
	logger        *log.Logger
}

func NewContractCallsController(
	buildUseCase portsin.BuildContractCallUseCase,
	submitUseCase portsin.SubmitContractCallUseCase,
	logger *log.Logger,
) *ContractCallsController {
	return &ContractCallsController{
		buildUseCase:  buildUseCase,
		submitUseCase: submitUseCase,
		logger:        logger,
	}
}

func (c *ContractCallsController) BuildContractCall(w http.ResponseWriter, r *http.Request) {
	command, ok := c.parseCommand(w, r, "/v1/contract-calls/{operation}")
	if !ok {
		return
	}

	output, appErr := c.buildUseCase.Execute(r.Context(), command)
	if appErr != nil {
		logRequestError(c.logger, "/v1/contract-calls/{operation}", r, appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

// SubmitContractCall blocks until the wallet boundary reports an outcome. A
// cancelled action is a 200 with the cancelled state.
func (c *ContractCallsController) SubmitContractCall(w http.ResponseWriter, r *http.Request) {
	command, ok := c.parseCommand(w, r, "/v1/contract-calls/{operation}/submit")
	if !ok {
		return
	}

	output, appErr := c.submitUseCase.Execute(r.Context(), command)
	if appErr != nil {
		logRequestError(c.logger, "/v1/contract-calls/{operation}/submit", r, appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (c *ContractCallsController) parseCommand(w http.ResponseWriter, r *http.Request, path string) (dto.BuildContractCallCommand, bool) {
	command := dto.BuildContractCallCommand{}
	if appErr := decodeJSONBody(w, r, &command); appErr != nil {
		logRequestError(c.logger, path, r, appErr)
		writeAppError(w, appErr)
		return dto.BuildContractCallCommand{}, false
	}
	command.Operation = strings.ToLower(strings.TrimSpace(r.PathValue("operation")))
	return command, true
}
