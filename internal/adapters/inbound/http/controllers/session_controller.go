package controllers

import (
	"log"
	"net/http"

	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
)

type SessionController struct {
	getUseCase    portsin.GetSessionUseCase
	updateUseCase portsin.UpdateSessionUseCase
	logger        *log.Logger
}

func NewSessionController(
	getUseCase portsin.GetSessionUseCase,
	updateUseCase portsin.UpdateSessionUseCase,
	logger *log.Logger,
) *SessionController {
	return &SessionController{
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		logger:        logger,
	}
}

func (c *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	output, appErr := c.getUseCase.Execute(r.Context(), dto.GetSessionQuery{})
	if appErr != nil {
		logRequestError(c.logger, "/v1/session", r, appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (c *SessionController) UpdateSession(w http.ResponseWriter, r *http.Request) {
	command := dto.UpdateSessionCommand{}
	if appErr := decodeJSONBody(w, r, &command); appErr != nil {
		logRequestError(c.logger, "/v1/session", r, appErr)
		writeAppError(w, appErr)
		return
	}

	output, appErr := c.updateUseCase.Execute(r.Context(), command)
	if appErr != nil {
		logRequestError(c.logger, "/v1/session", r, appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}
