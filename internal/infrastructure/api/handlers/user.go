package handlers

import (
	"context"
	"github.com/mufasadev/velocity-ledger/internal/errors"
	http2 "github.com/mufasadev/velocity-ledger/internal/infrastructure/api/http"
	"github.com/mufasadev/velocity-ledger/internal/usecases/dtos"
	"github.com/mufasadev/velocity-ledger/internal/usecases/interactor"
	"github.com/mufasadev/velocity-ledger/pkg/log"
	"github.com/rs/zerolog"
	"net/http"
	"time"
)

const requestTimeout = 5 * time.Second

type UserHandler struct {
	interactor *interactor.UserInteractor
	logger     *zerolog.Logger
}

func NewUserHandler(interactor *interactor.UserInteractor) *UserHandler {
	logger := log.GetLogger()
	return &UserHandler{interactor: interactor, logger: &logger}
}

func (uh *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var dto dtos.RegisterDTO
	if err := http2.DecodeJSON(w, r, &dto); err != nil {
		uh.logger.Debug().Err(err).Msg(errors.ErrFailedDecodeRequestBody)
		errors.HandleHTTPError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := uh.interactor.Register(ctx, &dto)
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}
	http2.WriteJSON(w, http.StatusCreated, result)
}

func (uh *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var dto dtos.LoginDTO
	if err := http2.DecodeJSON(w, r, &dto); err != nil {
		errors.HandleHTTPError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := uh.interactor.Login(ctx, &dto)
	if err != nil {
		uh.logger.Info().Str("email", dto.Email).Msg("login rejected")
		errors.HandleHTTPError(w, err)
		return
	}
	http2.WriteJSON(w, http.StatusOK, result)
}

func (uh *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := uh.interactor.Profile(ctx, http2.UserIDFromContext(r.Context()))
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}
	http2.WriteJSON(w, http.StatusOK, user)
}

func (uh *UserHandler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	dto := dtos.OpenAccountDTO{AccountType: "checking"}
	if r.ContentLength != 0 {
		if err := http2.DecodeJSON(w, r, &dto); err != nil {
			errors.HandleHTTPError(w, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	account, err := uh.interactor.OpenAccount(ctx, http2.UserIDFromContext(r.Context()), &dto)
	if err != nil {
		uh.logger.Error().Err(err).Msg("failed to open account")
		errors.HandleHTTPError(w, err)
		return
	}
	http2.WriteJSON(w, http.StatusCreated, account)
}
