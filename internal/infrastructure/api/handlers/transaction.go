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
)

type TransferHandler struct {
	transfers *interactor.TransferInteractor
	queries   *interactor.QueryInteractor
	logger    *zerolog.Logger
}

func NewTransferHandler(transfers *interactor.TransferInteractor, queries *interactor.QueryInteractor) *TransferHandler {
	logger := log.GetLogger()
	return &TransferHandler{transfers: transfers, queries: queries, logger: &logger}
}

// ProcessTransfer moves money out of an account owned by the caller.
func (h *TransferHandler) ProcessTransfer(w http.ResponseWriter, r *http.Request) {
	var dto dtos.TransferDTO
	if err := http2.DecodeJSON(w, r, &dto); err != nil {
		h.logger.Debug().Err(err).Msg(errors.ErrFailedDecodeRequestBody)
		errors.HandleHTTPError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	from, err := h.queries.AccountByNumber(ctx, dto.FromAccount)
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}
	if from.UserID != http2.UserIDFromContext(r.Context()) {
		errors.HandleHTTPError(w, errors.NewForbiddenError())
		return
	}

	result, err := h.transfers.ProcessTransfer(ctx, &dto)
	if err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedProcessTransfer)
		errors.HandleHTTPError(w, err)
		return
	}
	http2.WriteJSON(w, http.StatusOK, result)
}
