package handlers

import (
	"context"
	"github.com/go-chi/chi/v5"
	"github.com/mufasadev/velocity-ledger/internal/errors"
	http2 "github.com/mufasadev/velocity-ledger/internal/infrastructure/api/http"
	"github.com/mufasadev/velocity-ledger/internal/usecases/interactor"
	"github.com/mufasadev/velocity-ledger/pkg/log"
	"github.com/rs/zerolog"
	"net/http"
	"strconv"
)

type AccountHandler struct {
	interactor *interactor.QueryInteractor
	logger     *zerolog.Logger
}

func NewAccountHandler(interactor *interactor.QueryInteractor) *AccountHandler {
	logger := log.GetLogger()
	return &AccountHandler{interactor: interactor, logger: &logger}
}

// ListAccounts expects SelfMiddleware in front of it.
func (ah *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	accounts, err := ah.interactor.AccountsForUser(ctx, chi.URLParam(r, http2.UserIDParam))
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}
	http2.WriteJSON(w, http.StatusOK, accounts)
}

func (ah *AccountHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	accountId := chi.URLParam(r, http2.AccountIDParam)
	if accountId == "" {
		errors.HandleHTTPError(w, errors.NewBadRequestError(errors.ErrAccountIDRequired))
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	account, err := ah.interactor.Account(ctx, accountId)
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}
	if account.UserID != http2.UserIDFromContext(r.Context()) {
		errors.HandleHTTPError(w, errors.NewForbiddenError())
		return
	}

	txns, err := ah.interactor.Transactions(ctx, accountId, limit)
	if err != nil {
		ah.logger.Error().Err(err).Str("account_id", accountId).Msg("failed to list transactions")
		errors.HandleHTTPError(w, err)
		return
	}
	http2.WriteJSON(w, http.StatusOK, txns)
}

// Dashboard expects SelfMiddleware in front of it.
func (ah *AccountHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	dashboard, err := ah.interactor.Dashboard(ctx, chi.URLParam(r, http2.UserIDParam), limit)
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}
	http2.WriteJSON(w, http.StatusOK, dashboard)
}

// parseLimit reads ?limit=n. A missing value yields 0.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get(http2.LimitQuery)
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, errors.NewBadRequestError(errors.ErrInvalidLimit)
	}
	return limit, nil
}
