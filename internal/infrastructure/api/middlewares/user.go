package middlewares

import (
	"github.com/go-chi/chi/v5"
	"github.com/mufasadev/velocity-ledger/internal/errors"
	http2 "github.com/mufasadev/velocity-ledger/internal/infrastructure/api/http"
	"github.com/mufasadev/velocity-ledger/internal/infrastructure/auth"
	"github.com/mufasadev/velocity-ledger/internal/usecases/interactor"
	"github.com/mufasadev/velocity-ledger/pkg/log"
	"net/http"
	"strings"
)

// AuthMiddleware validates the bearer token and puts the caller's user id on the request context.
func AuthMiddleware(tokens *auth.TokenIssuer, userInt *interactor.UserInteractor) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := log.GetLogger()

			header := r.Header.Get("Authorization")
			if header == "" {
				errors.HandleHTTPError(w, errors.NewUnauthorizedError(errors.ErrAuthorizationRequired))
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				errors.HandleHTTPError(w, errors.NewUnauthorizedError(errors.ErrInvalidAuthorizationHeader))
				return
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				logger.Debug().Err(err).Msg(errors.ErrInvalidToken)
				errors.HandleHTTPError(w, errors.NewUnauthorizedError(errors.ErrInvalidToken))
				return
			}

			if exists, _ := userInt.ExistsByID(r.Context(), claims.UserID); !exists {
				logger.Warn().Str("user_id", claims.UserID).Msg(errors.ErrInvalidToken)
				errors.HandleHTTPError(w, errors.NewUnauthorizedError(errors.ErrInvalidToken))
				return
			}

			next.ServeHTTP(w, r.WithContext(http2.WithUserID(r.Context(), claims.UserID)))
		})
	}
}

// SelfMiddleware only lets a caller through to routes addressed by their own user id.
func SelfMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userId := chi.URLParam(r, http2.UserIDParam)
		if userId == "" {
			errors.HandleHTTPError(w, errors.NewBadRequestError(errors.ErrUserIDRequired))
			return
		}
		if userId != http2.UserIDFromContext(r.Context()) {
			errors.HandleHTTPError(w, errors.NewForbiddenError())
			return
		}
		next.ServeHTTP(w, r)
	})
}
