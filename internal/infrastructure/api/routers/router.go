package routers

import (
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mufasadev/velocity-ledger/internal/di"
	"github.com/mufasadev/velocity-ledger/internal/infrastructure/api/handlers"
	http2 "github.com/mufasadev/velocity-ledger/internal/infrastructure/api/http"
	"github.com/mufasadev/velocity-ledger/internal/infrastructure/api/middlewares"
)

func NewRouter(container *di.Container, allowedOrigins []string) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", handlers.Health)

	uh := container.UserHandler
	ah := container.AccountHandler
	th := container.TransferHandler

	router.Route("/api", func(r chi.Router) {
		r.Post("/register", uh.Register)
		r.Post("/login", uh.Login)

		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(container.Tokens, container.UserInteractor))

			r.Get("/profile", uh.Profile)
			r.Post("/accounts", uh.OpenAccount)
			r.Post("/transfer", th.ProcessTransfer)
			r.Get(fmt.Sprintf("/transactions/{%s}", http2.AccountIDParam), ah.Transactions)

			r.With(middlewares.SelfMiddleware).Get(fmt.Sprintf("/accounts/{%s}", http2.UserIDParam), ah.ListAccounts)
			r.With(middlewares.SelfMiddleware).Get(fmt.Sprintf("/dashboard/{%s}", http2.UserIDParam), ah.Dashboard)
		})
	})

	return router
}
