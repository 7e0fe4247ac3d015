package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/AlexZinkM/devnet-accounts/internal/docs"
	"github.com/AlexZinkM/devnet-accounts/internal/handler"
)

// SetupRouter sets up router with handlers
func SetupRouter(accountsHandler *handler.AccountsHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/accounts", func(r chi.Router) {
		r.Get("/", accountsHandler.ListAccounts)
		r.Post("/", accountsHandler.Create)
		r.Get("/status", accountsHandler.Status)
		r.Post("/select", accountsHandler.Select)
	})
	r.Get("/contracts", accountsHandler.ListContracts)

	return r
}
