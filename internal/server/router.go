package server

import (
	"net/http"

	"penside/internal/handlers"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", handlers.Health)
	mux.HandleFunc("/login", handlers.Login)
	mux.HandleFunc("/signup", handlers.Signup)
	mux.HandleFunc("/logout", handlers.Logout)

	protect := func(h http.HandlerFunc) http.Handler {
		return handlers.RequireAuthentication(h)
	}

	mux.Handle("/api/lots", protect(handlers.LotsResource))
	mux.Handle("/api/lots/", protect(handlers.LotsResource))
	mux.Handle("/api/diagnoses", protect(handlers.DiagnosesResource))
	mux.Handle("/api/diagnoses/", protect(handlers.DiagnosesResource))
	mux.Handle("/api/death-reasons", protect(handlers.DeathReasons))
	mux.Handle("/api/animals", protect(handlers.AnimalsIndex))
	mux.Handle("/api/animals/search", protect(handlers.AnimalSearch))
	mux.Handle("/api/animals/", protect(handlers.AnimalResource))

	return mux
}
