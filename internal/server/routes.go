package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMw)

	r.HandleFunc("/healthz", s.healthHandler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.maxBytesMw)
	api.HandleFunc("/event", s.eventHandler()).Methods(http.MethodPost)

	jobAPI := api.PathPrefix("/jobs").Subrouter()
	jobAPI.Use(s.authMw)
	jobAPI.HandleFunc("/daily-top", s.dailyTopHandler()).Methods(http.MethodPost)
	jobAPI.HandleFunc("/price-sweep", s.priceSweepHandler()).Methods(http.MethodPost)
	jobAPI.PathPrefix("").Handler(http.NotFoundHandler())

	api.PathPrefix("").Handler(http.NotFoundHandler())

	return r
}
