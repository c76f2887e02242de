// Package api exposes the service layer over a REST surface.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paisatrack/paisatrack/internal/auth"
	"github.com/paisatrack/paisatrack/internal/middleware"
	"github.com/paisatrack/paisatrack/internal/service"
)

// Server wires the HTTP routes to the services.
type Server struct {
	router       *mux.Router
	auth         *service.AuthService
	transactions *service.TransactionService
	bills        *service.BillService
	jwtManager   *auth.JWTManager
}

// NewServer creates the API server and registers all routes.
func NewServer(authSvc *service.AuthService, txSvc *service.TransactionService, billSvc *service.BillService, jwtManager *auth.JWTManager) *Server {
	s := &Server{
		router:       mux.NewRouter(),
		auth:         authSvc,
		transactions: txSvc,
		bills:        billSvc,
		jwtManager:   jwtManager,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(middleware.Metrics)

	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, messageResponse{Message: "ok"})
	}).Methods(http.MethodGet)

	// Public auth endpoints
	s.router.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost)
	s.router.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	// Everything below requires a bearer token
	authed := s.router.NewRoute().Subrouter()
	authed.Use(middleware.RequireAuth(s.jwtManager))

	authed.HandleFunc("/auth/user", s.handleCurrentUser).Methods(http.MethodGet)
	authed.HandleFunc("/auth/profile", s.handleUpdateProfile).Methods(http.MethodPut)
	authed.HandleFunc("/auth/avatar", s.handleUpdateAvatar).Methods(http.MethodPut)
	authed.HandleFunc("/auth/account", s.handleDeleteAccount).Methods(http.MethodDelete)

	authed.HandleFunc("/expenses", s.handleListTransactions).Methods(http.MethodGet)
	authed.HandleFunc("/expenses", s.handleAddTransaction).Methods(http.MethodPost)
	authed.HandleFunc("/expenses/{id}", s.handleUpdateTransaction).Methods(http.MethodPut)
	authed.HandleFunc("/expenses/{id}", s.handleDeleteTransaction).Methods(http.MethodDelete)

	authed.HandleFunc("/bills/upload", s.handleUploadBill).Methods(http.MethodPost)
	authed.HandleFunc("/bills/user", s.handleListUserBills).Methods(http.MethodGet)
	authed.HandleFunc("/bills/file/{fileId}", s.handleServeBill).Methods(http.MethodGet)
	authed.HandleFunc("/bills/{transactionId}", s.handleDeleteBill).Methods(http.MethodDelete)
}

// Handler returns the HTTP handler for the API server.
func (s *Server) Handler() http.Handler {
	return s.router
}
