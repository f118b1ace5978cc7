// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/poiesic/finsight/core"
	"github.com/poiesic/finsight/dialog"
)

const serviceName = "finsight"

// Service is the pipeline surface the HTTP layer exposes. The assistant
// facade satisfies it.
type Service interface {
	Sync(ctx context.Context, tenantID string, transactions []core.Transaction, budgets []core.Budget, sheets []core.BalanceSheet) (int, error)
	Chat(ctx context.Context, tenantID, message string) (string, error)
}

// Server exposes the sync and chat operations over HTTP.
type Server struct {
	service   Service
	chatModel string
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithChatModel sets the model name reported by the health endpoint.
func WithChatModel(model string) Option {
	return func(s *Server) {
		s.chatModel = model
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// ErrServiceRequired is returned when a service is not provided.
var ErrServiceRequired = errors.New("service required")

// NewServer creates an HTTP server over the given service.
func NewServer(service Service, opts ...Option) (*Server, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}

	s := &Server{
		service: service,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler returns the route table as an http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sync-user-data", s.handleSync)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	logger := s.logger.With("request_id", requestID, "route", "sync-user-data")

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("malformed sync request", "err", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	transactions := make([]core.Transaction, len(req.Transactions))
	for i, p := range req.Transactions {
		transactions[i] = p.toDomain()
	}
	budgets := make([]core.Budget, len(req.Budgets))
	for i, p := range req.Budgets {
		budgets[i] = p.toDomain()
	}
	sheets := make([]core.BalanceSheet, len(req.BalanceSheets))
	for i, p := range req.BalanceSheets {
		sheets[i] = p.toDomain()
	}

	stored, err := s.service.Sync(r.Context(), req.UserID, transactions, budgets, sheets)
	if err != nil {
		if errors.Is(err, core.ErrInvalidTenantID) {
			logger.Warn("sync rejected", "err", err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("sync failed", "tenant", req.UserID, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("sync complete", "tenant", req.UserID, "vectors_stored", stored)
	writeJSON(w, http.StatusOK, syncResponse{
		Status:        "success",
		VectorsStored: stored,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	logger := s.logger.With("request_id", requestID, "route", "chat")

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("malformed chat request", "err", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := s.service.Chat(r.Context(), req.UserID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidTenantID), errors.Is(err, dialog.ErrEmptyMessage):
			logger.Warn("chat rejected", "err", err)
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			logger.Error("chat failed", "tenant", req.UserID, "err", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Service: serviceName,
		Model:   s.chatModel,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
