package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"astroline/internal/content"
)

// Response represents the API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// AdminRouter builds the service HTTP surface: health plus the
// token-gated admin endpoints.
func (h *Handler) AdminRouter(library *content.Library) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}).Methods("GET")

	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(h.adminAuthMiddleware)
	admin.HandleFunc("/reload-content", h.handleReloadContent(library)).Methods("POST")
	admin.HandleFunc("/stats", h.handleStats).Methods("GET")

	return r
}

// adminAuthMiddleware checks the admin token header on every admin call
func (h *Handler) adminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Admin-Token")
		if token == "" || token != h.cfg.AdminToken {
			h.logger.Warn("Rejected admin request",
				zap.String("path", r.URL.Path),
				zap.String("remote", r.RemoteAddr))
			h.sendErrorResponse(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleReloadContent re-reads the content directory and swaps the
// fragment pools atomically
func (h *Handler) handleReloadContent(library *content.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := library.Reload(); err != nil {
			h.logger.Error("Content reload failed", zap.Error(err))
			h.sendErrorResponse(w, "content reload failed: "+err.Error(), http.StatusInternalServerError)
			return
		}

		h.logger.Info("Content pools reloaded")
		h.sendSuccessResponse(w, "content reloaded", nil)
	}
}

// handleStats reports basic pool and user counts
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.userRepo.CountUsers(ctx)
	if err != nil {
		h.logger.Error("Failed to count users", zap.Error(err))
		h.sendErrorResponse(w, "stats unavailable", http.StatusInternalServerError)
		return
	}

	quotes, err := h.quoteRepo.CountQuotes(ctx)
	if err != nil {
		h.logger.Error("Failed to count quotes", zap.Error(err))
		h.sendErrorResponse(w, "stats unavailable", http.StatusInternalServerError)
		return
	}

	cards, err := h.tarotRepo.CountCards(ctx)
	if err != nil {
		h.logger.Error("Failed to count tarot cards", zap.Error(err))
		h.sendErrorResponse(w, "stats unavailable", http.StatusInternalServerError)
		return
	}

	h.sendSuccessResponse(w, "", map[string]interface{}{
		"users":       users,
		"quotes":      quotes,
		"tarot_cards": cards,
	})
}

// StartWebServer runs the admin HTTP server until the context is done
func (h *Handler) StartWebServer(ctx context.Context, library *content.Library) {
	router := h.AdminRouter(library)

	port := h.cfg.Port
	if !strings.Contains(port, ":") {
		port = ":" + port
	}

	server := &http.Server{
		Addr:         port,
		Handler:      router,
		ReadTimeout:  h.cfg.ReadTimeout,
		WriteTimeout: h.cfg.WriteTimeout,
		IdleTimeout:  h.cfg.IdleTimeout,
	}

	h.logger.Info("Starting admin web server", zap.String("port", port))
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Fatal("Failed to start web server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	h.logger.Info("Shutting down web server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		h.logger.Error("Server shutdown error", zap.Error(err))
	}
}

func (h *Handler) sendSuccessResponse(w http.ResponseWriter, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func (h *Handler) sendErrorResponse(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{
		Success: false,
		Message: message,
	})
}
