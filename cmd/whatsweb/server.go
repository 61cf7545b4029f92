package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	apperrors "whatsweb/internal/errors"
	"whatsweb/internal/metrics"
	"whatsweb/internal/middleware"
	"whatsweb/internal/models"
	"whatsweb/internal/service"
	"whatsweb/internal/validation"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Server exposes the web client HTTP API in front of the provider.
type Server struct {
	router     *mux.Router
	logger     *logrus.Logger
	config     *models.Config
	chats      service.ChatService
	messages   service.MessageService
	session    *service.SessionManager
	httpServer *http.Server
}

// NewServer wires the API routes over the given services.
func NewServer(cfg *models.Config, chats service.ChatService, messages service.MessageService, session *service.SessionManager, logger *logrus.Logger) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		logger:   logger,
		config:   cfg,
		chats:    chats,
		messages: messages,
		session:  session,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Observability(s.logger))

	s.router.HandleFunc("/status", s.handleStatus()).Methods(http.MethodGet)
	s.router.HandleFunc("/chats", s.handleChats()).Methods(http.MethodGet)
	s.router.HandleFunc("/messages/{chatId}", s.handleMessages()).Methods(http.MethodGet)
	s.router.HandleFunc("/send", s.handleSend()).Methods(http.MethodPost)
	s.router.HandleFunc("/send-media", s.handleSendMedia()).Methods(http.MethodPost)
	s.router.HandleFunc("/auth/qr", s.handleAuthQR()).Methods(http.MethodGet)
	s.router.HandleFunc("/whatsapp-logout", s.handleLogout()).Methods(http.MethodPost)

	s.router.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics()).Methods(http.MethodGet)

	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.config.Server.PublicDir)))
}

// Start blocks serving HTTP until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.config.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.config.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(s.config.Server.IdleTimeoutSec) * time.Second,
	}

	s.logger.Infof("Starting server on port %d", s.config.Server.Port)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.session.IsConnected() {
			s.writeJSON(w, http.StatusServiceUnavailable, models.StatusResponse{
				Status:  "not_ready",
				Message: "Session is not connected",
			})
			return
		}
		s.writeJSON(w, http.StatusOK, models.StatusResponse{Status: "ready"})
	}
}

func (s *Server) handleChats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.session.IsConnected() {
			s.writeError(w, http.StatusServiceUnavailable,
				apperrors.New(apperrors.ErrCodeProviderNotReady, "session not connected").
					WithUserMessage("WhatsApp is not connected"))
			return
		}

		chats, err := s.chats.ListChats(r.Context())
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.writeJSON(w, http.StatusOK, models.ChatsResponse{Success: true, Chats: chats})
	}
}

func (s *Server) handleMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := mux.Vars(r)["chatId"]
		if err := validation.ValidateChatID(chatID); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		limit, err := validation.ParseLimit(r.URL.Query().Get("limit"))
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		if !s.session.IsConnected() {
			s.writeError(w, http.StatusServiceUnavailable,
				apperrors.New(apperrors.ErrCodeProviderNotReady, "session not connected").
					WithUserMessage("WhatsApp is not connected"))
			return
		}

		messages, warning, err := s.messages.FetchMessages(r.Context(), chatID, limit)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.writeJSON(w, http.StatusOK, models.MessagesResponse{
			Success:  true,
			Messages: messages,
			Warning:  warning,
		})
	}
}

func (s *Server) handleSend() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest,
				apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "malformed send request").
					WithUserMessage("Request body must be valid JSON"))
			return
		}
		if err := validation.ValidateSendInput(req.ChatID, req.Message); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		if !s.session.IsConnected() {
			s.writeError(w, http.StatusServiceUnavailable,
				apperrors.New(apperrors.ErrCodeProviderNotReady, "session not connected").
					WithUserMessage("WhatsApp is not connected"))
			return
		}

		result, err := s.messages.SendText(r.Context(), req.ChatID, req.Message)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.writeJSON(w, http.StatusOK, models.SendResponse{Success: true, Result: json.RawMessage(result)})
	}
}

func (s *Server) handleSendMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxBytes := int64(s.config.Media.MaxUploadSizeMB) << 20
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		if err := r.ParseMultipartForm(maxBytes); err != nil {
			s.writeError(w, http.StatusBadRequest,
				apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "malformed upload").
					WithUserMessage("Upload is malformed or too large"))
			return
		}

		chatID := r.FormValue("chatId")
		if err := validation.ValidateChatID(chatID); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		if !s.session.IsConnected() {
			s.writeError(w, http.StatusServiceUnavailable,
				apperrors.New(apperrors.ErrCodeProviderNotReady, "session not connected").
					WithUserMessage("WhatsApp is not connected"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			s.writeError(w, http.StatusBadRequest,
				apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "missing file part").
					WithUserMessage("A file is required"))
			return
		}
		defer file.Close()

		scratchPath, err := s.saveUpload(file, header.Filename)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError,
				apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to store upload").
					WithUserMessage("Upload could not be processed"))
			return
		}
		defer os.Remove(scratchPath)

		result, err := s.messages.SendFile(r.Context(), chatID, scratchPath, header.Filename, r.FormValue("caption"))
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.writeJSON(w, http.StatusOK, models.SendResponse{Success: true, Result: json.RawMessage(result)})
	}
}

// saveUpload spools the upload to a scratch file. The random name keeps
// concurrent uploads of identically named files apart.
func (s *Server) saveUpload(file io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(s.config.Media.UploadDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.config.Media.UploadDir, uuid.New().String()+filepath.Ext(filename))

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func (s *Server) handleAuthQR() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qr, connected := s.session.Snapshot()
		s.writeJSON(w, http.StatusOK, models.QRResponse{
			Success:     true,
			QR:          qr,
			IsConnected: connected,
		})
	}
}

func (s *Server) handleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.session.Logout(r.Context()); err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.writeJSON(w, http.StatusOK, models.LogoutResponse{
			Success: true,
			Message: "Logged out, session is restarting",
		})
	}
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}

func (s *Server) handleMetrics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(metrics.GetRegistry().Snapshot()); err != nil {
			s.logger.WithError(err).Error("Failed to encode metrics response")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.WithFields(logrus.Fields{
		"code":   apperrors.GetCode(err),
		"status": status,
	}).WithError(err).Warn("Request failed")

	s.writeJSON(w, status, models.ErrorResponse{
		Success: false,
		Error:   apperrors.GetUserMessage(err),
	})
}
