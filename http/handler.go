package http

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/anverma/filecab"
)

// AuthService is the session surface the handlers depend on.
type AuthService interface {
	TokenResolver
	Login(ctx context.Context, authorization string) (string, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (filecab.User, error)
}

// UserService creates accounts.
type UserService interface {
	Register(ctx context.Context, email, password string) (filecab.PublicUser, error)
}

// FileService is the file surface the handlers depend on.
type FileService interface {
	ValidateUpload(ctx context.Context, req filecab.UploadRequest) (filecab.UploadParams, error)
	Upload(ctx context.Context, userID string, p filecab.UploadParams) (filecab.File, error)
	Show(ctx context.Context, userID, fileID string) (filecab.File, error)
	List(ctx context.Context, userID, parentID string, page int64) ([]filecab.File, error)
	SetVisibility(ctx context.Context, userID, fileID string, public bool) (filecab.File, error)
	Content(ctx context.Context, requesterID, fileID string) ([]byte, string, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// Handler provides the HTTP surface of the service.
type Handler struct {
	auth  AuthService
	users UserService
	files FileService
	cors  CORSConfig
}

// NewHandler creates a Handler over the three services.
func NewHandler(auth AuthService, users UserService, files FileService, corsCfg CORSConfig) *Handler {
	return &Handler{auth: auth, users: users, files: files, cors: corsCfg}
}

// Router returns the configured route tree.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.cors.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.cors.AllowedOrigins,
			AllowedMethods:   h.cors.AllowedMethods,
			AllowedHeaders:   h.cors.AllowedHeaders,
			AllowCredentials: h.cors.AllowCredentials,
			MaxAge:           h.cors.MaxAge,
		}))
	}

	r.Post("/users", h.handleRegister)
	r.Get("/connect", h.handleConnect)
	r.Get("/disconnect", h.handleDisconnect)
	r.Get("/users/me", h.handleMe)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.auth))
		r.Post("/files", h.handleUpload)
		r.Get("/files", h.handleList)
		r.Get("/files/{id}", h.handleShow)
		r.Put("/files/{id}/publish", h.handlePublish)
		r.Put("/files/{id}/unpublish", h.handleUnpublish)
	})

	r.Group(func(r chi.Router) {
		r.Use(OptionalAuth(h.auth))
		r.Get("/files/{id}/data", h.handleContent)
	})

	return r
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Bad request")
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	token, err := h.auth.Login(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), r.Header.Get(TokenHeader)); err != nil {
		HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context(), r.Header.Get(TokenHeader))
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, user.Public())
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req filecab.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Bad request")
		return
	}

	params, err := h.files.ValidateUpload(r.Context(), req)
	if err != nil {
		HandleError(w, err)
		return
	}

	file, err := h.files.Upload(r.Context(), UserIDFromContext(r.Context()), params)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, file)
}

func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	file, err := h.files.Show(r.Context(), UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, file)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	parentID := r.URL.Query().Get("parentId")

	// Any non-numeric page value falls back to the first page.
	page, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if err != nil {
		page = 0
	}

	files, listErr := h.files.List(r.Context(), UserIDFromContext(r.Context()), parentID, page)
	if listErr != nil {
		HandleError(w, listErr)
		return
	}

	_ = WriteJSON(w, http.StatusOK, files)
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, true)
}

func (h *Handler) handleUnpublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, false)
}

func (h *Handler) setVisibility(w http.ResponseWriter, r *http.Request, public bool) {
	file, err := h.files.SetVisibility(r.Context(), UserIDFromContext(r.Context()), chi.URLParam(r, "id"), public)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, file)
}

func (h *Handler) handleContent(w http.ResponseWriter, r *http.Request) {
	data, name, err := h.files.Content(r.Context(), UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeByName(name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// contentTypeByName maps a logical file name to a Content-Type by its
// extension, defaulting to application/octet-stream.
func contentTypeByName(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
