package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/StrayFurther/TimeTrack/internal/middleware"
	"github.com/StrayFurther/TimeTrack/internal/model"
	"github.com/StrayFurther/TimeTrack/internal/service"
)

const maxBodySize = 1 << 20 // 1MB

// maxUploadSize bounds profile picture uploads.
const maxUploadSize = 5 << 20 // 5MB

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// HandleExists handles GET /user/exists?email= requests.
func (h *UserHandler) HandleExists(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("email query parameter is required"))
		return
	}

	exists, err := h.service.EmailExists(r.Context(), email)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, model.ExistsResponse{Value: exists})
}

// HandleRegister handles POST /user/register requests.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := model.Validate(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid registration payload"))
		return
	}

	if err := h.service.Register(r.Context(), req); err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// HandleLogin handles POST /user/login requests.
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := model.Validate(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid login payload"))
		return
	}

	token, err := h.service.Login(r.Context(), req, r.UserAgent())
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, errorResponse("Invalid credentials"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, model.LoginResponse{Token: token})
}

// HandleDetails handles GET /user/details requests.
func (h *UserHandler) HandleDetails(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.EmailFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	detail, err := h.service.GetDetails(r.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// HandleUpdateDetails handles PUT /user/details requests.
func (h *UserHandler) HandleUpdateDetails(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.EmailFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.UpdateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := model.Validate(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid update payload"))
		return
	}

	detail, err := h.service.UpdateDetails(r.Context(), email, req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// HandleAdminUpdateDetails handles PUT /user/details/{id} requests.
func (h *UserHandler) HandleAdminUpdateDetails(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.EmailFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid user id"))
		return
	}

	var req model.AdminUpdateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := model.Validate(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid update payload"))
		return
	}

	detail, err := h.service.AdminUpdateUser(r.Context(), email, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
		case errors.Is(err, service.ErrInvalidRole):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// HandleProfilePic handles GET /user/profile-pic requests, serving the raw file.
func (h *UserHandler) HandleProfilePic(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.EmailFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	path, err := h.service.ProfilePicPath(r.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrNoProfilePic) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	http.ServeFile(w, r, path)
}

// HandleUploadProfilePic handles POST /user/profile-pic multipart requests.
func (h *UserHandler) HandleUploadProfilePic(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.EmailFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("a 'file' form field is required"))
		return
	}
	defer file.Close()

	name, err := h.service.UploadProfilePic(r.Context(), email, file, header.Filename)
	if err != nil {
		if errors.Is(err, service.ErrEmptyFile) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"fileName": name})
}

// decodeBody decodes a JSON body into dst, writing the error response itself
// when decoding fails.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}
