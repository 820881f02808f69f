package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/cloudfiles/internal/common"
	"github.com/dmitrijs2005/cloudfiles/internal/server/models"
)

// Upload bodies larger than this are rejected by ParseMultipartForm.
const maxUploadMemory = 32 << 20

type signupRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type uploadResponse struct {
	Message    string `json:"message"`
	Filename   string `json:"filename"`
	FileSize   int64  `json:"file_size"`
	UploadedAt string `json:"uploaded_at"`
	S3Key      string `json:"s3_key"`
}

type fileEntry struct {
	Filename   string `json:"filename"`
	S3Key      string `json:"s3_key"`
	Size       int64  `json:"size"`
	UploadedAt string `json:"uploaded_at"`
}

type listResponse struct {
	Files []fileEntry `json:"files"`
}

type downloadResponse struct {
	PresignedURL string `json:"presigned_url"`
}

type healthResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	UploadFolder string `json:"upload_folder"`
}

func (s *HTTPServer) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.ErrorValidation
	}
	if err := s.validate.Struct(dst); err != nil {
		return common.ErrorValidation
	}
	return nil
}

func (s *HTTPServer) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	_, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateKey) {
			writeError(w, http.StatusBadRequest, "User with that email or username already exists")
			return
		}
		s.handleError(w, r, err, "Could not create user")
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "User created successfully"})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, username, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, common.ErrorUnauthorized):
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
		default:
			s.handleError(w, r, err, "Could not log in")
		}
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, Username: username})
}

func (s *HTTPServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read file")
		return
	}

	rec, err := s.files.Upload(r.Context(), userID, header.Filename, content)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			writeError(w, http.StatusBadRequest, "Filename must not be empty")
		case errors.Is(err, common.ErrorDuplicateKey):
			writeError(w, http.StatusConflict, "File with that name already exists")
		default:
			s.handleError(w, r, err, "Could not upload file")
		}
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Message:    "File uploaded successfully",
		Filename:   rec.Filename,
		FileSize:   rec.Size,
		UploadedAt: rec.UploadedAt,
		S3Key:      rec.StorageKey,
	})
}

func (s *HTTPServer) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return
	}

	records, err := s.files.List(r.Context(), userID)
	if err != nil {
		s.handleError(w, r, err, "Could not list files")
		return
	}

	writeJSON(w, http.StatusOK, listResponseFromRecords(records))
}

func listResponseFromRecords(records []*models.FileRecord) listResponse {
	resp := listResponse{Files: make([]fileEntry, 0, len(records))}
	for _, rec := range records {
		resp.Files = append(resp.Files, fileEntry{
			Filename:   rec.Filename,
			S3Key:      rec.StorageKey,
			Size:       rec.Size,
			UploadedAt: rec.UploadedAt,
		})
	}
	return resp
}

func (s *HTTPServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	storageKey := r.URL.Query().Get("s3_key")
	if storageKey == "" {
		writeError(w, http.StatusBadRequest, "Missing s3_key parameter")
		return
	}

	url, err := s.files.Download(r.Context(), storageKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		s.handleError(w, r, err, "Could not generate download link")
		return
	}

	writeJSON(w, http.StatusOK, downloadResponse{PresignedURL: url})
}

func (s *HTTPServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	storageKey := r.URL.Query().Get("s3_key")
	if storageKey == "" {
		writeError(w, http.StatusBadRequest, "Missing s3_key parameter")
		return
	}

	if err := s.files.Delete(r.Context(), storageKey); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		s.handleError(w, r, err, "Could not delete file")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "File deleted"})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		Message:      "CloudFiles API running",
		UploadFolder: s.uploadFolder,
	})
}
