package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-session-client/files"
	"github.com/rs/zerolog/log"
)

const maxUploadSize = 10 << 20

func fileID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "file_id"), 10, 64)
	return id, err == nil && id > 0
}

// UploadFileHandler stores the multipart "file" field for the caller
func (s *Server) UploadFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r.Context())
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
		part, header, err := r.FormFile("file")
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "a multipart file field is required")
			return
		}
		defer func() { _ = part.Close() }()

		content, err := io.ReadAll(io.LimitReader(part, maxUploadSize+1))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "could not read upload")
			return
		}
		if len(content) > maxUploadSize {
			writeDetail(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File size exceeds %d bytes", maxUploadSize))
			return
		}

		f := files.Describe(header.Filename, header.Header.Get("Content-Type"), int64(len(content)), claims.UserID)
		if err := s.repos.Files.Create(f, content); err != nil {
			log.Err(err).Int64("user_id", claims.UserID).Msg("failed to store upload")
			writeDetail(w, http.StatusInternalServerError, "Upload failed")
			return
		}
		log.Debug().Int64("file_id", f.ID).Str("type", string(f.FileType)).Msg("file uploaded")
		writeJSON(w, http.StatusOK, files.UploadResponse{Message: "File uploaded successfully", File: *f})
	}
}

func (s *Server) writeFileList(w http.ResponseWriter, userID int64, fileType files.Type) {
	if fileType != "" && !fileType.Valid() {
		writeDetail(w, http.StatusUnprocessableEntity, "unknown file type")
		return
	}
	list, err := s.repos.Files.List(userID, fileType)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("failed to list files")
		writeDetail(w, http.StatusInternalServerError, "Could not list files")
		return
	}
	writeJSON(w, http.StatusOK, files.NewList(list))
}

func (s *Server) ListFilesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeFileList(w, claimsFrom(r.Context()).UserID, files.Type(r.URL.Query().Get("file_type")))
	}
}

func (s *Server) ListFilesByTypeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeFileList(w, claimsFrom(r.Context()).UserID, files.Type(chi.URLParam(r, "file_type")))
	}
}

func (s *Server) GetFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := fileID(r)
		if !ok {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid file id")
			return
		}
		f, err := s.repos.Files.Get(id, claimsFrom(r.Context()).UserID)
		if err != nil {
			writeDetail(w, http.StatusNotFound, "File not found")
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

func (s *Server) DownloadFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := fileID(r)
		if !ok {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid file id")
			return
		}
		userID := claimsFrom(r.Context()).UserID
		f, err := s.repos.Files.Get(id, userID)
		if err != nil {
			writeDetail(w, http.StatusNotFound, "File not found")
			return
		}
		content, err := s.repos.Files.Content(id, userID)
		if err != nil {
			writeDetail(w, http.StatusNotFound, "File not found")
			return
		}
		w.Header().Set("Content-Type", f.MIMEType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.OriginalFilename))
		w.Header().Set("Content-Length", strconv.Itoa(len(content)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}
}

func (s *Server) DeleteFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := fileID(r)
		if !ok {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid file id")
			return
		}
		if err := s.repos.Files.Delete(id, claimsFrom(r.Context()).UserID); err != nil {
			writeDetail(w, http.StatusNotFound, "File not found")
			return
		}
		writeMessage(w, "File deleted successfully")
	}
}

// FileAuthHandler reports who the bearer token belongs to
func (s *Server) FileAuthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.repos.Users.GetByID(claimsFrom(r.Context()).UserID)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":    "Authentication successful",
			"user_id":    user.ID,
			"user_email": user.Email,
			"user_role":  user.Role,
		})
	}
}
