package api

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-session-client/files"
	"github.com/jrsteele09/go-session-client/httpclient"
	"github.com/jrsteele09/go-session-client/internal/errors"
)

const filesPath = "/api/v1/files/"

type FileService struct {
	service
}

func NewFileService(client *httpclient.Client, session Binder) *FileService {
	return &FileService{service{client: client, session: session}}
}

// AuthCheck is who the backend believes the caller is
type AuthCheck struct {
	Message   string `json:"message"`
	UserID    int64  `json:"user_id"`
	UserEmail string `json:"user_email"`
	UserRole  string `json:"user_role"`
}

func filePath(id int64) string {
	return filesPath + strconv.FormatInt(id, 10)
}

// Upload stores content under filename for the current user. An empty
// mimeType is sent as application/octet-stream.
func (s *FileService) Upload(ctx context.Context, filename, mimeType string, content io.Reader) (*files.File, error) {
	var resp files.UploadResponse
	if err := s.bound(ctx, "FileService.Upload", func(ctx context.Context) error {
		return s.client.Upload(ctx, filesPath+"upload", filename, mimeType, content, &resp)
	}); err != nil {
		return nil, err
	}
	return &resp.File, nil
}

// List returns the current user's files, all of them when fileType is empty
func (s *FileService) List(ctx context.Context, fileType files.Type) (*files.List, error) {
	path := filesPath
	if fileType != "" {
		path = withQuery(path, url.Values{"file_type": {string(fileType)}})
	}
	return s.list(ctx, "FileService.List", path)
}

func (s *FileService) ByType(ctx context.Context, fileType files.Type) (*files.List, error) {
	if !fileType.Valid() {
		return nil, fmt.Errorf("[api FileService.ByType] %q: %w", fileType, errors.ErrInvalidRequest)
	}
	return s.list(ctx, "FileService.ByType", filesPath+"types/"+url.PathEscape(string(fileType)))
}

func (s *FileService) list(ctx context.Context, op, path string) (*files.List, error) {
	var list files.List
	if err := s.bound(ctx, op, func(ctx context.Context) error {
		return s.client.GetJSON(ctx, path, &list)
	}); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *FileService) Get(ctx context.Context, id int64) (*files.File, error) {
	var f files.File
	if err := s.bound(ctx, "FileService.Get", func(ctx context.Context) error {
		return s.client.GetJSON(ctx, filePath(id), &f)
	}); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *FileService) Download(ctx context.Context, id int64) ([]byte, error) {
	var content []byte
	if err := s.bound(ctx, "FileService.Download", func(ctx context.Context) error {
		var err error
		content, err = s.client.Download(ctx, files.DownloadPath(id))
		return err
	}); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *FileService) Delete(ctx context.Context, id int64) error {
	return s.bound(ctx, "FileService.Delete", func(ctx context.Context) error {
		return s.client.DeleteJSON(ctx, filePath(id), nil)
	})
}

// CheckAuth asks the backend to identify the bearer of the current token
func (s *FileService) CheckAuth(ctx context.Context) (*AuthCheck, error) {
	var check AuthCheck
	if err := s.bound(ctx, "FileService.CheckAuth", func(ctx context.Context) error {
		return s.client.GetJSON(ctx, filesPath+"test-auth", &check)
	}); err != nil {
		return nil, err
	}
	return &check, nil
}
