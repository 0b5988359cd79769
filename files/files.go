// Package files describes the files a user uploads to the backend
package files

import (
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-session-client/timestamp"
)

type Type string

const (
	TypeImage    Type = "image"
	TypeDocument Type = "document"
	TypeVideo    Type = "video"
	TypeAudio    Type = "audio"
	TypeArchive  Type = "archive"
	TypeOther    Type = "other"
)

var Types = []Type{TypeImage, TypeDocument, TypeVideo, TypeAudio, TypeArchive, TypeOther}

func (t Type) Valid() bool {
	for _, v := range Types {
		if t == v {
			return true
		}
	}
	return false
}

const DefaultMIMEType = "application/octet-stream"

var extensionTypes = map[Type][]string{
	TypeImage:    {".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".svg"},
	TypeDocument: {".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt"},
	TypeVideo:    {".mp4", ".avi", ".mov", ".wmv", ".flv", ".webm"},
	TypeAudio:    {".mp3", ".wav", ".flac", ".aac", ".ogg"},
	TypeArchive:  {".zip", ".rar", ".7z", ".tar", ".gz"},
}

var mimeTypes = map[Type][]string{
	TypeImage:    {"image/"},
	TypeDocument: {"application/pdf", "application/msword"},
	TypeVideo:    {"video/"},
	TypeAudio:    {"audio/"},
	TypeArchive:  {"application/zip"},
}

// DetectType classifies a file by extension, falling back to its MIME type.
// Types are tried in a fixed order so the first match wins.
func DetectType(filename, mimeType string) Type {
	ext := strings.ToLower(path.Ext(filename))
	for _, t := range Types[:5] {
		for _, e := range extensionTypes[t] {
			if ext == e {
				return t
			}
		}
		for _, m := range mimeTypes[t] {
			if strings.Contains(mimeType, m) {
				return t
			}
		}
	}
	return TypeOther
}

type File struct {
	ID               int64          `json:"id"`
	Filename         string         `json:"filename"`
	OriginalFilename string         `json:"original_filename"`
	FileType         Type           `json:"file_type"`
	FileExtension    string         `json:"file_extension"`
	FileSize         int64          `json:"file_size"`
	FilePath         string         `json:"file_path"`
	MIMEType         string         `json:"mime_type"`
	UserID           int64          `json:"user_id"`
	CreatedAt        timestamp.Time `json:"created_at"`
	UpdatedAt        timestamp.Time `json:"updated_at"`
	URL              string         `json:"url"`
}

// Describe builds the metadata for an upload. The stored name is a fresh
// uuid keeping the original extension, filed under user/{id}/{type}/.
func Describe(originalName, mimeType string, size, userID int64) *File {
	if mimeType == "" {
		mimeType = DefaultMIMEType
	}
	ext := path.Ext(originalName)
	fileType := DetectType(originalName, mimeType)
	stored := uuid.NewString() + ext
	return &File{
		Filename:         stored,
		OriginalFilename: originalName,
		FileType:         fileType,
		FileExtension:    strings.ToLower(ext),
		FileSize:         size,
		FilePath:         path.Join("user", strconv.FormatInt(userID, 10), string(fileType), stored),
		MIMEType:         mimeType,
		UserID:           userID,
	}
}

// DownloadPath is where the backend serves the file's bytes
func DownloadPath(id int64) string {
	return "/api/v1/files/" + strconv.FormatInt(id, 10) + "/download"
}

type UploadResponse struct {
	Message string `json:"message"`
	File    File   `json:"file"`
}

type List struct {
	Files []File `json:"files"`
	Total int    `json:"total"`
}

func NewList(list []*File) *List {
	l := &List{Files: make([]File, 0, len(list))}
	for _, f := range list {
		l.Files = append(l.Files, *f)
	}
	l.Total = len(l.Files)
	return l
}
