package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/yigit/personnel/internal/pkg/apperrors"
	"github.com/yigit/personnel/internal/pkg/logger"
)

// Acceptor validates uploaded documents and writes them to a FileStorage
// under a generated key. The client filename is kept for display only.
type Acceptor struct {
	storage     FileStorage
	allowed     map[string]struct{}
	maxFileSize int64
}

// NewAcceptor creates an Acceptor. Extensions are matched case-insensitively
// and may be given with or without the leading dot. A maxFileSize of zero
// disables the size check.
func NewAcceptor(storage FileStorage, allowedExtensions []string, maxFileSize int64) *Acceptor {
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			allowed[ext] = struct{}{}
		}
	}

	return &Acceptor{
		storage:     storage,
		allowed:     allowed,
		maxFileSize: maxFileSize,
	}
}

// IsAllowed reports whether filename has an extension from the allow-list.
// The extension is whatever follows the last dot.
func (a *Acceptor) IsAllowed(filename string) bool {
	ext := extension(filename)
	if ext == "" {
		return false
	}
	_, ok := a.allowed[ext]
	return ok
}

// Accept stores the uploaded file and returns its metadata. It returns
// (nil, nil) when no file was sent or its extension is not allowed.
func (a *Acceptor) Accept(ctx context.Context, fileHeader *multipart.FileHeader) (*FileInfo, error) {
	if fileHeader == nil || fileHeader.Filename == "" {
		return nil, nil
	}

	name := DisplayName(fileHeader.Filename)
	if !a.IsAllowed(name) {
		logger.Debug().Str("filename", fileHeader.Filename).Msg("Ignoring upload with disallowed extension")
		return nil, nil
	}

	if a.maxFileSize > 0 && fileHeader.Size > a.maxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", apperrors.ErrFileTooLarge, name, fileHeader.Size, a.maxFileSize)
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	// Sniff the head, then replay it in front of the rest of the stream.
	var head bytes.Buffer
	mt, err := mimetype.DetectReader(io.TeeReader(file, &head))
	if err != nil {
		return nil, fmt.Errorf("failed to detect content type: %w", err)
	}

	key := uuid.New().String() + "." + extension(name)
	if err := a.storage.Save(ctx, key, io.MultiReader(&head, file), fileHeader.Size, mt.String()); err != nil {
		return nil, err
	}

	logger.Info().Str("filename", name).Str("key", key).Str("content_type", mt.String()).Msg("File saved successfully")

	return &FileInfo{
		Key:         key,
		Filename:    name,
		FileSize:    fileHeader.Size,
		ContentType: mt.String(),
	}, nil
}

// DisplayName strips any client supplied directory components, accepting
// both slash and backslash separators.
func DisplayName(filename string) string {
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		filename = filename[i+1:]
	}
	return filename
}

func extension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}
