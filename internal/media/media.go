// Package media validates uploaded post media and profile pictures and renders
// stored bytes as data URIs.
package media

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	apperrors "civicwatch/internal/errors"
)

// Upload is a validated upload ready to persist.
type Upload struct {
	Data        []byte
	ContentType string
}

// Accept decides whether a detected content type is allowed.
type Accept func(contentType string) bool

// AcceptImageOrVideo admits post attachments.
func AcceptImageOrVideo(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "video/")
}

// AcceptImage admits profile pictures.
func AcceptImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// Ingest reads an uploaded file part. A nil header means no upload and yields
// (nil, nil). Parts larger than limit are rejected before being read.
func Ingest(fh *multipart.FileHeader, limit int64, accept Accept) (*Upload, error) {
	if fh == nil {
		return nil, nil
	}
	if limit > 0 && fh.Size > limit {
		return nil, apperrors.ErrMediaTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	return Read(f, fh.Header.Get("Content-Type"), limit, accept)
}

// Read consumes at most limit+1 bytes from r. declared is the client-supplied
// content type, used only when the bytes are not recognised.
func Read(r io.Reader, declared string, limit int64, accept Accept) (*Upload, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, apperrors.ErrMediaTooLarge
	}
	if len(data) == 0 {
		return nil, nil
	}

	contentType := Detect(data, declared)
	if accept != nil && !accept(contentType) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedMedia, contentType)
	}
	return &Upload{Data: data, ContentType: contentType}, nil
}

// Detect sniffs data and returns its bare MIME type, falling back to declared
// when the bytes carry no recognisable signature.
func Detect(data []byte, declared string) string {
	detected := mimetype.Detect(data)
	contentType := detected.String()
	if detected.Is("application/octet-stream") && declared != "" {
		contentType = declared
	}
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		return parsed
	}
	return contentType
}

// DataURI renders data as data:<type>;base64,<payload>. Empty data yields "".
func DataURI(contentType string, data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
