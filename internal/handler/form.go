package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "civicwatch/internal/errors"
	"civicwatch/internal/media"
)

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// uploadedFile returns the named file part, or nil when the request carries none.
func uploadedFile(c echo.Context, field string) (*multipart.FileHeader, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	return fh, err
}

// ingest reads the named file part through the media collaborator.
func ingest(c echo.Context, field string, limit int64, accept media.Accept) (*media.Upload, error) {
	fh, err := uploadedFile(c, field)
	if err != nil {
		return nil, invalidBody(err)
	}
	upload, err := media.Ingest(fh, limit, accept)
	if err != nil {
		return nil, ToHTTPError(err)
	}
	return upload, nil
}

// optionalFormValue returns a pointer to the form value when the key is present.
func optionalFormValue(c echo.Context, key string) (*string, error) {
	form, err := c.FormParams()
	if err != nil {
		return nil, err
	}
	values, ok := form[key]
	if !ok || len(values) == 0 {
		return nil, nil
	}
	return &values[0], nil
}

// postID parses the :id path parameter. Malformed ids cannot name a post.
func postID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, ToHTTPError(apperrors.ErrPostNotFound)
	}
	return id, nil
}
