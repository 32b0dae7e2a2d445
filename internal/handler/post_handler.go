package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"civicwatch/internal/auth"
	"civicwatch/internal/media"
	"civicwatch/internal/model"
	"civicwatch/internal/service"
)

const mediaField = "media"

// PostHandler handles report endpoints.
type PostHandler struct {
	postService service.PostService
	mediaLimit  int64
}

// NewPostHandler creates a new post handler. mediaLimit caps uploaded media in bytes.
func NewPostHandler(postService service.PostService, mediaLimit int64) *PostHandler {
	return &PostHandler{postService: postService, mediaLimit: mediaLimit}
}

// CreatePostRequest represents a new report. Sent as JSON or as multipart form
// data with an optional "media" file part.
type CreatePostRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	MediaType   string `json:"mediaType" form:"mediaType"`
	Category    string `json:"category" form:"category"`
	Location    string `json:"location" form:"location"`
}

// UpdatePostRequest represents a sparse content update. Absent fields keep their value.
type UpdatePostRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	MediaType   *string `json:"mediaType"`
	Category    *string `json:"category"`
	Location    *string `json:"location"`
}

// StatusRequest represents a status change.
type StatusRequest struct {
	Status string `json:"status" form:"status"`
}

// CommentRequest represents a new comment.
type CommentRequest struct {
	Text string `json:"text" form:"text"`
}

// CreatePost godoc
// @Summary Create a report
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body CreatePostRequest true "Report data"
// @Param media formData file false "Image or video, at most 10 MiB"
// @Success 201 {object} model.PostView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	upload, err := ingest(c, mediaField, h.mediaLimit, media.AcceptImageOrVideo)
	if err != nil {
		return err
	}

	view, err := h.postService.Create(c.Request().Context(), auth.ActorFromContext(c), service.CreatePostInput{
		Title:       req.Title,
		Description: req.Description,
		MediaType:   model.MediaType(req.MediaType),
		Category:    req.Category,
		Location:    req.Location,
		Media:       upload,
	})
	if err != nil {
		return ToHTTPError(err)
	}
	return c.JSON(http.StatusCreated, view)
}

// ListPosts godoc
// @Summary List reports, newest first
// @Tags posts
// @Produce json
// @Success 200 {array} model.PostView
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	views, err := h.postService.List(c.Request().Context())
	if err != nil {
		return ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, views)
}

// GetPost godoc
// @Summary Get a report
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} model.PostView
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}
	view, err := h.postService.Get(c.Request().Context(), id)
	if err != nil {
		return ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// ListMyPosts godoc
// @Summary List the caller's reports
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.PostView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/user/me [get]
func (h *PostHandler) ListMyPosts(c echo.Context) error {
	views, err := h.postService.ListMine(c.Request().Context(), auth.ActorFromContext(c))
	if err != nil {
		return ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, views)
}

// UpdatePost godoc
// @Summary Update a report's content
// @Description Only the author may update. Absent fields keep their value; a new media part replaces the old media.
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body UpdatePostRequest true "Fields to change"
// @Param media formData file false "Replacement image or video"
// @Success 200 {object} model.PostView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id} [patch]
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}

	req, err := h.bindUpdate(c)
	if err != nil {
		return invalidBody(err)
	}

	upload, err := ingest(c, mediaField, h.mediaLimit, media.AcceptImageOrVideo)
	if err != nil {
		return err
	}

	upd := service.PostUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Media:       upload,
	}
	if req.MediaType != nil {
		mediaType := model.MediaType(*req.MediaType)
		upd.MediaType = &mediaType
	}

	view, err := h.postService.UpdateContent(c.Request().Context(), auth.ActorFromContext(c), id, upd)
	if err != nil {
		return ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// bindUpdate reads a sparse update from JSON or form data, keeping absent
// fields nil.
func (h *PostHandler) bindUpdate(c echo.Context) (*UpdatePostRequest, error) {
	var req UpdatePostRequest
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if ct == "" || c.Request().ContentLength == 0 {
		return &req, nil
	}
	if !isMultipart(c) && !strings.HasPrefix(ct, echo.MIMEApplicationForm) {
		if err := c.Bind(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	fields := []struct {
		key string
		dst **string
	}{
		{"title", &req.Title},
		{"description", &req.Description},
		{"mediaType", &req.MediaType},
		{"category", &req.Category},
		{"location", &req.Location},
	}
	for _, f := range fields {
		v, err := optionalFormValue(c, f.key)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}
	return &req, nil
}

// DeletePost godoc
// @Summary Delete a report
// @Description Removes the report with its comments and votes.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}
	if err := h.postService.Delete(c.Request().Context(), auth.ActorFromContext(c), id); err != nil {
		return ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "post deleted successfully"})
}

// AdminDeletePost godoc
// @Summary Delete a report as an administrator
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/admin/{id} [delete]
func (h *PostHandler) AdminDeletePost(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}
	if err := h.postService.AdminDelete(c.Request().Context(), auth.ActorFromContext(c), id); err != nil {
		return ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "post deleted by admin"})
}

// UpdateStatus godoc
// @Summary Move a report through the triage workflow
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body StatusRequest true "posted, waitlist, in_progress or completed"
// @Success 200 {object} model.PostView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id}/status [patch]
func (h *PostHandler) UpdateStatus(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}

	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	view, err := h.postService.SetStatus(c.Request().Context(), auth.ActorFromContext(c), id, model.PostStatus(req.Status))
	if err != nil {
		return ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// ToggleVote godoc
// @Summary Vote on a report, or withdraw the vote
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} model.PostView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id}/vote [post]
func (h *PostHandler) ToggleVote(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}
	view, err := h.postService.ToggleVote(c.Request().Context(), auth.ActorFromContext(c), id)
	if err != nil {
		return ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// AddComment godoc
// @Summary Comment on a report
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body CommentRequest true "Comment"
// @Success 201 {object} model.CommentView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id}/comment [post]
func (h *PostHandler) AddComment(c echo.Context) error {
	return h.comment(c, h.postService.AddComment)
}

// AddAdminComment godoc
// @Summary Comment on a report as the administrator identity
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body CommentRequest true "Comment"
// @Success 201 {object} model.CommentView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/admin/{id}/comment [post]
func (h *PostHandler) AddAdminComment(c echo.Context) error {
	return h.comment(c, h.postService.AddAdminComment)
}

type commentFunc func(ctx context.Context, actor *auth.Actor, id uuid.UUID, text string) (*model.CommentView, error)

func (h *PostHandler) comment(c echo.Context, add commentFunc) error {
	id, err := postID(c)
	if err != nil {
		return err
	}

	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	view, err := add(c.Request().Context(), auth.ActorFromContext(c), id, req.Text)
	if err != nil {
		return ToHTTPError(err)
	}
	return c.JSON(http.StatusCreated, view)
}
