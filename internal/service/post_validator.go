package service

import (
	"fmt"
	"strings"

	"civicwatch/internal/errors"
	"civicwatch/internal/model"
)

// PostValidator checks report content before anything is written.
type PostValidator struct{}

// NewPostValidator creates a new post validator.
func NewPostValidator() *PostValidator {
	return &PostValidator{}
}

// ValidateCreate requires every content field and a known media type.
func (v *PostValidator) ValidateCreate(in *CreatePostInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Location = strings.TrimSpace(in.Location)

	required := []struct {
		field string
		value string
	}{
		{"title", in.Title},
		{"description", in.Description},
		{"mediaType", string(in.MediaType)},
		{"category", in.Category},
		{"location", in.Location},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is required", errors.ErrInvalidArgument, r.field)
		}
	}
	return v.ValidateMediaType(in.MediaType)
}

// ValidateUpdate checks only the fields present in upd. A present content field
// may not be blanked.
func (v *PostValidator) ValidateUpdate(upd *PostUpdate) error {
	fields := []struct {
		field string
		value *string
	}{
		{"title", upd.Title},
		{"description", upd.Description},
		{"category", upd.Category},
		{"location", upd.Location},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return fmt.Errorf("%w: %s must not be empty", errors.ErrInvalidArgument, f.field)
		}
	}
	if upd.MediaType != nil {
		return v.ValidateMediaType(*upd.MediaType)
	}
	return nil
}

// ValidateMediaType accepts image or video.
func (v *PostValidator) ValidateMediaType(t model.MediaType) error {
	if !t.IsValid() {
		return fmt.Errorf("%w %q", errors.ErrInvalidMediaType, t)
	}
	return nil
}

// ValidateStatus accepts the four workflow states.
func (v *PostValidator) ValidateStatus(s model.PostStatus) error {
	if !s.IsValid() {
		return fmt.Errorf("%w %q", errors.ErrInvalidStatus, s)
	}
	return nil
}

// NormalizeComment trims text and rejects it when empty.
func (v *PostValidator) NormalizeComment(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: text is required", errors.ErrInvalidArgument)
	}
	return text, nil
}
