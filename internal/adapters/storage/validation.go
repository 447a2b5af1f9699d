package storage

import (
	"fmt"
	"strings"

	"appraisal_portal_backend/platform/apperr"
)

// AllowedContentTypes lists the MIME types the archive accepts.
var AllowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

func ValidateContentType(contentType string) error {
	normalized := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if !AllowedContentTypes[normalized] {
		return apperr.BadRequest(fmt.Sprintf("content type %q is not allowed", contentType))
	}
	return nil
}

func validateFileSize(size, limit int64) error {
	if size <= 0 {
		return apperr.BadRequest("file is empty")
	}
	if limit > 0 && size > limit {
		return apperr.BadRequest(fmt.Sprintf("file size %d exceeds maximum of %d bytes", size, limit))
	}
	return nil
}
