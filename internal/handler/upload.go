package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"coursehub/internal/domain"

	"github.com/gin-gonic/gin"
)

type Uploader interface {
	Save(fh *multipart.FileHeader) (*domain.Upload, error)
}

// optionalUpload stores the file in field if the request carries one.
func optionalUpload(c *gin.Context, uploads Uploader, field string) (*domain.Upload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Invalid("Invalid upload: %v", err)
	}
	return uploads.Save(fh)
}
