package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/middleware"
	"github.com/noah-isme/dominest-api/internal/models"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.CurrentUser(c)
}

// pickQuery reads the preferred query key, falling back to the legacy name.
func pickQuery(c *gin.Context, preferred string, fallback string) string {
	if value := c.Query(preferred); value != "" {
		return value
	}
	return c.Query(fallback)
}

// pickForm is pickQuery for multipart/form fields.
func pickForm(c *gin.Context, preferred string, fallback string) string {
	if value := c.PostForm(preferred); value != "" {
		return value
	}
	if value := c.PostForm(fallback); value != "" {
		return value
	}
	return pickQuery(c, preferred, fallback)
}

func semesterParam(raw string) (models.Semester, error) {
	semester, err := models.ParseSemester(raw)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "학기 형식이 올바르지 않습니다. (예: S2024_1)")
	}
	return semester, nil
}

func pdfTypeParam(raw string) (models.PdfType, error) {
	pdfType, err := models.ParsePdfType(raw)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "pdfType은 ADMISSION 또는 DEPARTURE 이어야 합니다.")
	}
	return pdfType, nil
}

func readUpload(header *multipart.FileHeader) (dto.UploadFile, error) {
	src, err := header.Open()
	if err != nil {
		return dto.UploadFile{}, appErrors.Wrap(err, appErrors.ErrIO.Code, appErrors.ErrIO.Status, "업로드 파일을 열 수 없습니다.")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return dto.UploadFile{}, appErrors.Wrap(err, appErrors.ErrIO.Code, appErrors.ErrIO.Status, "업로드 파일을 읽을 수 없습니다.")
	}
	return dto.UploadFile{Name: header.Filename, Data: data}, nil
}

// deferredUpload wraps header without reading it, so a part that cannot be opened
// fails on its own when the service gets to it.
func deferredUpload(header *multipart.FileHeader) dto.UploadFile {
	return dto.UploadFile{
		Name: header.Filename,
		Size: header.Size,
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

func attachmentHeader(disposition, filename string) string {
	return fmt.Sprintf("%s; filename*=UTF-8''%s", disposition, url.PathEscape(filename))
}
