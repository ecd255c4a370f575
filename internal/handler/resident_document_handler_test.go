package handler

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
)

type documentServiceStub struct {
	bulkFiles    []dto.UploadFile
	bulkSemester models.Semester
	bulkType     models.PdfType
	readErr      error
}

func (s *documentServiceStub) UploadOne(_ context.Context, id string, pdfType models.PdfType, _ dto.UploadFile) (string, error) {
	return string(pdfType) + "/S2024_1/" + id + ".pdf", nil
}

func (s *documentServiceStub) UploadBulk(_ context.Context, semester models.Semester, pdfType models.PdfType, files []dto.UploadFile) models.UploadBatchResult {
	s.bulkSemester = semester
	s.bulkType = pdfType
	s.bulkFiles = files
	return models.UploadBatchResult{
		Total:        len(files),
		SuccessCount: len(files) - 1,
		Failures:     []models.UploadFailure{{Index: len(files) - 1, Key: files[len(files)-1].Name, Reason: models.UploadTargetNotFound}},
	}
}

func (s *documentServiceStub) Read(context.Context, string, models.PdfType) ([]byte, string, error) {
	if s.readErr != nil {
		return nil, "", s.readErr
	}
	return []byte("%PDF-1.4 body"), "홍길동_입사신청서.pdf", nil
}

func (s *documentServiceStub) ListStatus(context.Context, models.Semester) ([]models.ResidentDocumentStatus, error) {
	return []models.ResidentDocumentStatus{{ID: "r-1", HasAdmission: true}}, nil
}

func TestResidentDocumentHandlerUploadBulk(t *testing.T) {
	svc := &documentServiceStub{}
	h := NewResidentDocumentHandler(svc, 10)

	c, w := newTestContext(http.MethodPost, "/residents/pdf", nil, staffClaims)
	c.Request = multipartRequest(t, "/residents/pdf",
		map[string]string{"semester": "S2024_1", "pdfType": "DEPARTURE"},
		formFile{field: "pdfs", name: "홍길동.pdf", data: []byte("%PDF-a")},
		formFile{field: "pdfs", name: "김철수.pdf", data: []byte("%PDF-b")},
		formFile{field: "pdfs", name: "없는사람.pdf", data: []byte("%PDF-c")})
	h.UploadBulk(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.PdfTypeDeparture, svc.bulkType)
	assert.Equal(t, models.Semester("S2024_1"), svc.bulkSemester)
	require.Len(t, svc.bulkFiles, 3)
	assert.Equal(t, "홍길동.pdf", svc.bulkFiles[0].Name)
	assert.Equal(t, "없는사람.pdf", svc.bulkFiles[2].Name)

	env := decodeEnvelope(t, w)
	assert.Equal(t, "pdf 업로드 완료. 저장된 파일 수: 2개", env.Message)
	assert.Contains(t, w.Body.String(), `"reason":"TARGET_NOT_FOUND"`)
}

func TestResidentDocumentHandlerUploadBulkDefersReading(t *testing.T) {
	svc := &documentServiceStub{}
	h := NewResidentDocumentHandler(svc, 10)

	c, w := newTestContext(http.MethodPost, "/residents/pdf", nil, staffClaims)
	c.Request = multipartRequest(t, "/residents/pdf",
		map[string]string{"semester": "S2024_1", "pdfType": "ADMISSION"},
		formFile{field: "pdfs", name: "홍길동.pdf", data: []byte("%PDF-a")})
	h.UploadBulk(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.bulkFiles, 1)
	file := svc.bulkFiles[0]
	assert.Nil(t, file.Data)
	assert.Equal(t, int64(6), file.Size)
	require.NotNil(t, file.Open)

	src, err := file.Open()
	require.NoError(t, err)
	defer src.Close()
	data, err := io.ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-a"), data)
}

func TestResidentDocumentHandlerUploadBulkLimitsBatchSize(t *testing.T) {
	svc := &documentServiceStub{}
	h := NewResidentDocumentHandler(svc, 1)

	c, w := newTestContext(http.MethodPost, "/residents/pdf", nil, staffClaims)
	c.Request = multipartRequest(t, "/residents/pdf",
		map[string]string{"semester": "S2024_1", "pdfType": "ADMISSION"},
		formFile{field: "pdfs", name: "a.pdf", data: []byte("%PDF-a")},
		formFile{field: "pdfs", name: "b.pdf", data: []byte("%PDF-b")})
	h.UploadBulk(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.bulkFiles)
}

func TestResidentDocumentHandlerUploadBulkRequiresFiles(t *testing.T) {
	h := NewResidentDocumentHandler(&documentServiceStub{}, 0)

	c, w := newTestContext(http.MethodPost, "/residents/pdf", nil, staffClaims)
	c.Request = multipartRequest(t, "/residents/pdf", map[string]string{"semester": "S2024_1", "pdfType": "ADMISSION"})
	h.UploadBulk(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResidentDocumentHandlerRead(t *testing.T) {
	h := NewResidentDocumentHandler(&documentServiceStub{}, 0)

	c, w := newTestContext(http.MethodGet, "/residents/r-1/pdf?pdfType=ADMISSION", nil, staffClaims)
	c.AddParam("id", "r-1")
	h.Read(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "inline; filename*=UTF-8''")
	assert.Equal(t, "%PDF-1.4 body", w.Body.String())
}

func TestResidentDocumentHandlerReadErrors(t *testing.T) {
	h := NewResidentDocumentHandler(&documentServiceStub{readErr: appErrors.ErrNotFound}, 0)

	c, w := newTestContext(http.MethodGet, "/residents/r-1/pdf?pdfType=OTHER", nil, staffClaims)
	c.AddParam("id", "r-1")
	h.Read(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext(http.MethodGet, "/residents/r-1/pdf?pdfType=DEPARTURE", nil, staffClaims)
	c.AddParam("id", "r-1")
	h.Read(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestResidentDocumentHandlerUploadOne(t *testing.T) {
	h := NewResidentDocumentHandler(&documentServiceStub{}, 0)

	c, w := newTestContext(http.MethodPost, "/residents/r-1/pdf?pdfType=ADMISSION", nil, staffClaims)
	c.Request = multipartRequest(t, "/residents/r-1/pdf?pdfType=ADMISSION", nil,
		formFile{field: "pdf", name: "doc.pdf", data: []byte("%PDF-x")})
	c.AddParam("id", "r-1")
	h.UploadOne(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "ADMISSION/S2024_1/r-1.pdf")
}
