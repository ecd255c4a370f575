package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
	"github.com/noah-isme/dominest-api/pkg/storage"
)

const uploadKindResidentPDF = "resident_pdf"

var pdfMagic = []byte("%PDF-")

type residentDocumentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Resident, error)
	FindBySemesterAndName(ctx context.Context, semester models.Semester, name string) ([]models.Resident, error)
	ListBySemester(ctx context.Context, semester models.Semester) ([]models.Resident, error)
	SetPdfPath(ctx context.Context, exec sqlx.ExtContext, id string, pdfType models.PdfType, path *string) error
}

// ResidentDocumentService stores admission and departure PDFs for residents.
type ResidentDocumentService struct {
	residents residentDocumentRepository
	store     storage.Store
	bulk      *BulkUploadProcessor
	logger    *zap.Logger
	maxBytes  int64
}

// NewResidentDocumentService constructs the service. maxBytes <= 0 disables the size check.
func NewResidentDocumentService(residents residentDocumentRepository, store storage.Store, bulk *BulkUploadProcessor, logger *zap.Logger, maxBytes int64) *ResidentDocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bulk == nil {
		bulk = NewBulkUploadProcessor(nil, logger)
	}
	return &ResidentDocumentService{residents: residents, store: store, bulk: bulk, logger: logger, maxBytes: maxBytes}
}

// DocumentPath is the deterministic storage location of a resident document.
func DocumentPath(pdfType models.PdfType, semester models.Semester, residentID string) string {
	return path.Join(string(pdfType), string(semester), residentID+".pdf")
}

// UploadOne stores a single document for the resident identified by id.
func (s *ResidentDocumentService) UploadOne(ctx context.Context, id string, pdfType models.PdfType, file dto.UploadFile) (string, error) {
	resident, err := s.residents.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "입사생을 찾을 수 없습니다.")
		}
		return "", appErrors.Internal(err, "입사생 조회에 실패했습니다.")
	}
	data, err := s.load(file)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "업로드 파일을 읽을 수 없습니다.")
	}
	if err := s.checkPDF(file.Name, data); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "PDF 파일만 업로드할 수 있습니다.")
	}

	stored, err := s.attach(ctx, resident, pdfType, data)
	if err != nil {
		var itemErr *UploadItemError
		if errors.As(err, &itemErr) && itemErr.Reason == models.UploadStorageWriteFailed {
			return "", appErrors.Wrap(err, appErrors.ErrIO.Code, appErrors.ErrIO.Status, appErrors.ErrIO.Message)
		}
		return "", appErrors.Internal(err, "파일 정보 저장에 실패했습니다.")
	}
	return stored, nil
}

type pdfUpload struct {
	file dto.UploadFile
}

func (u pdfUpload) Key() string {
	return u.file.Name
}

// UploadBulk resolves each file to a resident of semester by its name and stores it.
// Files are processed independently; the result lists every failure in request order.
func (s *ResidentDocumentService) UploadBulk(ctx context.Context, semester models.Semester, pdfType models.PdfType, files []dto.UploadFile) models.UploadBatchResult {
	items := make([]pdfUpload, 0, len(files))
	for _, f := range files {
		items = append(items, pdfUpload{file: f})
	}

	claimed := make(map[string]bool, len(items))
	return processBatch(ctx, s.bulk, uploadKindResidentPDF, items, func(ctx context.Context, item pdfUpload) error {
		data, err := s.load(item.file)
		if err != nil {
			return itemError(models.UploadMalformedInput, err)
		}
		if err := s.checkPDF(item.file.Name, data); err != nil {
			return itemError(models.UploadMalformedInput, err)
		}
		name := residentNameFromFile(item.file.Name)
		if name == "" {
			return itemError(models.UploadMalformedInput, fmt.Errorf("empty file name"))
		}

		matches, err := s.residents.FindBySemesterAndName(ctx, semester, name)
		if err != nil {
			return err
		}
		switch len(matches) {
		case 0:
			return itemError(models.UploadTargetNotFound, fmt.Errorf("no resident named %q", name))
		case 1:
		default:
			return itemError(models.UploadDuplicateTarget, fmt.Errorf("%d residents named %q", len(matches), name))
		}

		resident := matches[0]
		if claimed[resident.ID] {
			return itemError(models.UploadDuplicateTarget, fmt.Errorf("resident %s already received a file in this batch", resident.ID))
		}
		if _, err := s.attach(ctx, &resident, pdfType, data); err != nil {
			return err
		}
		claimed[resident.ID] = true
		return nil
	})
}

// Read returns the stored document bytes.
func (s *ResidentDocumentService) Read(ctx context.Context, id string, pdfType models.PdfType) ([]byte, string, error) {
	resident, err := s.residents.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "입사생을 찾을 수 없습니다.")
		}
		return nil, "", appErrors.Internal(err, "입사생 조회에 실패했습니다.")
	}
	stored := resident.PdfPath(pdfType)
	if stored == nil || *stored == "" {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s가 존재하지 않습니다.", pdfType.Label()))
	}

	data, err := s.store.Read(ctx, *stored)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s 파일을 찾을 수 없습니다.", pdfType.Label()))
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrIO.Code, appErrors.ErrIO.Status, appErrors.ErrIO.Message)
	}
	filename := fmt.Sprintf("%s_%s.pdf", resident.Name, pdfType.Label())
	return data, filename, nil
}

// ListStatus reports which documents each resident of semester has.
func (s *ResidentDocumentService) ListStatus(ctx context.Context, semester models.Semester) ([]models.ResidentDocumentStatus, error) {
	residents, err := s.residents.ListBySemester(ctx, semester)
	if err != nil {
		return nil, appErrors.Internal(err, "입사생 목록 조회에 실패했습니다.")
	}
	out := make([]models.ResidentDocumentStatus, 0, len(residents))
	for _, r := range residents {
		out = append(out, models.ResidentDocumentStatus{
			ID:            r.ID,
			Name:          r.Name,
			StudentNumber: r.StudentNumber,
			RoomNumber:    r.RoomNumber,
			HasAdmission:  r.AdmissionPdfPath != nil && *r.AdmissionPdfPath != "",
			HasDeparture:  r.DeparturePdfPath != nil && *r.DeparturePdfPath != "",
		})
	}
	return out, nil
}

// attach writes data to the resident's document path and records it. When recording
// fails the written file is removed again, unless it replaced an existing document.
func (s *ResidentDocumentService) attach(ctx context.Context, resident *models.Resident, pdfType models.PdfType, data []byte) (string, error) {
	target := DocumentPath(pdfType, resident.Semester, resident.ID)
	if err := s.store.Save(ctx, target, data); err != nil {
		return "", itemError(models.UploadStorageWriteFailed, err)
	}

	previous := resident.PdfPath(pdfType)
	if previous != nil && *previous == target {
		return target, nil
	}
	if err := s.residents.SetPdfPath(ctx, nil, resident.ID, pdfType, &target); err != nil {
		if delErr := s.store.Delete(ctx, target); delErr != nil {
			s.logger.Warn("failed to remove orphaned document", zap.String("path", target), zap.Error(delErr))
		}
		return "", itemError(models.UploadPersistFailed, err)
	}
	if previous != nil && *previous != "" {
		if err := s.store.Delete(ctx, *previous); err != nil {
			s.logger.Warn("failed to remove replaced document", zap.String("path", *previous), zap.Error(err))
		}
	}
	return target, nil
}

// load returns the file content. Streamed files over the size limit are rejected
// before any byte is read.
func (s *ResidentDocumentService) load(file dto.UploadFile) ([]byte, error) {
	if file.Data != nil || file.Open == nil {
		return file.Data, nil
	}
	if s.maxBytes > 0 && file.Size > s.maxBytes {
		return nil, fmt.Errorf("%s: %d bytes exceeds limit %d", file.Name, file.Size, s.maxBytes)
	}
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", file.Name, err)
	}
	defer src.Close()

	var reader io.Reader = src
	if s.maxBytes > 0 {
		reader = io.LimitReader(src, s.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: read: %w", file.Name, err)
	}
	return data, nil
}

func (s *ResidentDocumentService) checkPDF(name string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%s: empty file", name)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return fmt.Errorf("%s: %d bytes exceeds limit %d", name, len(data), s.maxBytes)
	}
	if !strings.EqualFold(path.Ext(name), ".pdf") {
		return fmt.Errorf("%s: not a pdf file name", name)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return fmt.Errorf("%s: missing pdf header", name)
	}
	return nil
}

func residentNameFromFile(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimSpace(strings.TrimSuffix(base, path.Ext(base)))
}
