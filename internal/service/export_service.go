package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
	"github.com/noah-isme/dominest-api/pkg/export"
	"github.com/noah-isme/dominest-api/pkg/storage"
)

type exportStore interface {
	Save(ctx context.Context, path string, data []byte) error
	Open(path string) (io.ReadSeekCloser, os.FileInfo, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type residentLister interface {
	ListBySemester(ctx context.Context, semester models.Semester) ([]models.Resident, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
}

// ExportDownload is an opened export file ready to be streamed.
type ExportDownload struct {
	Body        io.ReadSeekCloser
	Filename    string
	ContentType string
	ModTime     time.Time
}

var rosterHeaders = []string{"방번호", "이름", "성별", "학번", "학과", "학년", "전화번호"}

// ExportService renders semester rosters and hands out signed download links.
type ExportService struct {
	residents residentLister
	store     exportStore
	renderers map[export.Format]export.Renderer
	signer    *storage.SignedURLSigner
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(residents residentLister, store exportStore, signer *storage.SignedURLSigner, renderers map[export.Format]export.Renderer, metrics *MetricsService, logger *zap.Logger, cfg ExportConfig) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderers == nil {
		renderers = map[export.Format]export.Renderer{
			export.FormatCSV: export.NewCSVExporter(),
			export.FormatPDF: export.NewPDFExporter(""),
		}
	}
	return &ExportService{
		residents: residents,
		store:     store,
		renderers: renderers,
		signer:    signer,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// Export renders the roster of semester and returns a signed link to the stored file.
func (s *ExportService) Export(ctx context.Context, semester models.Semester, format export.Format) (*dto.ExportResponse, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "지원하지 않는 내보내기 형식입니다.")
	}
	residents, err := s.residents.ListBySemester(ctx, semester)
	if err != nil {
		return nil, appErrors.Internal(err, "입사생 목록 조회에 실패했습니다.")
	}

	dataset := export.Dataset{
		Title:   fmt.Sprintf("%s 입사생 명단", semester),
		Headers: rosterHeaders,
		Rows:    make([][]string, 0, len(residents)),
	}
	for _, r := range residents {
		dataset.Rows = append(dataset.Rows, []string{r.RoomNumber, r.Name, r.Gender, r.StudentNumber, r.Major, r.Grade, r.PhoneNumber})
	}
	payload, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIO.Code, appErrors.ErrIO.Status, "명단 파일 생성에 실패했습니다.")
	}

	id := uuid.NewString()
	relPath := fmt.Sprintf("%s/%s_%s.%s", semester, id, time.Now().UTC().Format("20060102_150405"), format)
	if err := s.store.Save(ctx, relPath, payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIO.Code, appErrors.ErrIO.Status, appErrors.ErrIO.Message)
	}
	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		return nil, appErrors.Internal(err, "다운로드 링크 생성에 실패했습니다.")
	}
	s.metrics.RecordExport(string(format))

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	return &dto.ExportResponse{
		ID:          id,
		Format:      string(format),
		Rows:        len(dataset.Rows),
		DownloadURL: fmt.Sprintf("%s/exports/download?token=%s", prefix, url.QueryEscape(token)),
		ExpiresAt:   expiresAt,
	}, nil
}

// Download verifies token and opens the referenced export.
func (s *ExportService) Download(token string) (*ExportDownload, error) {
	claims, err := s.signer.Parse(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "다운로드 링크가 만료되었습니다.")
		}
		return nil, appErrors.Clone(appErrors.ErrForbidden, "유효하지 않은 다운로드 링크입니다.")
	}
	body, info, err := s.store.Open(claims.Path)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "파일을 찾을 수 없습니다.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrIO.Code, appErrors.ErrIO.Status, appErrors.ErrIO.Message)
	}
	format := export.FormatCSV
	if strings.HasSuffix(claims.Path, "."+string(export.FormatPDF)) {
		format = export.FormatPDF
	}
	return &ExportDownload{
		Body:        body,
		Filename:    info.Name(),
		ContentType: format.ContentType(),
		ModTime:     info.ModTime(),
	}, nil
}

// Cleanup removes exports whose links can no longer be valid.
func (s *ExportService) Cleanup() ([]string, error) {
	removed, err := s.store.CleanupOlderThan(s.signer.TTL())
	if err != nil {
		return nil, err
	}
	if len(removed) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
	}
	return removed, nil
}
