package service

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dominest-api/internal/models"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
	"github.com/noah-isme/dominest-api/pkg/export"
	"github.com/noah-isme/dominest-api/pkg/storage"
)

type residentListerStub []models.Resident

func (s residentListerStub) ListBySemester(ctx context.Context, semester models.Semester) ([]models.Resident, error) {
	return s, nil
}

func newExportServiceForTest(t *testing.T, ttl time.Duration) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	residents := residentListerStub{
		{Name: "홍길동", Gender: "M", StudentNumber: "20240001", RoomNumber: "B101"},
		{Name: "김영희", Gender: "F", StudentNumber: "20240002", RoomNumber: "B102"},
	}
	signer := storage.NewSignedURLSigner("secret", ttl)
	return NewExportService(residents, store, signer, nil, nil, nil, ExportConfig{APIPrefix: "/api/v1/"})
}

func tokenFrom(t *testing.T, downloadURL string) string {
	t.Helper()
	parsed, err := url.Parse(downloadURL)
	require.NoError(t, err)
	return parsed.Query().Get("token")
}

func TestExportServiceCSVRoundTrip(t *testing.T) {
	svc := newExportServiceForTest(t, time.Hour)

	resp, err := svc.Export(context.Background(), semester2024, export.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Rows)
	assert.True(t, strings.HasPrefix(resp.DownloadURL, "/api/v1/exports/download?token="))

	download, err := svc.Download(tokenFrom(t, resp.DownloadURL))
	require.NoError(t, err)
	defer download.Body.Close()
	body, err := io.ReadAll(download.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "홍길동")
	assert.Contains(t, string(body), "방번호")
	assert.Equal(t, "text/csv; charset=utf-8", download.ContentType)
	assert.True(t, strings.HasSuffix(download.Filename, ".csv"))
}

func TestExportServicePDF(t *testing.T) {
	svc := newExportServiceForTest(t, time.Hour)

	resp, err := svc.Export(context.Background(), semester2024, export.FormatPDF)
	require.NoError(t, err)

	download, err := svc.Download(tokenFrom(t, resp.DownloadURL))
	require.NoError(t, err)
	defer download.Body.Close()
	assert.Equal(t, "application/pdf", download.ContentType)
}

func TestExportServiceRejectsTamperedToken(t *testing.T) {
	svc := newExportServiceForTest(t, time.Hour)

	resp, err := svc.Export(context.Background(), semester2024, export.FormatCSV)
	require.NoError(t, err)
	token := tokenFrom(t, resp.DownloadURL)

	_, err = svc.Download(token + "x")
	requireCode(t, err, appErrors.ErrForbidden)

	_, err = svc.Export(context.Background(), semester2024, export.Format("xlsx"))
	requireCode(t, err, appErrors.ErrValidation)
}

func TestExportServiceCleanupRemovesExpiredFiles(t *testing.T) {
	svc := newExportServiceForTest(t, time.Nanosecond)

	resp, err := svc.Export(context.Background(), semester2024, export.FormatCSV)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	removed, err := svc.Cleanup()
	require.NoError(t, err)
	assert.Len(t, removed, 1)

	_, err = svc.Download(tokenFrom(t, resp.DownloadURL))
	require.Error(t, err)
}
