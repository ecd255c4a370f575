package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
)

const uploadKindResidentExcel = "resident_excel"

type residentUpserter interface {
	Upsert(ctx context.Context, exec sqlx.ExtContext, resident *models.Resident) (bool, error)
}

type importColumn int

const (
	colName importColumn = iota
	colGender
	colStudentNumber
	colMajor
	colGrade
	colPhone
	colRoom
)

var importHeaders = map[string]importColumn{
	"이름":    colName,
	"성명":    colName,
	"성별":    colGender,
	"학번":    colStudentNumber,
	"학과":    colMajor,
	"전공":    colMajor,
	"학년":    colGrade,
	"전화번호":  colPhone,
	"핸드폰번호": colPhone,
	"연락처":   colPhone,
	"방번호":   colRoom,
	"호실":    colRoom,
	"배정방":   colRoom,
}

var requiredImportColumns = []importColumn{colName, colStudentNumber}

// ResidentImportService upserts residents from an Excel roster.
type ResidentImportService struct {
	tx        txProvider
	residents residentUpserter
	bulk      *BulkUploadProcessor
	logger    *zap.Logger
	maxBytes  int64
}

// NewResidentImportService constructs the service.
func NewResidentImportService(tx txProvider, residents residentUpserter, bulk *BulkUploadProcessor, logger *zap.Logger, maxBytes int64) *ResidentImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bulk == nil {
		bulk = NewBulkUploadProcessor(nil, logger)
	}
	return &ResidentImportService{tx: tx, residents: residents, bulk: bulk, logger: logger, maxBytes: maxBytes}
}

type rosterRow struct {
	row   int
	cells map[importColumn]string
}

func (r rosterRow) Key() string {
	if sn := r.cells[colStudentNumber]; sn != "" {
		return fmt.Sprintf("%d:%s", r.row, sn)
	}
	return strconv.Itoa(r.row)
}

// Import reads the first sheet of the workbook and upserts every data row into semester.
// Each row commits on its own; an unreadable workbook fails the whole request.
func (s *ResidentImportService) Import(ctx context.Context, semester models.Semester, file dto.UploadFile) (*dto.ResidentImportResponse, error) {
	if len(file.Data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "업로드된 파일이 비어 있습니다.")
	}
	if s.maxBytes > 0 && int64(len(file.Data)) > s.maxBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, "엑셀 파일 크기가 허용 범위를 초과했습니다.")
	}
	rows, err := readRoster(file.Data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "엑셀 파일을 읽을 수 없습니다.")
	}

	resp := &dto.ResidentImportResponse{}
	seen := make(map[string]int, len(rows))
	resp.UploadBatchResult = processBatch(ctx, s.bulk, uploadKindResidentExcel, rows, func(ctx context.Context, row rosterRow) error {
		resident, err := residentFromRow(semester, row)
		if err != nil {
			return itemError(models.UploadMalformedInput, err)
		}
		if first, dup := seen[resident.StudentNumber]; dup {
			return itemError(models.UploadDuplicateTarget, fmt.Errorf("student number %s already on row %d", resident.StudentNumber, first))
		}

		inserted, err := s.upsert(ctx, resident)
		if err != nil {
			return err
		}
		seen[resident.StudentNumber] = row.row
		if inserted {
			resp.Created++
		} else {
			resp.Updated++
		}
		return nil
	})

	s.logger.Info("resident roster imported",
		zap.String("semester", string(semester)),
		zap.String("file", file.Name),
		zap.Int("created", resp.Created),
		zap.Int("updated", resp.Updated),
		zap.Int("failed", len(resp.Failures)),
	)
	return resp, nil
}

func (s *ResidentImportService) upsert(ctx context.Context, resident *models.Resident) (inserted bool, err error) {
	if s.tx == nil {
		return false, fmt.Errorf("transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if inserted, err = s.residents.Upsert(ctx, tx, resident); err != nil {
		return false, err
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	return inserted, nil
}

func readRoster(data []byte) ([]rosterRow, error) {
	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	grid, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	positions := make(map[importColumn]int)
	for i, label := range grid[0] {
		label = strings.ReplaceAll(strings.TrimSpace(label), " ", "")
		if col, ok := importHeaders[label]; ok {
			if _, dup := positions[col]; !dup {
				positions[col] = i
			}
		}
	}
	for _, col := range requiredImportColumns {
		if _, ok := positions[col]; !ok {
			return nil, fmt.Errorf("missing required header columns")
		}
	}

	rows := make([]rosterRow, 0, len(grid)-1)
	for i, raw := range grid[1:] {
		if blankRow(raw) {
			continue
		}
		cells := make(map[importColumn]string, len(positions))
		for col, pos := range positions {
			if pos < len(raw) {
				cells[col] = strings.TrimSpace(raw[pos])
			}
		}
		rows = append(rows, rosterRow{row: i + 2, cells: cells})
	}
	return rows, nil
}

func residentFromRow(semester models.Semester, row rosterRow) (*models.Resident, error) {
	name := row.cells[colName]
	studentNumber := row.cells[colStudentNumber]
	if name == "" || studentNumber == "" {
		return nil, fmt.Errorf("row %d: name and student number are required", row.row)
	}
	gender, err := normaliseGender(row.cells[colGender])
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", row.row, err)
	}
	return &models.Resident{
		Semester:      semester,
		Name:          name,
		Gender:        gender,
		StudentNumber: studentNumber,
		Major:         row.cells[colMajor],
		Grade:         row.cells[colGrade],
		PhoneNumber:   row.cells[colPhone],
		RoomNumber:    row.cells[colRoom],
	}, nil
}

func normaliseGender(raw string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "M", "남", "남자", "MALE":
		return "M", nil
	case "F", "여", "여자", "FEMALE":
		return "F", nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("unknown gender %q", raw)
	}
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
