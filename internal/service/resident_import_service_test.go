package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
)

type upserterStub struct {
	existing map[string]bool
	saved    []models.Resident
	failOn   string
	failOnce string
}

func (u *upserterStub) Upsert(ctx context.Context, exec sqlx.ExtContext, resident *models.Resident) (bool, error) {
	if resident.StudentNumber == u.failOn {
		return false, errors.New("unique violation on phone")
	}
	if u.failOnce != "" && resident.StudentNumber == u.failOnce {
		u.failOnce = ""
		return false, errors.New("deadlock detected")
	}
	u.saved = append(u.saved, *resident)
	return !u.existing[resident.StudentNumber], nil
}

func workbook(t *testing.T, rows ...[]interface{}) dto.UploadFile {
	t.Helper()
	book := excelize.NewFile()
	defer book.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, book.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := book.WriteToBuffer()
	require.NoError(t, err)
	return dto.UploadFile{Name: "roster.xlsx", Data: buf.Bytes()}
}

var rosterHeader = []interface{}{"방번호", "이름", "성별", "학번", "학과", "학년", "전화번호"}

func TestResidentImportUpsertsRowsIndependently(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := &upserterStub{existing: map[string]bool{"20240002": true}, failOn: "20240005"}
	svc := NewResidentImportService(db, repo, nil, nil, 0)

	file := workbook(t,
		rosterHeader,
		[]interface{}{"B101", "홍길동", "남", "20240001", "컴퓨터공학과", "2", "010-1111-2222"},
		[]interface{}{"B102", "김철수", "M", "20240002", "경영학과", "3", "010-3333-4444"},
		[]interface{}{"B103", "", "F", "20240003", "", "", ""},
		[]interface{}{"B104", "박영수", "남", "20240001", "", "", ""},
		[]interface{}{"B105", "최민지", "여", "20240005", "", "", ""},
		[]interface{}{"B106", "이지은", "여", "20240006", "수학과", "1", ""},
	)

	// rows 2, 3, 6 and 7 reach the database; row 6 fails and rolls back
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Import(context.Background(), semester2024, file)
	require.NoError(t, err)
	assert.Equal(t, 6, resp.Total)
	assert.Equal(t, 3, resp.SuccessCount)
	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, 1, resp.Updated)

	require.Len(t, resp.Failures, 3)
	assert.Equal(t, 2, resp.Failures[0].Index)
	assert.Equal(t, models.UploadMalformedInput, resp.Failures[0].Reason)
	assert.Equal(t, 3, resp.Failures[1].Index)
	assert.Equal(t, "5:20240001", resp.Failures[1].Key)
	assert.Equal(t, models.UploadDuplicateTarget, resp.Failures[1].Reason)
	assert.Equal(t, 4, resp.Failures[2].Index)
	assert.Equal(t, models.UploadPersistFailed, resp.Failures[2].Reason)

	require.Len(t, repo.saved, 3)
	assert.Equal(t, "M", repo.saved[0].Gender)
	assert.Equal(t, semester2024, repo.saved[0].Semester)
	assert.Equal(t, "B101", repo.saved[0].RoomNumber)
	assert.Equal(t, "F", repo.saved[2].Gender)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResidentImportRejectsUnreadableWorkbook(t *testing.T) {
	db, mock := newSQLMock(t)
	svc := NewResidentImportService(db, &upserterStub{}, nil, nil, 0)

	_, err := svc.Import(context.Background(), semester2024, dto.UploadFile{Name: "roster.xlsx", Data: []byte("not a zip")})
	requireCode(t, err, appErrors.ErrValidation)

	_, err = svc.Import(context.Background(), semester2024, workbook(t, []interface{}{"번호", "비고"}, []interface{}{"1", "x"}))
	requireCode(t, err, appErrors.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResidentImportSkipsBlankRowsAndBadGender(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := &upserterStub{}
	svc := NewResidentImportService(db, repo, nil, nil, 0)

	file := workbook(t,
		[]interface{}{"성명", "학번", "성별"},
		[]interface{}{"", "", ""},
		[]interface{}{"홍길동", "20240001", "?"},
	)
	resp, err := svc.Import(context.Background(), semester2024, file)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, models.UploadMalformedInput, resp.Failures[0].Reason)
	assert.Equal(t, fmt.Sprintf("%d:%s", 3, "20240001"), resp.Failures[0].Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResidentImportRepeatAfterFailedRowIsApplied(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := &upserterStub{failOnce: "20240001"}
	svc := NewResidentImportService(db, repo, nil, nil, 0)

	file := workbook(t,
		rosterHeader,
		[]interface{}{"B101", "홍길동", "남", "20240001", "", "", ""},
		[]interface{}{"B101", "홍길동", "남", "20240001", "", "", ""},
		[]interface{}{"B101", "홍길동", "남", "20240001", "", "", ""},
	)

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Import(context.Background(), semester2024, file)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.SuccessCount)
	require.Len(t, resp.Failures, 2)
	assert.Equal(t, 0, resp.Failures[0].Index)
	assert.Equal(t, models.UploadPersistFailed, resp.Failures[0].Reason)
	assert.Equal(t, 2, resp.Failures[1].Index)
	assert.Equal(t, models.UploadDuplicateTarget, resp.Failures[1].Reason)
	require.Len(t, repo.saved, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
