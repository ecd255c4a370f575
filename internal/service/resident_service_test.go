package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
	"github.com/noah-isme/dominest-api/internal/repository"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
)

type residentRepoStub struct {
	residents  map[string]models.Resident
	lastFilter models.ResidentFilter
	dupOnWrite bool
}

func (r *residentRepoStub) List(ctx context.Context, filter models.ResidentFilter) ([]models.Resident, int, error) {
	r.lastFilter = filter
	out := []models.Resident{}
	for _, res := range r.residents {
		if res.Semester == filter.Semester {
			out = append(out, res)
		}
	}
	return out, len(out), nil
}

func (r *residentRepoStub) FindByID(ctx context.Context, id string) (*models.Resident, error) {
	res, ok := r.residents[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &res, nil
}

func (r *residentRepoStub) Create(ctx context.Context, resident *models.Resident) error {
	if r.dupOnWrite {
		return repository.ErrDuplicate
	}
	resident.ID = "new"
	r.residents[resident.ID] = *resident
	return nil
}

func (r *residentRepoStub) Update(ctx context.Context, resident *models.Resident) error {
	if r.dupOnWrite {
		return repository.ErrDuplicate
	}
	if _, ok := r.residents[resident.ID]; !ok {
		return sql.ErrNoRows
	}
	r.residents[resident.ID] = *resident
	return nil
}

func (r *residentRepoStub) Delete(ctx context.Context, id string) (*models.Resident, error) {
	res, ok := r.residents[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	delete(r.residents, id)
	return &res, nil
}

func (r *residentRepoStub) DeleteAll(ctx context.Context) ([]models.Resident, error) {
	out := make([]models.Resident, 0, len(r.residents))
	for id, res := range r.residents {
		out = append(out, res)
		delete(r.residents, id)
	}
	return out, nil
}

type schedulerSpy struct {
	paths []string
}

func (s *schedulerSpy) Schedule(paths ...string) {
	s.paths = append(s.paths, paths...)
}

func saveRequest() dto.SaveResidentRequest {
	return dto.SaveResidentRequest{
		Semester:      "S2024_1",
		Name:          " 홍길동 ",
		Gender:        "M",
		StudentNumber: "20240001",
		Major:         "컴퓨터공학과",
		Grade:         "2",
		RoomNumber:    "B101",
	}
}

func TestResidentServiceCreateAndDuplicate(t *testing.T) {
	repo := &residentRepoStub{residents: map[string]models.Resident{}}
	svc := NewResidentService(repo, &schedulerSpy{}, nil, nil)

	created, err := svc.Create(context.Background(), saveRequest())
	require.NoError(t, err)
	assert.Equal(t, "홍길동", created.Name)
	assert.Equal(t, semester2024, created.Semester)

	repo.dupOnWrite = true
	_, err = svc.Create(context.Background(), saveRequest())
	requireCode(t, err, appErrors.ErrConflict)
}

func TestResidentServiceValidation(t *testing.T) {
	svc := NewResidentService(&residentRepoStub{residents: map[string]models.Resident{}}, &schedulerSpy{}, nil, nil)

	req := saveRequest()
	req.Semester = "2024-1"
	_, err := svc.Create(context.Background(), req)
	requireCode(t, err, appErrors.ErrValidation)

	req = saveRequest()
	req.Gender = "X"
	_, err = svc.Create(context.Background(), req)
	requireCode(t, err, appErrors.ErrValidation)

	_, _, err = svc.List(context.Background(), dto.ResidentQuery{Semester: "S1999_3"})
	requireCode(t, err, appErrors.ErrValidation)
}

func TestResidentServiceUpdate(t *testing.T) {
	repo := &residentRepoStub{residents: map[string]models.Resident{"r1": {ID: "r1", Semester: semester2024, Name: "old"}}}
	svc := NewResidentService(repo, &schedulerSpy{}, nil, nil)

	updated, err := svc.Update(context.Background(), "r1", saveRequest())
	require.NoError(t, err)
	assert.Equal(t, "홍길동", updated.Name)

	_, err = svc.Update(context.Background(), "missing", saveRequest())
	requireCode(t, err, appErrors.ErrNotFound)

	repo.dupOnWrite = true
	_, err = svc.Update(context.Background(), "r1", saveRequest())
	requireCode(t, err, appErrors.ErrValidation)
}

func TestResidentServiceListDefaultsPaging(t *testing.T) {
	repo := &residentRepoStub{residents: map[string]models.Resident{"r1": {ID: "r1", Semester: semester2024}}}
	svc := NewResidentService(repo, &schedulerSpy{}, nil, nil)

	residents, page, err := svc.List(context.Background(), dto.ResidentQuery{Semester: "S2024_1", Limit: 10000})
	require.NoError(t, err)
	assert.Len(t, residents, 1)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 50, page.PageSize)
	assert.Equal(t, 1, page.TotalCount)
	assert.Equal(t, 50, repo.lastFilter.PageSize)
}

func TestResidentServiceDeleteSchedulesDocumentCleanup(t *testing.T) {
	repo := &residentRepoStub{residents: map[string]models.Resident{
		"r1": {ID: "r1", AdmissionPdfPath: strPtr("ADMISSION/S2024_1/r1.pdf"), DeparturePdfPath: strPtr("DEPARTURE/S2024_1/r1.pdf")},
		"r2": {ID: "r2"},
		"r3": {ID: "r3", AdmissionPdfPath: strPtr("ADMISSION/S2024_1/r3.pdf")},
	}}
	spy := &schedulerSpy{}
	svc := NewResidentService(repo, spy, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "r1"))
	assert.ElementsMatch(t, []string{"ADMISSION/S2024_1/r1.pdf", "DEPARTURE/S2024_1/r1.pdf"}, spy.paths)

	err := svc.Delete(context.Background(), "r1")
	requireCode(t, err, appErrors.ErrNotFound)

	spy.paths = nil
	count, err := svc.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"ADMISSION/S2024_1/r3.pdf"}, spy.paths)
	assert.Empty(t, repo.residents)
}
