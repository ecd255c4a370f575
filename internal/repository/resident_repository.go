package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dominest-api/internal/models"
)

var residentColumns = []string{
	"id", "semester", "name", "gender", "student_number", "major", "grade", "phone_number", "room_number",
	"admission_pdf_path", "departure_pdf_path", "created_at", "updated_at",
}

// ResidentRepository persists dormitory residents.
type ResidentRepository struct {
	db *sqlx.DB
}

// NewResidentRepository constructs the repository.
func NewResidentRepository(db *sqlx.DB) *ResidentRepository {
	return &ResidentRepository{db: db}
}

func (r *ResidentRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns a page of residents for a semester along with the total count.
func (r *ResidentRepository) List(ctx context.Context, filter models.ResidentFilter) ([]models.Resident, int, error) {
	where := squirrel.And{squirrel.Eq{"semester": filter.Semester}}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"name": like},
			squirrel.ILike{"student_number": like},
			squirrel.ILike{"room_number": like},
		})
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 50
	}

	listQuery, args, err := psql.Select(residentColumns...).
		From("residents").
		Where(where).
		OrderBy("room_number ASC", "name ASC").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list residents query: %w", err)
	}
	residents := make([]models.Resident, 0)
	if err := r.db.SelectContext(ctx, &residents, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list residents: %w", err)
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("residents").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count residents query: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count residents: %w", err)
	}
	return residents, total, nil
}

// ListBySemester returns every resident of a semester ordered by room.
func (r *ResidentRepository) ListBySemester(ctx context.Context, semester models.Semester) ([]models.Resident, error) {
	query, args, err := psql.Select(residentColumns...).
		From("residents").
		Where(squirrel.Eq{"semester": semester}).
		OrderBy("room_number ASC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build residents by semester query: %w", err)
	}
	residents := make([]models.Resident, 0)
	if err := r.db.SelectContext(ctx, &residents, query, args...); err != nil {
		return nil, fmt.Errorf("list residents by semester: %w", err)
	}
	return residents, nil
}

// FindByID returns a resident by identifier.
func (r *ResidentRepository) FindByID(ctx context.Context, id string) (*models.Resident, error) {
	query := `SELECT ` + strings.Join(residentColumns, ", ") + ` FROM residents WHERE id = $1`
	var resident models.Resident
	if err := r.db.GetContext(ctx, &resident, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find resident: %w", err)
	}
	return &resident, nil
}

// FindBySemesterAndName returns every resident of the semester carrying the given name.
func (r *ResidentRepository) FindBySemesterAndName(ctx context.Context, semester models.Semester, name string) ([]models.Resident, error) {
	query := `SELECT ` + strings.Join(residentColumns, ", ") + ` FROM residents WHERE semester = $1 AND name = $2`
	residents := make([]models.Resident, 0)
	if err := r.db.SelectContext(ctx, &residents, query, semester, name); err != nil {
		return nil, fmt.Errorf("find residents by name: %w", err)
	}
	return residents, nil
}

// Create inserts a resident. A student number already registered for the semester yields ErrDuplicate.
func (r *ResidentRepository) Create(ctx context.Context, resident *models.Resident) error {
	if resident.ID == "" {
		resident.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	resident.CreatedAt = now
	resident.UpdatedAt = now

	const query = `INSERT INTO residents (id, semester, name, gender, student_number, major, grade, phone_number, room_number, created_at, updated_at)
VALUES (:id, :semester, :name, :gender, :student_number, :major, :grade, :phone_number, :room_number, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, resident); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create resident: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of a resident.
func (r *ResidentRepository) Update(ctx context.Context, resident *models.Resident) error {
	resident.UpdatedAt = time.Now().UTC()
	const query = `UPDATE residents SET semester = :semester, name = :name, gender = :gender, student_number = :student_number,
major = :major, grade = :grade, phone_number = :phone_number, room_number = :room_number, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, resident)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update resident: %w", err)
	}
	return expectAffected(res)
}

// Upsert inserts or refreshes the resident identified by semester and student number.
// It reports whether a new row was inserted.
func (r *ResidentRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, resident *models.Resident) (bool, error) {
	if resident.ID == "" {
		resident.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	resident.CreatedAt = now
	resident.UpdatedAt = now

	const query = `INSERT INTO residents (id, semester, name, gender, student_number, major, grade, phone_number, room_number, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
ON CONFLICT (semester, student_number) DO UPDATE SET
name = EXCLUDED.name, gender = EXCLUDED.gender, major = EXCLUDED.major, grade = EXCLUDED.grade,
phone_number = EXCLUDED.phone_number, room_number = EXCLUDED.room_number, updated_at = EXCLUDED.updated_at
RETURNING id, (xmax = 0) AS inserted`

	var row struct {
		ID       string `db:"id"`
		Inserted bool   `db:"inserted"`
	}
	err := sqlx.GetContext(ctx, r.exec(exec), &row, query,
		resident.ID, resident.Semester, resident.Name, resident.Gender, resident.StudentNumber,
		resident.Major, resident.Grade, resident.PhoneNumber, resident.RoomNumber, now)
	if err != nil {
		return false, fmt.Errorf("upsert resident: %w", err)
	}
	resident.ID = row.ID
	return row.Inserted, nil
}

// SetPdfPath records (or clears, when path is nil) the stored document of the given type.
func (r *ResidentRepository) SetPdfPath(ctx context.Context, exec sqlx.ExtContext, id string, pdfType models.PdfType, path *string) error {
	column := "admission_pdf_path"
	if pdfType == models.PdfTypeDeparture {
		column = "departure_pdf_path"
	}
	query := fmt.Sprintf(`UPDATE residents SET %s = $2, updated_at = $3 WHERE id = $1`, column)
	res, err := r.exec(exec).ExecContext(ctx, query, id, path, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set resident pdf path: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a resident and returns the deleted row.
func (r *ResidentRepository) Delete(ctx context.Context, id string) (*models.Resident, error) {
	query := `DELETE FROM residents WHERE id = $1 RETURNING ` + strings.Join(residentColumns, ", ")
	var resident models.Resident
	if err := r.db.GetContext(ctx, &resident, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("delete resident: %w", err)
	}
	return &resident, nil
}

// DeleteAll removes every resident and returns the deleted rows.
func (r *ResidentRepository) DeleteAll(ctx context.Context) ([]models.Resident, error) {
	query := `DELETE FROM residents RETURNING ` + strings.Join(residentColumns, ", ")
	residents := make([]models.Resident, 0)
	if err := r.db.SelectContext(ctx, &residents, query); err != nil {
		return nil, fmt.Errorf("delete all residents: %w", err)
	}
	return residents, nil
}

func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
