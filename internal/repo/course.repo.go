package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"coursehub/internal/domain"

	"github.com/google/uuid"
)

type CourseRepo interface {
	Create(ctx context.Context, course *domain.Course) error
	FindById(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Course, error)
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]domain.Course, error)
	// Search matches title substrings case-insensitively; an empty term
	// lists everything.
	Search(ctx context.Context, term string) ([]domain.Course, error)
	List(ctx context.Context, limit int) ([]domain.Course, error)
}

type courseRepo struct {
	db *sql.DB
}

func NewCourseRepo(db *sql.DB) CourseRepo {
	return &courseRepo{db: db}
}

const courseColumns = `id, title, description, instructor, instructor_phone, date, price, image, created_by, created_at, updated_at`

func scanCourse(row interface{ Scan(...any) error }) (*domain.Course, error) {
	var c domain.Course
	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.Instructor,
		&c.InstructorPhone,
		&c.Date,
		&c.Price,
		&c.Image,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *courseRepo) queryCourses(ctx context.Context, query string, args ...any) ([]domain.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	courses := []domain.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

func (r *courseRepo) Create(ctx context.Context, c *domain.Course) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (`+courseColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.Title, c.Description, c.Instructor, c.InstructorPhone, c.Date, c.Price, c.Image, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *courseRepo) FindById(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	c, err := scanCourse(r.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *courseRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Course, error) {
	found := make(map[uuid.UUID]domain.Course, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	courses, err := r.queryCourses(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = ANY($1::uuid[])`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		found[c.ID] = c
	}
	return found, nil
}

func (r *courseRepo) Update(ctx context.Context, c *domain.Course) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE courses
		SET title = $2, description = $3, instructor = $4, instructor_phone = $5,
		    date = $6, price = $7, image = $8, updated_at = $9
		WHERE id = $1`,
		c.ID, c.Title, c.Description, c.Instructor, c.InstructorPhone, c.Date, c.Price, c.Image, c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return notFoundOnZeroRows(res, "Course not found")
}

func (r *courseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return notFoundOnZeroRows(res, "Course not found")
}

func (r *courseRepo) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]domain.Course, error) {
	return r.queryCourses(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE created_by = $1 ORDER BY created_at`,
		createdBy,
	)
}

func (r *courseRepo) Search(ctx context.Context, term string) ([]domain.Course, error) {
	if term == "" {
		return r.queryCourses(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY created_at`)
	}
	return r.queryCourses(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE title ILIKE $1 ORDER BY created_at`,
		"%"+escapeLike(term)+"%",
	)
}

func (r *courseRepo) List(ctx context.Context, limit int) ([]domain.Course, error) {
	return r.queryCourses(ctx,
		`SELECT `+courseColumns+` FROM courses ORDER BY created_at LIMIT $1`,
		limit,
	)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes the search term literal inside an ILIKE pattern.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
