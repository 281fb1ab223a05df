package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"coursehub/internal/domain"
	"coursehub/internal/repo"
)

// FileRemover deletes previously stored uploads by name.
type FileRemover interface {
	Remove(name string) error
}

const sampleCourseCount = 4

type CourseService interface {
	AddCourse(ctx context.Context, id domain.Identity, in domain.CourseInput, image *domain.Upload) (*domain.Course, error)
	ListAdminCourses(ctx context.Context, id domain.Identity) ([]domain.Course, error)
	UpdateCourse(ctx context.Context, id domain.Identity, courseID string, in domain.CourseInput, image *domain.Upload) (*domain.Course, error)
	DeleteCourse(ctx context.Context, id domain.Identity, courseID string) error
	ListCourses(ctx context.Context, search string) ([]domain.Course, error)
	SampleCourses(ctx context.Context) ([]domain.Course, error)
}

type CourseServiceConfig struct {
	Courses  repo.CourseRepo
	Progress repo.ProgressRepo
	Files    FileRemover
	Logger   *slog.Logger
	Now      func() time.Time
}

type courseService struct {
	courses  repo.CourseRepo
	progress repo.ProgressRepo
	files    FileRemover
	logger   *slog.Logger
	now      func() time.Time
}

func NewCourseService(cfg CourseServiceConfig) CourseService {
	s := &courseService{
		courses:  cfg.Courses,
		progress: cfg.Progress,
		files:    cfg.Files,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// discard removes an upload that will not be referenced by any record.
func (s *courseService) discard(name string) {
	if name == "" || s.files == nil {
		return
	}
	if err := s.files.Remove(name); err != nil {
		s.logger.Warn("failed to remove upload", "file", name, "error", err)
	}
}

func uploadName(u *domain.Upload) string {
	if u == nil {
		return ""
	}
	return u.Filename
}

func (s *courseService) AddCourse(ctx context.Context, id domain.Identity, in domain.CourseInput, image *domain.Upload) (*domain.Course, error) {
	if !id.IsAdmin() {
		s.discard(uploadName(image))
		return nil, domain.Forbidden("Admin access required")
	}
	course, err := domain.NewCourse(in, id.UserID, uploadName(image), s.now())
	if err != nil {
		s.discard(uploadName(image))
		return nil, err
	}
	if err := s.courses.Create(ctx, course); err != nil {
		s.discard(uploadName(image))
		return nil, fmt.Errorf("save course: %w", err)
	}
	return course, nil
}

func (s *courseService) ListAdminCourses(ctx context.Context, id domain.Identity) ([]domain.Course, error) {
	if !id.IsAdmin() {
		return nil, domain.Forbidden("Admin access required")
	}
	courses, err := s.courses.ListByCreator(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ownedCourse loads a course the caller may modify.
func (s *courseService) ownedCourse(ctx context.Context, id domain.Identity, courseID string) (*domain.Course, error) {
	if !id.IsAdmin() {
		return nil, domain.Forbidden("Admin access required")
	}
	cid, err := domain.ParseID("course ID", courseID)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.FindById(ctx, cid)
	if err != nil {
		return nil, fmt.Errorf("find course: %w", err)
	}
	if course == nil {
		return nil, domain.NotFound("Course not found")
	}
	if course.CreatedBy != id.UserID {
		return nil, domain.Forbidden("Unauthorized")
	}
	return course, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, id domain.Identity, courseID string, in domain.CourseInput, image *domain.Upload) (*domain.Course, error) {
	course, err := s.ownedCourse(ctx, id, courseID)
	if err != nil {
		s.discard(uploadName(image))
		return nil, err
	}
	if err := course.Apply(in, s.now()); err != nil {
		s.discard(uploadName(image))
		return nil, err
	}

	oldImage := course.Image
	if image != nil {
		course.Image = image.Filename
	}
	if err := s.courses.Update(ctx, course); err != nil {
		s.discard(uploadName(image))
		return nil, fmt.Errorf("update course: %w", err)
	}
	if image != nil && oldImage != image.Filename {
		s.discard(oldImage)
	}
	return course, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, id domain.Identity, courseID string) error {
	course, err := s.ownedCourse(ctx, id, courseID)
	if err != nil {
		return err
	}

	s.discard(course.Image)
	if err := s.progress.DeleteByCourse(ctx, course.ID); err != nil {
		return fmt.Errorf("delete course progress: %w", err)
	}
	if err := s.courses.Delete(ctx, course.ID); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	s.logger.Info("course deleted", "course_id", course.ID, "user_id", id.UserID)
	return nil
}

func (s *courseService) ListCourses(ctx context.Context, search string) ([]domain.Course, error) {
	courses, err := s.courses.Search(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	return courses, nil
}

func (s *courseService) SampleCourses(ctx context.Context) ([]domain.Course, error) {
	courses, err := s.courses.List(ctx, sampleCourseCount)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}
