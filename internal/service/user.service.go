package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"coursehub/internal/domain"
	"coursehub/internal/repo"

	"github.com/google/uuid"
)

type UserService interface {
	GetProfile(ctx context.Context, id domain.Identity) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, id domain.Identity, upd domain.ProfileUpdate, image *domain.Upload) (*domain.Profile, error)
	UpdateProgress(ctx context.Context, id domain.Identity, courseID string, progress int) (*domain.Progress, error)
	ListUserCourses(ctx context.Context, id domain.Identity) ([]domain.EnrolledCourse, error)
}

type UserServiceConfig struct {
	Users    repo.UserRepo
	Courses  repo.CourseRepo
	Progress repo.ProgressRepo
	Files    FileRemover
	Logger   *slog.Logger
	Now      func() time.Time
}

type userService struct {
	users    repo.UserRepo
	courses  repo.CourseRepo
	progress repo.ProgressRepo
	files    FileRemover
	logger   *slog.Logger
	now      func() time.Time
}

func NewUserService(cfg UserServiceConfig) UserService {
	s := &userService{
		users:    cfg.Users,
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

func (s *userService) discard(name string) {
	if name == "" || s.files == nil {
		return
	}
	if err := s.files.Remove(name); err != nil {
		s.logger.Warn("failed to remove upload", "file", name, "error", err)
	}
}

func (s *userService) currentUser(ctx context.Context, id domain.Identity) (*domain.User, error) {
	user, err := s.users.FindById(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, domain.NotFound("User not found")
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, id domain.Identity) (*domain.Profile, error) {
	user, err := s.currentUser(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := user.ProfileView()
	return &profile, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id domain.Identity, upd domain.ProfileUpdate, image *domain.Upload) (*domain.Profile, error) {
	user, err := s.currentUser(ctx, id)
	if err != nil {
		s.discard(uploadName(image))
		return nil, err
	}

	if name := strings.TrimSpace(upd.Username); name != "" {
		user.Username = name
	}
	if upd.GitHub != "" {
		user.GitHub = upd.GitHub
	}
	if upd.LinkedIn != "" {
		user.LinkedIn = upd.LinkedIn
	}
	oldImage := user.ProfileImage
	if image != nil {
		user.ProfileImage = image.Filename
	}
	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, user); err != nil {
		s.discard(uploadName(image))
		return nil, err
	}
	if image != nil && oldImage != image.Filename {
		s.discard(oldImage)
	}
	profile := user.ProfileView()
	return &profile, nil
}

func (s *userService) UpdateProgress(ctx context.Context, id domain.Identity, courseID string, progress int) (*domain.Progress, error) {
	cid, err := domain.ParseID("courseId", courseID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateProgress(progress); err != nil {
		return nil, err
	}
	course, err := s.courses.FindById(ctx, cid)
	if err != nil {
		return nil, fmt.Errorf("find course: %w", err)
	}
	if course == nil {
		return nil, domain.NotFound("Course not found")
	}

	p := &domain.Progress{UserID: id.UserID, CourseID: cid, Progress: progress, UpdatedAt: s.now()}
	if err := s.progress.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return p, nil
}

func (s *userService) ListUserCourses(ctx context.Context, id domain.Identity) ([]domain.EnrolledCourse, error) {
	rows, err := s.progress.ListByUser(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	ids := make([]uuid.UUID, len(rows))
	for i, p := range rows {
		ids[i] = p.CourseID
	}
	found, err := s.courses.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}

	enrolled := make([]domain.EnrolledCourse, 0, len(rows))
	for _, p := range rows {
		c, ok := found[p.CourseID]
		if !ok {
			continue
		}
		enrolled = append(enrolled, domain.EnrolledCourse{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Instructor:  c.Instructor,
			Price:       c.Price,
			Image:       c.Image,
			CreatedBy:   c.CreatedBy,
			Progress:    p.Progress,
		})
	}
	return enrolled, nil
}
