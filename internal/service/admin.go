package service

import (
	"context"

	"classquiz/internal/domain"
	"classquiz/internal/dto"
	"classquiz/internal/logger"

	"go.uber.org/zap"
)

// AdminService manages teacher accounts. A teacher logs in with their email.
type AdminService interface {
	CreateTeacher(ctx context.Context, req *dto.TeacherRequest) (*dto.AccountCreatedResponse, error)
	ListTeachers(ctx context.Context) ([]dto.TeacherResponse, error)
	UpdateTeacher(ctx context.Context, teacherID int64, req *dto.TeacherRequest) error
	DeleteTeacher(ctx context.Context, teacherID int64) error
	ResetTeacherPassword(ctx context.Context, teacherID int64) error
}

type adminService struct {
	teacherRepo     domain.TeacherRepository
	userRepo        domain.UserRepository
	tx              domain.TransactionManager
	defaultPassword string
}

func NewAdminService(
	teacherRepo domain.TeacherRepository,
	userRepo domain.UserRepository,
	tx domain.TransactionManager,
	defaultPassword string,
) AdminService {
	return &adminService{
		teacherRepo:     teacherRepo,
		userRepo:        userRepo,
		tx:              tx,
		defaultPassword: defaultPassword,
	}
}

func toTeacherResponse(t *domain.Teacher) dto.TeacherResponse {
	return dto.TeacherResponse{
		ID:        t.ID,
		Name:      t.Name,
		Email:     t.Email,
		Phone:     t.Phone,
		CreatedAt: t.CreatedAt,
	}
}

// emailTaken reports whether email belongs to another teacher or is an existing username.
func (s *adminService) emailTaken(ctx context.Context, email string, exceptTeacherID int64) (bool, error) {
	teacher, err := s.teacherRepo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if teacher != nil && teacher.ID != exceptTeacherID {
		return true, nil
	}
	user, err := s.userRepo.GetByUsername(ctx, email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return user.Role != domain.RoleTeacher || user.ProfileID == nil || *user.ProfileID != exceptTeacherID, nil
}

func (s *adminService) CreateTeacher(ctx context.Context, req *dto.TeacherRequest) (*dto.AccountCreatedResponse, error) {
	teacher := &domain.Teacher{Name: req.Name, Email: req.Email, Phone: req.Phone}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		taken, err := s.emailTaken(ctx, req.Email, 0)
		if err != nil {
			return domain.NewInternalError("Failed to check email", err)
		}
		if taken {
			return domain.NewConflictError("A teacher with this email already exists", nil).
				WithContext("email", req.Email)
		}
		if err := s.teacherRepo.Create(ctx, teacher); err != nil {
			return domain.NewInternalError("Failed to create teacher", err)
		}
		_, err = newLogin(ctx, s.userRepo, teacher.Email, domain.RoleTeacher, teacher.ID, s.defaultPassword)
		return err
	})
	if err != nil {
		return nil, asDomainError(err, "Failed to create teacher")
	}

	logger.Get().Info("Teacher created", zap.Int64("teacherID", teacher.ID))
	return &dto.AccountCreatedResponse{ID: teacher.ID, Username: teacher.Email}, nil
}

func (s *adminService) ListTeachers(ctx context.Context) ([]dto.TeacherResponse, error) {
	teachers, err := s.teacherRepo.List(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list teachers", err)
	}
	out := make([]dto.TeacherResponse, 0, len(teachers))
	for i := range teachers {
		out = append(out, toTeacherResponse(&teachers[i]))
	}
	return out, nil
}

// UpdateTeacher keeps the login username in step with the email.
func (s *adminService) UpdateTeacher(ctx context.Context, teacherID int64, req *dto.TeacherRequest) error {
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.teacherRepo.GetByID(ctx, teacherID)
		if err != nil {
			return domain.NewInternalError("Failed to load teacher", err)
		}
		if current == nil {
			return domain.NewNotFoundError("Teacher not found")
		}
		emailChanged := current.Email != req.Email
		if emailChanged {
			taken, err := s.emailTaken(ctx, req.Email, teacherID)
			if err != nil {
				return domain.NewInternalError("Failed to check email", err)
			}
			if taken {
				return domain.NewConflictError("A teacher with this email already exists", nil).
					WithContext("email", req.Email)
			}
		}

		affected, err := s.teacherRepo.Update(ctx, &domain.Teacher{ID: teacherID, Name: req.Name, Email: req.Email, Phone: req.Phone})
		if err != nil {
			return domain.NewInternalError("Failed to update teacher", err)
		}
		if affected == 0 {
			return domain.NewNotFoundError("Teacher not found")
		}
		if !emailChanged {
			return nil
		}
		user, err := s.userRepo.GetByProfile(ctx, domain.RoleTeacher, teacherID)
		if err != nil {
			return domain.NewInternalError("Failed to load account", err)
		}
		if user != nil {
			if _, err := s.userRepo.UpdateUsername(ctx, user.ID, req.Email); err != nil {
				return domain.NewInternalError("Failed to update account", err)
			}
		}
		return nil
	})
	if err != nil {
		return asDomainError(err, "Failed to update teacher")
	}
	return nil
}

// DeleteTeacher removes the teacher with every class, student, quiz and login
// they own.
func (s *adminService) DeleteTeacher(ctx context.Context, teacherID int64) error {
	teacher, err := s.teacherRepo.GetByID(ctx, teacherID)
	if err != nil {
		return domain.NewInternalError("Failed to load teacher", err)
	}
	if teacher == nil {
		return domain.NewNotFoundError("Teacher not found")
	}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.teacherRepo.Delete(ctx, teacherID)
	})
	if err != nil {
		return domain.NewInternalError("Failed to delete teacher", err)
	}
	logger.Get().Info("Teacher deleted", zap.Int64("teacherID", teacherID))
	return nil
}

func (s *adminService) ResetTeacherPassword(ctx context.Context, teacherID int64) error {
	return resetPassword(ctx, s.userRepo, domain.RoleTeacher, teacherID, s.defaultPassword)
}
