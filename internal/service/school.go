package service

import (
	"context"

	"classquiz/internal/domain"
	"classquiz/internal/dto"
	"classquiz/internal/logger"

	"go.uber.org/zap"
)

// SchoolService manages a teacher's classes and students. Admins may act on
// any class; teachers only on their own.
type SchoolService interface {
	CreateClass(ctx context.Context, requester domain.Identity, req *dto.ClassRequest) (*dto.ClassResponse, error)
	ListClasses(ctx context.Context, requester domain.Identity) ([]dto.ClassResponse, error)
	UpdateClass(ctx context.Context, requester domain.Identity, classID int64, req *dto.ClassRequest) error
	DeleteClass(ctx context.Context, requester domain.Identity, classID int64) error

	CreateStudent(ctx context.Context, requester domain.Identity, req *dto.StudentRequest) (*dto.AccountCreatedResponse, error)
	ListStudents(ctx context.Context, requester domain.Identity, classID *int64) ([]dto.StudentResponse, error)
	UpdateStudent(ctx context.Context, requester domain.Identity, studentID int64, req *dto.StudentRequest) error
	DeleteStudent(ctx context.Context, requester domain.Identity, studentID int64) error
	ResetStudentPassword(ctx context.Context, requester domain.Identity, studentID int64) error
}

type schoolService struct {
	classRepo       domain.ClassRepository
	studentRepo     domain.StudentRepository
	userRepo        domain.UserRepository
	tx              domain.TransactionManager
	defaultPassword string
}

func NewSchoolService(
	classRepo domain.ClassRepository,
	studentRepo domain.StudentRepository,
	userRepo domain.UserRepository,
	tx domain.TransactionManager,
	defaultPassword string,
) SchoolService {
	return &schoolService{
		classRepo:       classRepo,
		studentRepo:     studentRepo,
		userRepo:        userRepo,
		tx:              tx,
		defaultPassword: defaultPassword,
	}
}

func toClassResponse(c *domain.Class) dto.ClassResponse {
	return dto.ClassResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		TeacherID:    c.TeacherID,
		StudentCount: c.StudentCount,
		QuizCount:    c.QuizCount,
		CreatedAt:    c.CreatedAt,
	}
}

func toStudentResponse(s *domain.Student) dto.StudentResponse {
	return dto.StudentResponse{
		ID:        s.ID,
		Name:      s.Name,
		Phone:     s.Phone,
		Email:     s.Email,
		ClassID:   s.ClassID,
		ClassName: s.ClassName,
		TeacherID: s.TeacherID,
		CreatedAt: s.CreatedAt,
	}
}

func (s *schoolService) ownedClass(ctx context.Context, requester domain.Identity, classID int64) (*domain.Class, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load class", err)
	}
	if class == nil || (!requester.IsAdmin() && class.TeacherID != requester.ID) {
		return nil, domain.NewNotFoundError("Class not found")
	}
	return class, nil
}

func (s *schoolService) ownedStudent(ctx context.Context, requester domain.Identity, studentID int64) (*domain.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load student", err)
	}
	if student == nil || (!requester.IsAdmin() && student.TeacherID != requester.ID) {
		return nil, domain.NewNotFoundError("Student not found")
	}
	return student, nil
}

// CreateClass assigns the class to the requesting teacher.
func (s *schoolService) CreateClass(ctx context.Context, requester domain.Identity, req *dto.ClassRequest) (*dto.ClassResponse, error) {
	if requester.Role != domain.RoleTeacher {
		return nil, domain.NewForbiddenError("Only teachers can create classes")
	}
	class := &domain.Class{Name: req.Name, Description: req.Description, TeacherID: requester.ID}
	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, domain.NewInternalError("Failed to create class", err)
	}
	logger.Get().Info("Class created", zap.Int64("classID", class.ID), zap.Int64("teacherID", class.TeacherID))
	resp := toClassResponse(class)
	return &resp, nil
}

func (s *schoolService) ListClasses(ctx context.Context, requester domain.Identity) ([]dto.ClassResponse, error) {
	classes, err := s.classRepo.List(ctx, requester.OwnerScope())
	if err != nil {
		return nil, domain.NewInternalError("Failed to list classes", err)
	}
	out := make([]dto.ClassResponse, 0, len(classes))
	for i := range classes {
		out = append(out, toClassResponse(&classes[i]))
	}
	return out, nil
}

func (s *schoolService) UpdateClass(ctx context.Context, requester domain.Identity, classID int64, req *dto.ClassRequest) error {
	class, err := s.ownedClass(ctx, requester, classID)
	if err != nil {
		return err
	}
	class.Name = req.Name
	class.Description = req.Description
	affected, err := s.classRepo.Update(ctx, class)
	if err != nil {
		return domain.NewInternalError("Failed to update class", err)
	}
	if affected == 0 {
		return domain.NewNotFoundError("Class not found")
	}
	return nil
}

// DeleteClass removes the class with its students and quizzes.
func (s *schoolService) DeleteClass(ctx context.Context, requester domain.Identity, classID int64) error {
	if _, err := s.ownedClass(ctx, requester, classID); err != nil {
		return err
	}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.classRepo.Delete(ctx, classID)
	})
	if err != nil {
		return domain.NewInternalError("Failed to delete class", err)
	}
	logger.Get().Info("Class deleted", zap.Int64("classID", classID), zap.Int64("by", requester.AccountID))
	return nil
}

// phoneTaken reports whether phone is used by another student or login.
func (s *schoolService) phoneTaken(ctx context.Context, phone string, exceptStudentID int64) (bool, error) {
	student, err := s.studentRepo.GetByPhone(ctx, phone)
	if err != nil {
		return false, err
	}
	if student != nil && student.ID != exceptStudentID {
		return true, nil
	}
	user, err := s.userRepo.GetByUsername(ctx, phone)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return user.Role != domain.RoleStudent || user.ProfileID == nil || *user.ProfileID != exceptStudentID, nil
}

// CreateStudent creates the student and their login in one transaction. The
// login username is the phone number.
func (s *schoolService) CreateStudent(ctx context.Context, requester domain.Identity, req *dto.StudentRequest) (*dto.AccountCreatedResponse, error) {
	class, err := s.ownedClass(ctx, requester, req.ClassID)
	if err != nil {
		return nil, err
	}

	student := &domain.Student{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		ClassID:   class.ID,
		TeacherID: class.TeacherID,
	}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		taken, err := s.phoneTaken(ctx, req.Phone, 0)
		if err != nil {
			return domain.NewInternalError("Failed to check phone", err)
		}
		if taken {
			return domain.NewConflictError("A student with this phone already exists", nil).
				WithContext("phone", req.Phone)
		}
		if err := s.studentRepo.Create(ctx, student); err != nil {
			return domain.NewInternalError("Failed to create student", err)
		}
		_, err = newLogin(ctx, s.userRepo, student.Phone, domain.RoleStudent, student.ID, s.defaultPassword)
		return err
	})
	if err != nil {
		return nil, asDomainError(err, "Failed to create student")
	}

	logger.Get().Info("Student created",
		zap.Int64("studentID", student.ID), zap.Int64("classID", class.ID), zap.Int64("teacherID", class.TeacherID))
	return &dto.AccountCreatedResponse{ID: student.ID, Username: student.Phone}, nil
}

func (s *schoolService) ListStudents(ctx context.Context, requester domain.Identity, classID *int64) ([]dto.StudentResponse, error) {
	students, err := s.studentRepo.List(ctx, requester.OwnerScope(), classID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list students", err)
	}
	out := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		out = append(out, toStudentResponse(&students[i]))
	}
	return out, nil
}

// UpdateStudent may move the student to another of the teacher's classes. A
// changed phone also renames the login.
func (s *schoolService) UpdateStudent(ctx context.Context, requester domain.Identity, studentID int64, req *dto.StudentRequest) error {
	student, err := s.ownedStudent(ctx, requester, studentID)
	if err != nil {
		return err
	}
	class, err := s.ownedClass(ctx, requester, req.ClassID)
	if err != nil {
		return err
	}
	phoneChanged := student.Phone != req.Phone

	student.Name = req.Name
	student.Phone = req.Phone
	student.Email = req.Email
	student.ClassID = class.ID
	student.TeacherID = class.TeacherID

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if phoneChanged {
			taken, err := s.phoneTaken(ctx, req.Phone, studentID)
			if err != nil {
				return domain.NewInternalError("Failed to check phone", err)
			}
			if taken {
				return domain.NewConflictError("A student with this phone already exists", nil).
					WithContext("phone", req.Phone)
			}
		}
		affected, err := s.studentRepo.Update(ctx, student)
		if err != nil {
			return domain.NewInternalError("Failed to update student", err)
		}
		if affected == 0 {
			return domain.NewNotFoundError("Student not found")
		}
		if !phoneChanged {
			return nil
		}
		user, err := s.userRepo.GetByProfile(ctx, domain.RoleStudent, studentID)
		if err != nil {
			return domain.NewInternalError("Failed to load account", err)
		}
		if user == nil {
			return nil
		}
		if _, err := s.userRepo.UpdateUsername(ctx, user.ID, req.Phone); err != nil {
			return domain.NewInternalError("Failed to update account", err)
		}
		return nil
	})
	if err != nil {
		return asDomainError(err, "Failed to update student")
	}
	return nil
}

func (s *schoolService) DeleteStudent(ctx context.Context, requester domain.Identity, studentID int64) error {
	if _, err := s.ownedStudent(ctx, requester, studentID); err != nil {
		return err
	}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.studentRepo.Delete(ctx, studentID)
	})
	if err != nil {
		return domain.NewInternalError("Failed to delete student", err)
	}
	logger.Get().Info("Student deleted", zap.Int64("studentID", studentID), zap.Int64("by", requester.AccountID))
	return nil
}

func (s *schoolService) ResetStudentPassword(ctx context.Context, requester domain.Identity, studentID int64) error {
	if _, err := s.ownedStudent(ctx, requester, studentID); err != nil {
		return err
	}
	return resetPassword(ctx, s.userRepo, domain.RoleStudent, studentID, s.defaultPassword)
}
