package service

import (
	"context"
	"testing"

	"classquiz/internal/domain"
	"classquiz/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testDefaultPassword = "changeme123"

type schoolFixture struct {
	classes  *MockClassRepository
	students *MockStudentRepository
	users    *MockUserRepository
	tx       *passthroughTx
	svc      SchoolService
}

func newSchoolFixture() *schoolFixture {
	f := &schoolFixture{
		classes:  new(MockClassRepository),
		students: new(MockStudentRepository),
		users:    new(MockUserRepository),
		tx:       &passthroughTx{},
	}
	f.svc = NewSchoolService(f.classes, f.students, f.users, f.tx, testDefaultPassword)
	return f
}

func hashesTo(password string) func(u *domain.User) bool {
	return func(u *domain.User) bool {
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
	}
}

func TestSchoolService_CreateClass(t *testing.T) {
	f := newSchoolFixture()
	f.classes.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Class) bool {
		return c.Name == "7A" && c.TeacherID == 3
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Class).ID = 1
	}).Return(nil)

	out, err := f.svc.CreateClass(context.Background(), teacherUser, &dto.ClassRequest{Name: "7A"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.ID)

	_, err = f.svc.CreateClass(context.Background(), adminUser, &dto.ClassRequest{Name: "7B"})
	assertCode(t, err, domain.CodeForbidden)
}

func TestSchoolService_UpdateAndDeleteClass_Scoped(t *testing.T) {
	f := newSchoolFixture()
	ctx := context.Background()
	f.classes.On("GetByID", mock.Anything, int64(1)).Return(&domain.Class{ID: 1, TeacherID: 99}, nil)
	f.classes.On("GetByID", mock.Anything, int64(2)).Return(&domain.Class{ID: 2, TeacherID: 3}, nil)
	f.classes.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.Class) bool { return c.ID == 2 })).Return(int64(1), nil)
	f.classes.On("Delete", mock.Anything, int64(2)).Return(nil)

	assertCode(t, f.svc.UpdateClass(ctx, teacherUser, 1, &dto.ClassRequest{Name: "x"}), domain.CodeNotFound)
	assertCode(t, f.svc.DeleteClass(ctx, teacherUser, 1), domain.CodeNotFound)

	require.NoError(t, f.svc.UpdateClass(ctx, teacherUser, 2, &dto.ClassRequest{Name: "x"}))
	require.NoError(t, f.svc.DeleteClass(ctx, teacherUser, 2))
	assert.Equal(t, 1, f.tx.calls)
	f.classes.AssertNotCalled(t, "Delete", mock.Anything, int64(1))
}

func TestSchoolService_CreateStudent(t *testing.T) {
	ctx := context.Background()
	req := &dto.StudentRequest{Name: "Ana", Phone: "0700", Email: "ana@example.com", ClassID: 2}

	t.Run("creates student and login", func(t *testing.T) {
		f := newSchoolFixture()
		f.classes.On("GetByID", mock.Anything, int64(2)).Return(&domain.Class{ID: 2, TeacherID: 3}, nil)
		f.students.On("GetByPhone", mock.Anything, "0700").Return(nil, nil)
		f.users.On("GetByUsername", mock.Anything, "0700").Return(nil, nil)
		f.students.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Student) bool {
			return s.ClassID == 2 && s.TeacherID == 3 && s.Email == "ana@example.com"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Student).ID = 4
		}).Return(nil)
		f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Username == "0700" && u.Role == domain.RoleStudent && u.MustChangePassword &&
				*u.ProfileID == 4 && hashesTo(testDefaultPassword)(u)
		})).Return(nil)

		out, err := f.svc.CreateStudent(ctx, teacherUser, req)
		require.NoError(t, err)
		assert.Equal(t, int64(4), out.ID)
		assert.Equal(t, "0700", out.Username)
		assert.Equal(t, 1, f.tx.calls)
		f.users.AssertExpectations(t)
	})

	t.Run("duplicate phone", func(t *testing.T) {
		f := newSchoolFixture()
		f.classes.On("GetByID", mock.Anything, int64(2)).Return(&domain.Class{ID: 2, TeacherID: 3}, nil)
		f.students.On("GetByPhone", mock.Anything, "0700").Return(&domain.Student{ID: 8}, nil)

		_, err := f.svc.CreateStudent(ctx, teacherUser, req)
		assertCode(t, err, domain.CodeConflict)
		f.students.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("phone used as another login", func(t *testing.T) {
		f := newSchoolFixture()
		f.classes.On("GetByID", mock.Anything, int64(2)).Return(&domain.Class{ID: 2, TeacherID: 3}, nil)
		f.students.On("GetByPhone", mock.Anything, "0700").Return(nil, nil)
		f.users.On("GetByUsername", mock.Anything, "0700").Return(&domain.User{ID: 1, Role: domain.RoleAdmin}, nil)

		_, err := f.svc.CreateStudent(ctx, teacherUser, req)
		assertCode(t, err, domain.CodeConflict)
	})

	t.Run("foreign class", func(t *testing.T) {
		f := newSchoolFixture()
		f.classes.On("GetByID", mock.Anything, int64(2)).Return(&domain.Class{ID: 2, TeacherID: 99}, nil)

		_, err := f.svc.CreateStudent(ctx, teacherUser, req)
		assertCode(t, err, domain.CodeNotFound)
		assert.Equal(t, 0, f.tx.calls)
	})
}

func TestSchoolService_UpdateStudent_RenamesLogin(t *testing.T) {
	f := newSchoolFixture()
	ctx := context.Background()
	f.students.On("GetByID", mock.Anything, int64(4)).
		Return(&domain.Student{ID: 4, Phone: "0700", ClassID: 2, TeacherID: 3}, nil)
	f.classes.On("GetByID", mock.Anything, int64(2)).Return(&domain.Class{ID: 2, TeacherID: 3}, nil)
	f.students.On("GetByPhone", mock.Anything, "0711").Return(nil, nil)
	f.users.On("GetByUsername", mock.Anything, "0711").Return(nil, nil)
	f.students.On("Update", mock.Anything, mock.MatchedBy(func(s *domain.Student) bool {
		return s.ID == 4 && s.Phone == "0711"
	})).Return(int64(1), nil)
	f.users.On("GetByProfile", mock.Anything, domain.RoleStudent, int64(4)).Return(&domain.User{ID: 20}, nil)
	f.users.On("UpdateUsername", mock.Anything, int64(20), "0711").Return(int64(1), nil)

	err := f.svc.UpdateStudent(ctx, teacherUser, 4, &dto.StudentRequest{Name: "Ana", Phone: "0711", ClassID: 2})
	require.NoError(t, err)
	f.users.AssertExpectations(t)
}

func TestSchoolService_DeleteStudent(t *testing.T) {
	f := newSchoolFixture()
	ctx := context.Background()
	f.students.On("GetByID", mock.Anything, int64(4)).Return(&domain.Student{ID: 4, TeacherID: 3}, nil)
	f.students.On("GetByID", mock.Anything, int64(5)).Return(&domain.Student{ID: 5, TeacherID: 99}, nil)
	f.students.On("Delete", mock.Anything, int64(4)).Return(nil)

	require.NoError(t, f.svc.DeleteStudent(ctx, teacherUser, 4))
	assertCode(t, f.svc.DeleteStudent(ctx, teacherUser, 5), domain.CodeNotFound)
	require.NoError(t, f.svc.DeleteStudent(ctx, adminUser, 4))
}

func TestSchoolService_ResetStudentPassword(t *testing.T) {
	f := newSchoolFixture()
	f.students.On("GetByID", mock.Anything, int64(4)).Return(&domain.Student{ID: 4, TeacherID: 3}, nil)
	f.users.On("GetByProfile", mock.Anything, domain.RoleStudent, int64(4)).Return(&domain.User{ID: 20}, nil)
	f.users.On("UpdatePassword", mock.Anything, int64(20), mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(testDefaultPassword)) == nil
	}), true).Return(int64(1), nil)

	require.NoError(t, f.svc.ResetStudentPassword(context.Background(), teacherUser, 4))
	f.users.AssertExpectations(t)
}

func TestSchoolService_ListStudents(t *testing.T) {
	f := newSchoolFixture()
	f.students.On("List", mock.Anything, int64Ptr(3), int64Ptr(2)).
		Return([]domain.Student{{ID: 4, Name: "Ana", ClassName: "7A"}}, nil)

	out, err := f.svc.ListStudents(context.Background(), teacherUser, int64Ptr(2))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "7A", out[0].ClassName)
}
