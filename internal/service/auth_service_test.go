package service

import (
	"context"
	"testing"
	"time"

	"classquiz/internal/config"
	"classquiz/internal/domain"
	"classquiz/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testJWTConfig = config.JWTConfig{
	SecretKey:       "test-secret-key-for-auth-service",
	AccessTokenTTL:  time.Hour,
	RefreshTokenTTL: 24 * time.Hour,
}

type authFixture struct {
	users    *MockUserRepository
	teachers *MockTeacherRepository
	students *MockStudentRepository
	svc      AuthService
}

func newAuthFixture(t *testing.T, cfg config.JWTConfig) *authFixture {
	t.Helper()
	f := &authFixture{
		users:    new(MockUserRepository),
		teachers: new(MockTeacherRepository),
		students: new(MockStudentRepository),
	}
	svc, err := NewAuthService(f.users, f.teachers, f.students, cfg)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func testHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := NewAuthService(nil, nil, nil, config.JWTConfig{})
	assert.Error(t, err)
}

func TestAuthService_Login_Teacher(t *testing.T) {
	f := newAuthFixture(t, testJWTConfig)
	ctx := context.Background()
	user := &domain.User{ID: 7, Username: "t@example.com", PasswordHash: testHash(t, "secret123"),
		Role: domain.RoleTeacher, MustChangePassword: true, ProfileID: int64Ptr(3)}
	f.users.On("GetByUsername", mock.Anything, "t@example.com").Return(user, nil)
	f.teachers.On("GetByID", mock.Anything, int64(3)).Return(&domain.Teacher{ID: 3, Name: "Mrs T", Email: "t@example.com"}, nil)

	resp, err := f.svc.Login(ctx, &dto.LoginRequest{Username: "t@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.True(t, resp.MustChangePassword)
	assert.Equal(t, "Mrs T", resp.Profile.Name)
	assert.Equal(t, int64(3), resp.Profile.ID)

	identity, err := f.svc.ValidateAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{AccountID: 7, ID: 3, Role: domain.RoleTeacher}, identity)

	_, err = f.svc.ValidateAccessToken(ctx, resp.RefreshToken)
	assertCode(t, err, domain.CodeUnauthorized)
}

func TestAuthService_Login_StudentByEmail(t *testing.T) {
	f := newAuthFixture(t, testJWTConfig)
	ctx := context.Background()
	f.users.On("GetByUsername", mock.Anything, "ana@example.com").Return(nil, nil)
	f.students.On("GetByEmail", mock.Anything, "ana@example.com").Return(&domain.Student{ID: 4, ClassID: 2}, nil)
	f.users.On("GetByProfile", mock.Anything, domain.RoleStudent, int64(4)).
		Return(&domain.User{ID: 20, Username: "0700", PasswordHash: testHash(t, "pw"), Role: domain.RoleStudent, ProfileID: int64Ptr(4)}, nil)
	f.students.On("GetByID", mock.Anything, int64(4)).
		Return(&domain.Student{ID: 4, Name: "Ana", ClassID: 2, ClassName: "7A"}, nil)

	resp, err := f.svc.Login(ctx, &dto.LoginRequest{Username: "ana@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "student", resp.Role)
	assert.Equal(t, "7A", resp.Profile.ClassName)

	identity, err := f.svc.ValidateAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, identity.ClassID)
	assert.Equal(t, int64(2), *identity.ClassID)
	assert.Equal(t, int64(4), identity.ID)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	f := newAuthFixture(t, testJWTConfig)
	f.users.On("GetByUsername", mock.Anything, "admin").
		Return(&domain.User{ID: 1, Username: "admin", PasswordHash: testHash(t, "right"), Role: domain.RoleAdmin}, nil)
	f.users.On("GetByUsername", mock.Anything, "ghost").Return(nil, nil)

	_, err := f.svc.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: "wrong"})
	assertCode(t, err, domain.CodeUnauthorized)

	_, err = f.svc.Login(context.Background(), &dto.LoginRequest{Username: "ghost", Password: "x"})
	assertCode(t, err, domain.CodeUnauthorized)
	f.students.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestAuthService_RefreshToken(t *testing.T) {
	f := newAuthFixture(t, testJWTConfig)
	ctx := context.Background()
	admin := &domain.User{ID: 1, Username: "admin", PasswordHash: testHash(t, "pw"), Role: domain.RoleAdmin}
	f.users.On("GetByUsername", mock.Anything, "admin").Return(admin, nil)
	f.users.On("GetByID", mock.Anything, int64(1)).Return(admin, nil)

	login, err := f.svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "pw"})
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	_, err = f.svc.RefreshToken(ctx, login.AccessToken)
	assertCode(t, err, domain.CodeUnauthorized)

	_, err = f.svc.RefreshToken(ctx, "garbage")
	assertCode(t, err, domain.CodeUnauthorized)
}

func TestAuthService_RefreshToken_UserGone(t *testing.T) {
	f := newAuthFixture(t, testJWTConfig)
	ctx := context.Background()
	admin := &domain.User{ID: 1, Username: "admin", PasswordHash: testHash(t, "pw"), Role: domain.RoleAdmin}
	f.users.On("GetByUsername", mock.Anything, "admin").Return(admin, nil)
	f.users.On("GetByID", mock.Anything, int64(1)).Return(nil, nil)

	login, err := f.svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "pw"})
	require.NoError(t, err)
	_, err = f.svc.RefreshToken(ctx, login.RefreshToken)
	assertCode(t, err, domain.CodeUnauthorized)
}

func TestAuthService_ValidateAccessToken_ExpiredOrForeign(t *testing.T) {
	ctx := context.Background()
	admin := &domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin}

	expiredCfg := testJWTConfig
	expiredCfg.AccessTokenTTL = -time.Minute
	f := newAuthFixture(t, expiredCfg)
	admin.PasswordHash = testHash(t, "pw")
	f.users.On("GetByUsername", mock.Anything, "admin").Return(admin, nil)
	login, err := f.svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "pw"})
	require.NoError(t, err)
	_, err = f.svc.ValidateAccessToken(ctx, login.AccessToken)
	assertCode(t, err, domain.CodeUnauthorized)

	otherCfg := testJWTConfig
	otherCfg.SecretKey = "another-secret"
	other := newAuthFixture(t, otherCfg)
	other.users.On("GetByUsername", mock.Anything, "admin").Return(admin, nil)
	foreign, err := other.svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "pw"})
	require.NoError(t, err)

	valid := newAuthFixture(t, testJWTConfig)
	_, err = valid.svc.ValidateAccessToken(ctx, foreign.AccessToken)
	assertCode(t, err, domain.CodeUnauthorized)
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newAuthFixture(t, testJWTConfig)
	ctx := context.Background()
	requester := domain.Identity{AccountID: 20, ID: 4, Role: domain.RoleStudent}
	f.users.On("GetByID", mock.Anything, int64(20)).
		Return(&domain.User{ID: 20, PasswordHash: testHash(t, "changeme123"), Role: domain.RoleStudent}, nil)
	f.users.On("UpdatePassword", mock.Anything, int64(20), mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword1")) == nil
	}), false).Return(int64(1), nil)

	err := f.svc.ChangePassword(ctx, requester, &dto.ChangePasswordRequest{OldPassword: "nope", NewPassword: "newpassword1"})
	assertCode(t, err, domain.CodeInvalidInput)

	err = f.svc.ChangePassword(ctx, requester, &dto.ChangePasswordRequest{OldPassword: "changeme123", NewPassword: "newpassword1"})
	require.NoError(t, err)
	f.users.AssertExpectations(t)
}

func TestAuthService_Profile_Admin(t *testing.T) {
	f := newAuthFixture(t, testJWTConfig)
	f.users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin}, nil)

	p, err := f.svc.Profile(context.Background(), adminUser)
	require.NoError(t, err)
	assert.Equal(t, "admin", p.Name)
	assert.Equal(t, "admin", p.Role)
}
