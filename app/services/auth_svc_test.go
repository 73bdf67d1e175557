package services

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/db/dbtest"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMail struct {
	to, subject, body string
}

type captureMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *captureMailer) SendHTMLEmail(to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func (m *captureMailer) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

var tokenInLink = regexp.MustCompile(`token=([^"]+)`)

func linkToken(t *testing.T, body string) string {
	t.Helper()
	m := tokenInLink.FindStringSubmatch(body)
	require.Len(t, m, 2, body)
	return m[1]
}

func newAuth(t *testing.T) (*AuthService, *captureMailer) {
	t.Helper()
	db := dbtest.Open(t)
	mailer := &captureMailer{}
	return NewAuthService(repositories.NewUserRepository(db), mailer, "test-secret", time.Hour, "http://localhost:8000/", zap.NewNop()), mailer
}

func register(t *testing.T, s *AuthService, username, role string) *models.User {
	t.Helper()
	user, err := s.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    " " + username + "@Example.com ",
		Password: "secret123",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	s, mailer := newAuth(t)
	ctx := context.Background()

	user := register(t, s, "rahim", "")
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.Equal(t, "rahim@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.Password)
	assert.False(t, user.IsVerified)

	mail := mailer.last(t)
	assert.Equal(t, "rahim@example.com", mail.to)
	assert.Contains(t, mail.body, "http://localhost:8000/verify-email?token=")

	_, err := s.Register(ctx, RegisterInput{Username: "other", Email: "RAHIM@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = s.Register(ctx, RegisterInput{Username: "rahim", Email: "new@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = s.Register(ctx, RegisterInput{Username: "boss", Email: "boss@example.com", Password: "secret123", Role: "admin"})
	assert.ErrorIs(t, err, ErrValidation)

	artisan := register(t, s, "karim", "Artisan")
	assert.Equal(t, models.RoleArtisan, artisan.Role)
}

func TestLoginAndAuthenticate(t *testing.T) {
	s, _ := newAuth(t)
	ctx := context.Background()
	user := register(t, s, "rahim", "")

	_, err := s.Login(ctx, "rahim@example.com", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, msgInvalidCredentials, Detail(err, ""))
	_, err = s.Login(ctx, "nobody@example.com", "secret123")
	require.ErrorIs(t, err, ErrUnauthorized)

	token, err := s.Login(ctx, "Rahim@Example.com", "secret123")
	require.NoError(t, err)

	got, err := s.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.Authenticate(ctx, token+"x")
	assert.ErrorIs(t, err, ErrUnauthorized)

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticate_RejectsOtherPurposes(t *testing.T) {
	s, mailer := newAuth(t)
	register(t, s, "rahim", "")

	verifyToken := linkToken(t, mailer.last(t).body)
	_, err := s.Authenticate(context.Background(), verifyToken)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid token payload", Detail(err, ""))
}

func TestVerifyEmail(t *testing.T) {
	s, mailer := newAuth(t)
	ctx := context.Background()
	user := register(t, s, "rahim", "")

	require.ErrorIs(t, s.VerifyEmail(ctx, "garbage"), ErrValidation)
	require.NoError(t, s.VerifyEmail(ctx, linkToken(t, mailer.last(t).body)))

	got, err := s.userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
}

func TestForgotAndResetPassword(t *testing.T) {
	s, mailer := newAuth(t)
	ctx := context.Background()
	register(t, s, "rahim", "")

	require.NoError(t, s.ForgotPassword(ctx, "nobody@example.com"))
	require.NoError(t, s.ForgotPassword(ctx, "rahim@example.com"))
	mail := mailer.last(t)
	assert.Equal(t, "Password reset", mail.subject)
	token := linkToken(t, mail.body)

	assert.ErrorIs(t, s.ResetPassword(ctx, token, "123"), ErrValidation)
	require.NoError(t, s.ResetPassword(ctx, token, "newsecret"))

	_, err := s.Login(ctx, "rahim@example.com", "secret123")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = s.Login(ctx, "rahim@example.com", "newsecret")
	assert.NoError(t, err)

	access, err := s.Login(ctx, "rahim@example.com", "newsecret")
	require.NoError(t, err)
	assert.ErrorIs(t, s.ResetPassword(ctx, access, "another1"), ErrValidation)
}
