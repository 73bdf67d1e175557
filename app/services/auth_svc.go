package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/helpers"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/repositories"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	tokenPurposeAccess = "access"
	tokenPurposeVerify = "verify-email"
	tokenPurposeReset  = "reset-password"

	msgInvalidCredentials = "Invalid credentials"
	msgInvalidToken       = "Invalid token or user not found"
	msgUserExists         = "User with this email or username already exists."
)

type RegisterInput struct {
	Username string  `json:"username" validate:"required,min=3,max=100"`
	Email    string  `json:"email" validate:"required,email,max=100"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Role     string  `json:"role" validate:"omitempty,oneof=customer artisan"`
}

type Claims struct {
	UserID  uint   `json:"user_id"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo repositories.UserRepository
	mailer   EmailSender
	secret   []byte
	ttl      time.Duration
	baseURL  string
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, mailer EmailSender, secret string, ttl time.Duration, baseURL string, log *zap.Logger) *AuthService {
	if ttl <= 0 {
		ttl = 100 * time.Minute
	}
	return &AuthService{
		userRepo: userRepo,
		mailer:   mailer,
		secret:   []byte(secret),
		ttl:      ttl,
		baseURL:  strings.TrimRight(baseURL, "/"),
		log:      log,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	role := strings.ToLower(strings.TrimSpace(in.Role))
	switch role {
	case "":
		role = models.RoleCustomer
	case models.RoleCustomer, models.RoleArtisan:
	default:
		return nil, detail(ErrValidation, "role must be customer or artisan")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	if existing, err := s.userRepo.FindByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if existing != nil {
		return nil, detail(ErrConflict, msgUserExists)
	}
	if existing, err := s.userRepo.FindByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if existing != nil {
		return nil, detail(ErrConflict, msgUserExists)
	}

	hashed, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		FullName: in.FullName,
		Address:  in.Address,
		Phone:    in.Phone,
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, detail(ErrConflict, msgUserExists)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.sendVerificationEmail(user)
	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	return user, nil
}

func (s *AuthService) sendVerificationEmail(user *models.User) {
	if s.mailer == nil {
		return
	}
	token, err := s.issue(user, tokenPurposeVerify, 24*time.Hour)
	if err != nil {
		s.log.Error("failed to issue verification token", zap.Uint("user_id", user.ID), zap.Error(err))
		return
	}
	link := fmt.Sprintf("%s/verify-email?token=%s", s.baseURL, token)
	body := fmt.Sprintf(`<p>Hello %s,</p><p>Please verify your email address: <a href="%s">%s</a></p>`, user.Username, link, link)
	if err := s.mailer.SendHTMLEmail(user.Email, "Verify your email", body); err != nil {
		s.log.Warn("verification email not sent", zap.Uint("user_id", user.ID), zap.Error(err))
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !helpers.PasswordCompare(user.Password, []byte(password)) {
		return "", detail(ErrUnauthorized, msgInvalidCredentials)
	}
	return s.issue(user, tokenPurposeAccess, s.ttl)
}

func (s *AuthService) issue(user *models.User, purpose string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:  user.ID,
		Role:    user.Role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parse(tokenString, purpose string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, detail(ErrUnauthorized, "Invalid or expired token")
	}
	if claims.Purpose != purpose {
		return nil, detail(ErrUnauthorized, "Invalid token payload")
	}
	return claims, nil
}

// Authenticate resolves a bearer access token to its user.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.parse(tokenString, tokenPurposeAccess)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || !strings.EqualFold(user.Email, claims.Subject) {
		return nil, detail(ErrUnauthorized, msgInvalidToken)
	}
	return user, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString, tokenPurposeVerify)
	if err != nil {
		return detail(ErrValidation, "Invalid or expired token")
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return detail(ErrNotFound, "User not found")
	}
	if user.IsVerified {
		return nil
	}
	user.IsVerified = true
	return s.userRepo.Update(ctx, user)
}

// ForgotPassword mails a reset link when the address is known. It behaves the
// same whether or not the user exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || s.mailer == nil {
		return nil
	}

	token, err := s.issue(user, tokenPurposeReset, 30*time.Minute)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	body := fmt.Sprintf(`<p>Hello %s,</p><p>Reset your password here: <a href="%s">%s</a></p><p>The link expires in 30 minutes.</p>`, user.Username, link, link)
	if err := s.mailer.SendHTMLEmail(user.Email, "Password reset", body); err != nil {
		s.log.Warn("reset email not sent", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, tokenString, newPassword string) error {
	if len(newPassword) < 6 {
		return detail(ErrValidation, "password must be at least 6 characters")
	}
	claims, err := s.parse(tokenString, tokenPurposeReset)
	if err != nil {
		return detail(ErrValidation, "Invalid or expired token")
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return detail(ErrNotFound, "User not found")
	}

	hashed, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	return s.userRepo.Update(ctx, user)
}
