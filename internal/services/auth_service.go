package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"socialchat/internal/metrics"
	"socialchat/internal/models"
	"socialchat/internal/repositories"
	"socialchat/internal/utils"
)

const (
	minPasswordLen    = 6
	refreshTokenBytes = utils.DefaultTokenBytes
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, *TokenPair, error)
	// Login accepts either a username or an email as identifier.
	Login(ctx context.Context, identifier, password string) (*models.User, *TokenPair, error)
	Refresh(ctx context.Context, username, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID uint) error
	ParseAccessToken(token string) (*Claims, error)
	// Wait blocks until queued welcome emails are sent.
	Wait()
}

type authService struct {
	users      repositories.UserRepository
	tokens     repositories.RefreshTokenRepository
	issuer     *TokenIssuer
	refreshTTL time.Duration
	email      EmailSender
	log        *zap.Logger
	now        func() time.Time
	wg         sync.WaitGroup
}

func NewAuthService(
	users repositories.UserRepository,
	tokens repositories.RefreshTokenRepository,
	issuer *TokenIssuer,
	refreshTTL time.Duration,
	email EmailSender,
	log *zap.Logger,
) AuthService {
	return &authService{
		users:      users,
		tokens:     tokens,
		issuer:     issuer,
		refreshTTL: refreshTTL,
		email:      email,
		log:        log,
		now:        time.Now,
	}
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func validatePassword(pw string) error {
	if len(pw) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}
	return nil
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, *TokenPair, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" {
		return nil, nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}
	role, err := s.users.RoleByName(ctx, models.RoleUser)
	if err != nil {
		return nil, nil, fmt.Errorf("load default role: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Roles:        []models.Role{*role},
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return nil, nil, fmt.Errorf("%w: username or email already taken", ErrConflict)
		}
		return nil, nil, err
	}
	s.log.Info("[auth][register] user created", zap.Uint("user_id", user.ID), zap.String("username", user.Username))

	if s.email != nil {
		// не держим запрос на SMTP и не валим регистрацию из-за почты
		s.wg.Add(1)
		go func(id uint, to, username string) {
			defer s.wg.Done()
			err := s.email.SendWelcomeEmail(to, username)
			metrics.RecordNotification("welcome_email", err)
			if err != nil {
				s.log.Warn("[auth][register] welcome email failed", zap.Uint("user_id", id), zap.Error(err))
			}
		}(user.ID, user.Email, user.Username)
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) Login(ctx context.Context, identifier, password string) (*models.User, *TokenPair, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: identifier and password are required", ErrInvalidInput)
	}

	var (
		user *models.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.users.GetByEmail(ctx, identifier)
	} else {
		user, err = s.users.GetByUsername(ctx, identifier)
	}
	if errors.Is(err, repositories.ErrNotFound) {
		s.log.Info("[auth][login] unknown identifier", zap.String("identifier", identifier))
		return nil, nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err != nil {
		return nil, nil, err
	}
	if user.PasswordHash == "" || !CheckPassword(user.PasswordHash, password) {
		s.log.Info("[auth][login] password mismatch", zap.Uint("user_id", user.ID))
		return nil, nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("[auth][login] success", zap.Uint("user_id", user.ID))
	return user, pair, nil
}

// issue mints an access token and persists a fresh refresh record.
func (s *authService) issue(ctx context.Context, user *models.User) (*TokenPair, error) {
	now := s.now()
	access, accessExp, err := s.issuer.Issue(user, now)
	if err != nil {
		return nil, err
	}
	rt, err := utils.RandomHex(refreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	record := &models.RefreshToken{
		Token:     rt,
		UserID:    user.ID,
		UserName:  user.Username,
		ExpiresAt: now.Add(s.refreshTTL),
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     rt,
		RefreshExpiresAt: record.ExpiresAt,
	}, nil
}

func (s *authService) Refresh(ctx context.Context, username, refreshToken string) (*TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token is required", ErrInvalidInput)
	}

	record, err := s.tokens.GetByToken(ctx, refreshToken)
	if errors.Is(err, repositories.ErrNotFound) {
		s.log.Info("[auth][refresh] unknown token", zap.String("token", utils.MaskToken(refreshToken)))
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if record.UserName != strings.TrimSpace(username) {
		s.log.Warn("[auth][refresh] username mismatch", zap.Uint("user_id", record.UserID))
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}
	now := s.now()
	if record.Expired(now) {
		if err := s.tokens.Delete(ctx, record.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			s.log.Warn("[auth][refresh] delete expired token failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: refresh token expired", ErrUnauthorized)
	}

	user, err := s.users.GetByID(ctx, record.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	newToken, err := utils.RandomHex(refreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	newExp := now.Add(s.refreshTTL)
	if err := s.tokens.Rotate(ctx, record.ID, record.Token, newToken, newExp); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// another refresh won the race
			return nil, fmt.Errorf("%w: refresh token already used", ErrUnauthorized)
		}
		return nil, err
	}

	access, accessExp, err := s.issuer.Issue(user, now)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     newToken,
		RefreshExpiresAt: newExp,
	}, nil
}

func (s *authService) Logout(ctx context.Context, userID uint) error {
	n, err := s.tokens.DeleteByUser(ctx, userID)
	if err != nil {
		return err
	}
	s.log.Info("[auth][logout] refresh tokens revoked", zap.Uint("user_id", userID), zap.Int64("count", n))
	return nil
}

func (s *authService) Wait() {
	s.wg.Wait()
}

func (s *authService) ParseAccessToken(token string) (*Claims, error) {
	return s.issuer.Parse(token)
}
