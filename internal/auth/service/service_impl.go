package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/tigfin/tigfin/internal/auth/domain"
	"github.com/tigfin/tigfin/internal/auth/password"
	"github.com/tigfin/tigfin/internal/cache"
	"github.com/tigfin/tigfin/internal/clock"
	"github.com/tigfin/tigfin/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minPasswordLen = 8

// Resolved sessions are cached briefly so every request does not hit the
// sessions table. Sign-out invalidates the entry.
const sessionCacheTTL = 30 * time.Second

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Cfg   config.Config
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	sessionTTL time.Duration
	sessions   *cache.TTLCache[string, authdomain.User]
}

func NewService(p ServiceParam) authdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("auth.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		sessionTTL: p.Cfg.SessionTTL,
		sessions:   cache.NewTTLCache[string, authdomain.User](),
	}
}

func (s *Service) SignUp(ctx context.Context, req authdomain.SignUpRequest) (authdomain.SignInResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return authdomain.SignInResponse{}, err
	}
	if len(req.Password) < minPasswordLen {
		return authdomain.SignInResponse{}, authdomain.ErrInvalidPassword
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return authdomain.SignInResponse{}, err
	}

	user := authdomain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		Name:         strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	var resp authdomain.SignInResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&authdomain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return authdomain.ErrEmailTaken
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		session, err := s.createSession(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		resp = authdomain.SignInResponse{User: user, Token: session.Token}
		return nil
	})
	if err != nil {
		return authdomain.SignInResponse{}, err
	}

	s.log.Info("user signed up", zap.String("user_id", user.ID.String()))
	return resp, nil
}

func (s *Service) SignIn(ctx context.Context, req authdomain.SignInRequest) (authdomain.SignInResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return authdomain.SignInResponse{}, authdomain.ErrInvalidCredentials
	}

	var user authdomain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authdomain.SignInResponse{}, authdomain.ErrInvalidCredentials
		}
		return authdomain.SignInResponse{}, err
	}
	if !password.Verify(req.Password, user.PasswordHash) {
		return authdomain.SignInResponse{}, authdomain.ErrInvalidCredentials
	}

	session, err := s.createSession(ctx, s.db, user.ID)
	if err != nil {
		return authdomain.SignInResponse{}, err
	}
	return authdomain.SignInResponse{User: user, Token: session.Token}, nil
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	s.sessions.Delete(token)
	return s.db.WithContext(ctx).Exec(`DELETE FROM sessions WHERE token = ?`, token).Error
}

func (s *Service) Resolve(ctx context.Context, token string) (authdomain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return authdomain.User{}, authdomain.ErrUnauthorized
	}
	if user, ok := s.sessions.Get(token); ok {
		return user, nil
	}

	now := s.clock.Now()
	var row struct {
		authdomain.User
		ExpiresAt time.Time
	}
	err := s.db.WithContext(ctx).Raw(
		`SELECT u.id, u.email, u.name, u.created_at, s.expires_at
		 FROM sessions s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.token = ?`,
		token,
	).Scan(&row).Error
	if err != nil {
		return authdomain.User{}, err
	}
	if row.User.ID == 0 || now.After(row.ExpiresAt) {
		return authdomain.User{}, authdomain.ErrUnauthorized
	}

	s.sessions.Set(token, row.User, sessionCacheTTL)
	return row.User, nil
}

func (s *Service) createSession(ctx context.Context, db *gorm.DB, userID snowflake.ID) (authdomain.Session, error) {
	token, err := newSessionToken()
	if err != nil {
		return authdomain.Session{}, err
	}
	session := authdomain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: s.clock.Now().Add(s.sessionTTL),
		CreatedAt: s.clock.Now(),
	}
	if err := db.WithContext(ctx).Create(&session).Error; err != nil {
		return authdomain.Session{}, err
	}
	return session, nil
}

func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", authdomain.ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", authdomain.ErrInvalidEmail
	}
	return email, nil
}
