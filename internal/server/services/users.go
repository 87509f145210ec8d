package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/dmitrijs2005/swapdiary/internal/cryptox"
	"github.com/dmitrijs2005/swapdiary/internal/dbx"
	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/dmitrijs2005/swapdiary/internal/logging"
	"github.com/dmitrijs2005/swapdiary/internal/server/auth"
	"github.com/dmitrijs2005/swapdiary/internal/server/blob"
	"github.com/dmitrijs2005/swapdiary/internal/server/config"
	"github.com/dmitrijs2005/swapdiary/internal/server/models"
	"github.com/dmitrijs2005/swapdiary/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const minPasswordLength = 6

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Registration is the input for a new account. Role is fixed for the life
// of the account.
type Registration struct {
	UserName    string
	Password    string
	DisplayName string
	Email       string
	Role        string
}

// UserService handles accounts, tokens, profiles and partner links.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	blobs                        blob.Store
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	maxImageBytes                int64
	now                          func() time.Time
	logger                       logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, blobs blob.Store, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		blobs:                        blobs,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		maxImageBytes:                cfg.MaxImageBytes,
		now:                          time.Now,
		logger:                       logger.With("module", "user_service"),
	}
}

// Register creates an account and returns its profile. A taken username
// yields common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, r Registration) (*diary.Profile, error) {
	r.UserName = strings.TrimSpace(r.UserName)
	if r.UserName == "" {
		return nil, fmt.Errorf("%w: username is required", common.ErrValidation)
	}
	if len(r.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, minPasswordLength)
	}
	role, err := diary.ParseRole(r.Role)
	if err != nil {
		return nil, common.ErrRoleRequired
	}
	if strings.TrimSpace(r.DisplayName) == "" {
		r.DisplayName = r.UserName
	}

	salt := cryptox.NewSalt()
	u := &models.User{
		UserName:     r.UserName,
		DisplayName:  r.DisplayName,
		Email:        strings.TrimSpace(r.Email),
		Role:         string(role),
		Salt:         salt,
		PasswordHash: cryptox.HashPassword([]byte(r.Password), salt),
	}

	created, err := s.repomanager.Users(s.db).Create(ctx, u)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user", created.ID, "role", created.Role)
	return profileFromUser(created, ""), nil
}

// Login verifies the password and mints a TokenPair. Unknown users and bad
// passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, userName, password string) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}
	if !cryptox.VerifyPassword(user.PasswordHash, user.Salt, []byte(password)) {
		return nil, common.ErrUnauthorized
	}
	return s.generateTokenPair(ctx, user.ID, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes the refresh token.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	return s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken)
}

// PurgeExpiredTokens drops refresh tokens past their expiry.
func (s *UserService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, s.now())
}

// Profile loads userID with its avatar resolved to a download URL.
func (s *UserService) Profile(ctx context.Context, userID string) (*diary.Profile, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toProfile(ctx, u), nil
}

// LinkPartner points userID's odd-day view at partnerID. The link is one
// way: partnerID's own profile is left untouched.
func (s *UserService) LinkPartner(ctx context.Context, userID, partnerID string) (*diary.Profile, error) {
	partnerID = strings.TrimSpace(partnerID)
	if partnerID == "" {
		return nil, fmt.Errorf("%w: partner code is required", common.ErrValidation)
	}
	if partnerID == userID {
		return nil, common.ErrSelfPartner
	}
	if _, err := s.getUser(ctx, partnerID); err != nil {
		return nil, err
	}

	if err := s.repomanager.Users(s.db).SetPartner(ctx, userID, partnerID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrQuery, err)
	}

	s.logger.Info(ctx, "partner linked", "user", userID, "partner", partnerID)
	return s.Profile(ctx, userID)
}

// SetAvatar uploads img as userID's profile picture.
func (s *UserService) SetAvatar(ctx context.Context, userID string, img diary.Image) (*diary.Profile, error) {
	if len(img.Data) == 0 {
		return nil, fmt.Errorf("%w: picture is empty", common.ErrValidation)
	}
	if s.maxImageBytes > 0 && int64(len(img.Data)) > s.maxImageBytes {
		return nil, fmt.Errorf("%w: picture exceeds %d bytes", common.ErrValidation, s.maxImageBytes)
	}

	key := blob.AvatarKey(userID)
	if err := s.blobs.Put(ctx, key, img.ContentType, img.Data); err != nil {
		return nil, err
	}
	if err := s.repomanager.Users(s.db).SetAvatar(ctx, userID, key); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrQuery, err)
	}
	return s.Profile(ctx, userID)
}

// --- helpers below ---

func (s *UserService) getUser(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: user %s", common.ErrNotFound, id)
	}
	u, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", common.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrQuery, err)
	}
	return u, nil
}

func (s *UserService) toProfile(ctx context.Context, u *models.User) *diary.Profile {
	var avatar string
	if u.AvatarKey != "" {
		url, err := s.blobs.PresignGet(ctx, u.AvatarKey)
		if err != nil {
			s.logger.Warn(ctx, "avatar presign failed", "user", u.ID, "error", err)
		} else {
			avatar = url
		}
	}
	return profileFromUser(u, avatar)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, s.now().Add(s.refreshTokenValidityDuration)); err != nil {
		return nil, common.ErrInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
