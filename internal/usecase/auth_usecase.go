package usecase

import (
	"context"
	"strings"

	"medical-center/internal/converter"
	"medical-center/internal/delivery/dto"
	"medical-center/internal/domain/entity"
	"medical-center/internal/domain/repository"
	"medical-center/internal/infrastructure/metrics"
	"medical-center/internal/service"
	"medical-center/pkg/jwt"
	"medical-center/pkg/validator"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthUsecase interface {
	// Authenticate checks an identifier and secret against the stored
	// credential. Unknown, inactive and mismatched all look the same.
	Authenticate(ctx context.Context, identifier, secret string) (*entity.Principal, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, principal entity.Principal, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, credentialID int64) (*dto.CredentialResponse, error)
	ChangePassword(ctx context.Context, principal entity.Principal, req *dto.ChangePasswordRequest) error
}

type authUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	validator      *validator.CustomValidator
	metrics        *metrics.Metrics
	credentialRepo repository.CredentialRepository
	auditService   service.AuditService
	jwtService     *jwt.JWTService
	sessions       service.SessionStore
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	metrics *metrics.Metrics,
	credentialRepo repository.CredentialRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	sessions service.SessionStore,
) AuthUsecase {
	return &authUsecase{
		db:             db,
		log:            log,
		validator:      validator,
		metrics:        metrics,
		credentialRepo: credentialRepo,
		auditService:   auditService,
		jwtService:     jwtService,
		sessions:       sessions,
	}
}

func (u *authUsecase) Authenticate(ctx context.Context, identifier, secret string) (*entity.Principal, error) {
	identifier = strings.ToUpper(strings.TrimSpace(identifier))

	credential, err := u.credentialRepo.FindActiveByIdentifier(u.db.WithContext(ctx), identifier)
	if err != nil {
		u.log.Warnf("Failed to find credential by identifier: %+v", err)
		return nil, storageError(err)
	}
	if credential == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(secret)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &entity.Principal{
		CredentialID: credential.ID,
		Identifier:   credential.Identifier,
		Privilege:    credential.Privilege,
	}, nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	req.Identifier = strings.ToUpper(strings.TrimSpace(req.Identifier))
	if errs := validate(u.validator, req); len(errs) > 0 {
		return nil, errs
	}

	principal, err := u.Authenticate(ctx, req.Identifier, req.Password)
	if err != nil {
		u.metrics.LoginAttempts.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, err
	}

	tokens, err := u.issue(ctx, *principal)
	if err != nil {
		return nil, err
	}

	u.metrics.LoginAttempts.WithLabelValues(metrics.ResultSuccess).Inc()

	ctx = entity.WithPrincipal(ctx, *principal)
	if err := u.auditService.LogCreate(ctx, u.db.WithContext(ctx), entity.AuditActionLogin, "credential", principal.CredentialID, nil); err != nil {
		u.log.Warnf("Failed to audit login for credential %d: %+v", principal.CredentialID, err)
	}

	return tokens, nil
}

// issue creates an access/refresh pair and registers both in the session store.
func (u *authUsecase) issue(ctx context.Context, p entity.Principal) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(p.CredentialID, p.Identifier, p.Privilege)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(p.CredentialID, p.Identifier, p.Privilege)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.sessions.Store(ctx, p.CredentialID, jwt.AccessToken, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		return nil, storageError(err)
	}
	if err := u.sessions.Store(ctx, p.CredentialID, jwt.RefreshToken, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		return nil, storageError(err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// Logout revokes the caller's access token and, when supplied, the refresh
// token issued alongside it.
func (u *authUsecase) Logout(ctx context.Context, principal entity.Principal, refreshToken string) error {
	if err := u.sessions.Delete(ctx, principal.CredentialID, jwt.AccessToken, principal.TokenID); err != nil {
		return storageError(err)
	}

	if refreshToken != "" {
		claims, err := u.jwtService.ValidateToken(refreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.CredentialID == principal.CredentialID {
			if err := u.sessions.Delete(ctx, claims.CredentialID, jwt.RefreshToken, claims.TokenID); err != nil {
				return storageError(err)
			}
		}
	}

	ctx = entity.WithPrincipal(ctx, principal)
	if err := u.auditService.LogCreate(ctx, u.db.WithContext(ctx), entity.AuditActionLogout, "credential", principal.CredentialID, nil); err != nil {
		u.log.Warnf("Failed to audit logout for credential %d: %+v", principal.CredentialID, err)
	}

	return nil
}

// RefreshToken rotates the refresh token: the presented one is revoked and a
// new pair is issued with the credential's current privilege.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	if errs := validate(u.validator, req); len(errs) > 0 {
		return nil, errs
	}

	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.sessions.Exists(ctx, claims.CredentialID, jwt.RefreshToken, claims.TokenID)
	if err != nil {
		return nil, storageError(err)
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	if err := u.sessions.Delete(ctx, claims.CredentialID, jwt.RefreshToken, claims.TokenID); err != nil {
		return nil, storageError(err)
	}

	credential, err := u.credentialRepo.FindByID(u.db.WithContext(ctx), claims.CredentialID)
	if err != nil {
		u.log.Warnf("Failed to find credential by id: %+v", err)
		return nil, storageError(err)
	}
	if credential == nil || !credential.Active {
		return nil, ErrTokenRevoked
	}

	return u.issue(ctx, entity.Principal{
		CredentialID: credential.ID,
		Identifier:   credential.Identifier,
		Privilege:    credential.Privilege,
	})
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, credentialID int64) (*dto.CredentialResponse, error) {
	credential, err := u.credentialRepo.FindByID(u.db.WithContext(ctx), credentialID)
	if err != nil {
		u.log.Warnf("Failed to find credential by id: %+v", err)
		return nil, storageError(err)
	}
	if credential == nil || !credential.Active {
		return nil, ErrCredentialNotFound
	}

	return converter.CredentialToResponse(credential), nil
}

// ChangePassword replaces the caller's password and signs out every session,
// the current one included.
func (u *authUsecase) ChangePassword(ctx context.Context, principal entity.Principal, req *dto.ChangePasswordRequest) error {
	if errs := validate(u.validator, req); len(errs) > 0 {
		return errs
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	credential, err := u.credentialRepo.FindByID(tx, principal.CredentialID)
	if err != nil {
		u.log.Warnf("Failed to find credential by id: %+v", err)
		return storageError(err)
	}
	if credential == nil || !credential.Active {
		return ErrCredentialNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ValidationError{"current_password": "current_password is incorrect"}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}

	if err := u.credentialRepo.UpdatePasswordHash(tx, credential.ID, string(hashedPassword)); err != nil {
		u.log.Warnf("Failed to update password: %+v", err)
		return storageError(err)
	}

	if err := u.auditService.LogUpdate(entity.WithPrincipal(ctx, principal), tx, entity.AuditActionPasswordChange, "credential", credential.ID, nil, nil); err != nil {
		return storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return storageError(err)
	}

	if err := u.sessions.RevokeAll(ctx, credential.ID); err != nil {
		return storageError(err)
	}

	u.log.Infof("Password changed for credential %d", credential.ID)
	return nil
}
