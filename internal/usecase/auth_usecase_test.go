package usecase

import (
	"context"
	"testing"

	"medical-center/internal/delivery/dto"
	"medical-center/internal/domain/entity"
	"medical-center/internal/infrastructure/metrics"
	"medical-center/pkg/jwt"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminRFC = "ADMN800101AB1"

func (f *fixture) createAdmin(t *testing.T) *dto.CredentialResponse {
	t.Helper()
	c, err := f.users.Create(context.Background(), &dto.CreateUserRequest{
		Identifier:           adminRFC,
		Password:             "admin-pass-1",
		PasswordConfirmation: "admin-pass-1",
		Privilege:            entity.PrivilegeAdmin,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) login(t *testing.T, identifier, password string) *dto.TokenResponse {
	t.Helper()
	tokens, err := f.auth.Login(context.Background(), &dto.LoginRequest{Identifier: identifier, Password: password})
	require.NoError(t, err)
	return tokens
}

// principalFor resolves an access token the way the auth middleware does.
func (f *fixture) principalFor(t *testing.T, accessToken string) entity.Principal {
	t.Helper()
	claims, err := f.jwt.ValidateToken(accessToken)
	require.NoError(t, err)
	return entity.Principal{
		CredentialID: claims.CredentialID,
		Identifier:   claims.Identifier,
		Privilege:    claims.Privilege,
		TokenID:      claims.TokenID,
	}
}

func (f *fixture) sessionLive(t *testing.T, token string) bool {
	t.Helper()
	claims, err := f.jwt.ValidateToken(token)
	require.NoError(t, err)
	ok, err := f.sessions.Exists(context.Background(), claims.CredentialID, claims.TokenType, claims.TokenID)
	require.NoError(t, err)
	return ok
}

func TestAuthUsecase_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.createAdmin(t)

	tokens := f.login(t, " admn800101ab1 ", "admin-pass-1")
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.Equal(t, int64(900), tokens.ExpiresIn)
	assert.True(t, f.sessionLive(t, tokens.AccessToken))
	assert.True(t, f.sessionLive(t, tokens.RefreshToken))

	p := f.principalFor(t, tokens.AccessToken)
	assert.Equal(t, admin.ID, p.CredentialID)
	assert.True(t, p.IsElevated())

	_, err := f.auth.Login(ctx, &dto.LoginRequest{Identifier: adminRFC, Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.auth.Login(ctx, &dto.LoginRequest{Identifier: "short", Password: ""})
	fields := validationFields(t, err)
	assert.Contains(t, fields, "identifier")
	assert.Contains(t, fields, "password")

	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.LoginAttempts.WithLabelValues(metrics.ResultSuccess)))
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.LoginAttempts.WithLabelValues(metrics.ResultFailure)))

	logs, err := f.auditLogs.List(ctx, &dto.AuditLogQuery{})
	require.NoError(t, err)
	var logins int
	for _, l := range logs.Logs {
		if l.Action == entity.AuditActionLogin {
			logins++
			require.NotNil(t, l.ActorID)
			assert.Equal(t, admin.ID, *l.ActorID)
		}
	}
	assert.Equal(t, 1, logins)
}

func TestAuthUsecase_RefreshRotates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createAdmin(t)
	tokens := f.login(t, adminRFC, "admin-pass-1")

	rotated, err := f.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)
	assert.True(t, f.sessionLive(t, rotated.AccessToken))

	_, err = f.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// Access tokens are not accepted for refresh.
	_, err = f.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: rotated.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = f.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthUsecase_RefreshPicksUpNewPrivilege(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")
	tokens := f.login(t, "PEGJ800101AB1", "s3cret-pass")
	assert.False(t, f.principalFor(t, tokens.AccessToken).IsElevated())

	// Privilege changes revoke open sessions, so the old refresh token is gone.
	_, err := f.users.UpdatePrivilege(ctx, *d.CredentialID, &dto.UpdatePrivilegeRequest{Privilege: entity.PrivilegeAdmin})
	require.NoError(t, err)
	assert.False(t, f.sessionLive(t, tokens.AccessToken))

	_, err = f.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	tokens = f.login(t, "PEGJ800101AB1", "s3cret-pass")
	assert.True(t, f.principalFor(t, tokens.AccessToken).IsElevated())
}

func TestAuthUsecase_Logout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createAdmin(t)
	tokens := f.login(t, adminRFC, "admin-pass-1")
	other := f.login(t, adminRFC, "admin-pass-1")

	p := f.principalFor(t, tokens.AccessToken)
	require.NoError(t, f.auth.Logout(ctx, p, tokens.RefreshToken))

	assert.False(t, f.sessionLive(t, tokens.AccessToken))
	assert.False(t, f.sessionLive(t, tokens.RefreshToken))
	assert.True(t, f.sessionLive(t, other.AccessToken), "other sessions survive")
}

func TestAuthUsecase_ChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createAdmin(t)
	tokens := f.login(t, adminRFC, "admin-pass-1")
	p := f.principalFor(t, tokens.AccessToken)

	err := f.auth.ChangePassword(ctx, p, &dto.ChangePasswordRequest{
		CurrentPassword:         "not-it",
		NewPassword:             "brand-new-pass",
		NewPasswordConfirmation: "brand-new-pass",
	})
	assert.Contains(t, validationFields(t, err), "current_password")

	err = f.auth.ChangePassword(ctx, p, &dto.ChangePasswordRequest{
		CurrentPassword:         "admin-pass-1",
		NewPassword:             "brand-new-pass",
		NewPasswordConfirmation: "mismatch-pass",
	})
	assert.Contains(t, validationFields(t, err), "new_password_confirmation")

	require.NoError(t, f.auth.ChangePassword(ctx, p, &dto.ChangePasswordRequest{
		CurrentPassword:         "admin-pass-1",
		NewPassword:             "brand-new-pass",
		NewPasswordConfirmation: "brand-new-pass",
	}))

	assert.False(t, f.sessionLive(t, tokens.AccessToken))
	assert.False(t, f.sessionLive(t, tokens.RefreshToken))

	_, err = f.auth.Authenticate(ctx, adminRFC, "admin-pass-1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	f.login(t, adminRFC, "brand-new-pass")
}

func TestAuthUsecase_GetCurrentUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.createAdmin(t)

	me, err := f.auth.GetCurrentUser(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, adminRFC, me.Identifier)
	assert.True(t, me.Elevated)

	_, err = f.auth.GetCurrentUser(ctx, 999)
	assert.ErrorIs(t, err, ErrCredentialNotFound)
}

func TestSessionTokenTypes(t *testing.T) {
	f := newFixture(t)
	f.createAdmin(t)
	tokens := f.login(t, adminRFC, "admin-pass-1")

	access, err := f.jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, jwt.AccessToken, access.TokenType)

	refresh, err := f.jwt.ValidateToken(tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, jwt.RefreshToken, refresh.TokenType)
	assert.NotEqual(t, access.TokenID, refresh.TokenID)
}
