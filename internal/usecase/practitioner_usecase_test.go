package usecase

import (
	"context"
	"testing"
	"time"

	"medical-center/internal/domain/entity"
	"medical-center/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPractitionerUsecase_CreateProvisionsCredential(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := practitionerRequest("1234567", "pegj800101ab1")
	p, err := f.practitioners.Create(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "PEGJ800101AB1", p.RFC, "RFC is stored upper case")
	assert.Equal(t, "Jose Perez Garcia", p.FullName)
	require.NotNil(t, p.CredentialID)

	principal, err := f.auth.Authenticate(ctx, "PEGJ800101AB1", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, *p.CredentialID, principal.CredentialID)
	assert.Equal(t, entity.PrivilegeStaff, principal.Privilege)
}

func TestPractitionerUsecase_CreateValidation(t *testing.T) {
	f := newFixture(t)

	req := practitionerRequest("12345", "SHORT")
	req.Phone = "12"
	req.PasswordConfirmation = "different"

	_, err := f.practitioners.Create(context.Background(), req)
	fields := validationFields(t, err)
	assert.Contains(t, fields, "license_number")
	assert.Contains(t, fields, "rfc")
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "password_confirmation")
}

func TestPractitionerUsecase_CreateConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createPractitioner(t, "1234567", "PEGJ800101AB1")

	_, err := f.practitioners.Create(ctx, practitionerRequest("1234567", "LOAA900101AB2"))
	assert.ErrorIs(t, err, ErrLicenseTaken)

	_, err = f.practitioners.Create(ctx, practitionerRequest("7654321", "PEGJ800101AB1"))
	assert.ErrorIs(t, err, ErrIdentifierTaken)

	// The failed license attempt must not leave its credential behind.
	_, err = f.auth.Authenticate(ctx, "LOAA900101AB2", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPractitionerUsecase_UpdateCarriesRFCToCredential(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createPractitioner(t, "1234567", "PEGJ800101AB1")

	req := practitionerRequest("1234567", "PEGJ800101ZZ9").PractitionerRequest
	req.Specialty = "Cardiología"

	updated, err := f.practitioners.Update(ctx, p.ID, &req)
	require.NoError(t, err)
	assert.Equal(t, "Cardiología", updated.Specialty)

	_, err = f.auth.Authenticate(ctx, "PEGJ800101ZZ9", "s3cret-pass")
	assert.NoError(t, err)
	_, err = f.auth.Authenticate(ctx, "PEGJ800101AB1", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPractitionerUsecase_DeleteRefusedWithScheduledAppointments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")
	f.schedule(t, patient.ID, d.ID, "2026-03-11", "10:00")

	err := f.practitioners.Delete(ctx, d.ID)
	assert.ErrorIs(t, err, ErrPractitionerHasAppointments)
	assert.ErrorIs(t, err, ErrConflict)

	got, err := f.practitioners.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)
}

func TestPractitionerUsecase_DeleteDisablesLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")
	require.NoError(t, f.sessions.Store(ctx, *d.CredentialID, jwt.AccessToken, "live", time.Minute))

	require.NoError(t, f.practitioners.Delete(ctx, d.ID))

	_, err := f.auth.Authenticate(ctx, "PEGJ800101AB1", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	ok, err := f.sessions.Exists(ctx, *d.CredentialID, jwt.AccessToken, "live")
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := f.practitioners.GetAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, list.Total)

	got, err := f.practitioners.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	// License and RFC are free again once the holder is inactive.
	_, err = f.practitioners.Create(ctx, practitionerRequest("1234567", "PEGJ800101AB1"))
	assert.NoError(t, err)
}

func TestPractitionerUsecase_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createPractitioner(t, "1234567", "PEGJ800101AB1")

	other := practitionerRequest("7654321", "LOAA900101AB2")
	other.FirstName, other.PaternalName, other.MaternalName = "Laura", "Ortiz", nil
	other.Specialty = "Pediatría"
	_, err := f.practitioners.Create(ctx, other)
	require.NoError(t, err)

	for term, want := range map[string]string{"garcia": "Jose", "PEDIA": "Laura", "ortiz": "Laura"} {
		found, err := f.practitioners.Search(ctx, term)
		require.NoError(t, err)
		require.Equal(t, 1, found.Total, term)
		assert.Equal(t, want, found.Practitioners[0].FirstName, term)
	}
}
