package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"medical-center/internal/domain/entity"
	"medical-center/pkg/validator"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Error classes. Every error a usecase returns wraps exactly one of these, or
// is a ValidationError.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrStorage  = errors.New("storage unavailable")
	ErrRender   = errors.New("report could not be generated")

	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrPatientNotFound        = fmt.Errorf("patient %w", ErrNotFound)
	ErrPractitionerNotFound   = fmt.Errorf("practitioner %w", ErrNotFound)
	ErrAppointmentNotFound    = fmt.Errorf("appointment %w", ErrNotFound)
	ErrExaminationNotFound    = fmt.Errorf("examination %w", ErrNotFound)
	ErrClinicalRecordNotFound = fmt.Errorf("clinical record %w", ErrNotFound)
	ErrCredentialNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrAuditLogNotFound       = fmt.Errorf("audit log %w", ErrNotFound)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid identifier or password", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	ErrTokenRevoked       = fmt.Errorf("%w: token has been revoked", ErrUnauthorized)

	ErrSlotTaken                   = fmt.Errorf("%w: the practitioner already has an appointment at that date and time", ErrConflict)
	ErrLicenseTaken                = fmt.Errorf("%w: license number is already registered", ErrConflict)
	ErrIdentifierTaken             = fmt.Errorf("%w: RFC is already registered to another user", ErrConflict)
	ErrRecordExists                = fmt.Errorf("%w: a clinical record already exists for this examination", ErrConflict)
	ErrExaminationExists           = fmt.Errorf("%w: the appointment already has an examination", ErrConflict)
	ErrAppointmentClosed           = fmt.Errorf("%w: the appointment was cancelled", ErrConflict)
	ErrAppointmentFinalized        = fmt.Errorf("%w: a completed or cancelled appointment cannot change status", ErrConflict)
	ErrPatientHasAppointments      = fmt.Errorf("%w: the patient has scheduled appointments", ErrConflict)
	ErrPractitionerHasAppointments = fmt.Errorf("%w: the practitioner has scheduled appointments", ErrConflict)
	ErrSelfDelete                  = fmt.Errorf("%w: you cannot delete your own account", ErrConflict)
	ErrRecordNumberExhausted       = fmt.Errorf("%w: could not allocate a record number", ErrConflict)
)

// ValidationError maps request fields to messages. It is returned before any
// write takes place.
type ValidationError map[string]string

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// RenderError reports a report that could not be produced. The examination it
// belongs to is kept so callers can offer a retry.
type RenderError struct {
	ExaminationID int64
	Err           error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render examination %d: %v", e.ExaminationID, e.Err)
}

func (e *RenderError) Unwrap() []error {
	return []error{ErrRender, e.Err}
}

func storageError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}

// validate runs the struct tags and returns their field errors, or an empty
// map when the request is well formed.
func validate(v *validator.CustomValidator, req interface{}) ValidationError {
	errs := ValidationError{}
	if err := v.Validate(req); err != nil {
		for field, msg := range v.FormatValidationErrors(err) {
			errs[field] = msg
		}
	}
	return errs
}

func (e ValidationError) addIfMissing(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

func (e ValidationError) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// isDuplicateKeyError reports a unique violation. hint narrows the match to a
// constraint or column name; an empty hint matches any unique violation.
func isDuplicateKeyError(err error, hint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return hint == "" || strings.Contains(pgErr.ConstraintName, hint)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, hint)
}

func isForeignKeyError(err error, hint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return hint == "" || strings.Contains(pgErr.ConstraintName, hint)
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// parseDate reads a YYYY-MM-DD calendar date as UTC midnight.
func parseDate(s string) (time.Time, error) {
	return time.Parse(entity.DateLayout, s)
}
