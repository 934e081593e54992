package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// AuditLog records who changed what. ActorID is the credential behind the
// session; it is nil for CLI and system actions.
type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID   *int64    `gorm:"index" json:"actor_id,omitempty"`
	Action    string    `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  JSON      `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter narrows audit log listings. An Action without a dot matches
// every action of that entity ("patient" matches "patient.create").
type AuditLogFilter struct {
	Action  string
	ActorID int64
	Limit   int
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

const (
	AuditActionLogin               = "credential.login"
	AuditActionLogout              = "credential.logout"
	AuditActionPasswordChange      = "credential.password_change"
	AuditActionCredentialCreate    = "credential.create"
	AuditActionCredentialUpdate    = "credential.update"
	AuditActionCredentialDelete    = "credential.delete"
	AuditActionPatientCreate       = "patient.create"
	AuditActionPatientUpdate       = "patient.update"
	AuditActionPatientDelete       = "patient.delete"
	AuditActionPractitionerCreate  = "practitioner.create"
	AuditActionPractitionerUpdate  = "practitioner.update"
	AuditActionPractitionerDelete  = "practitioner.delete"
	AuditActionAppointmentCreate   = "appointment.create"
	AuditActionAppointmentUpdate   = "appointment.update"
	AuditActionAppointmentCancel   = "appointment.cancel"
	AuditActionAppointmentComplete = "appointment.complete"
	AuditActionAppointmentDelete   = "appointment.delete"
	AuditActionExaminationCreate   = "examination.create"
	AuditActionExaminationUpdate   = "examination.update"
	AuditActionExaminationDelete   = "examination.delete"
	AuditActionRecordCreate        = "clinical_record.create"
	AuditActionRecordUpdate        = "clinical_record.update"
	AuditActionRecordDelete        = "clinical_record.delete"
)
