package entity

import (
	"strings"
	"time"
)

// Practitioner is a doctor registered at the clinic. Each one owns exactly one
// Credential, provisioned when the practitioner is created.
type Practitioner struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CredentialID  *int64    `gorm:"index" json:"credential_id,omitempty"`
	FirstName     string    `gorm:"type:varchar(100);not null" json:"first_name"`
	MiddleName    *string   `gorm:"type:varchar(100)" json:"middle_name,omitempty"`
	PaternalName  string    `gorm:"type:varchar(100);not null" json:"paternal_name"`
	MaternalName  *string   `gorm:"type:varchar(100)" json:"maternal_name,omitempty"`
	Specialty     string    `gorm:"type:varchar(150);not null" json:"specialty"`
	LicenseNumber string    `gorm:"type:varchar(8);not null;uniqueIndex:idx_practitioners_license,where:active = true" json:"license_number"`
	Email         *string   `gorm:"type:varchar(255)" json:"email,omitempty"`
	RFC           string    `gorm:"type:varchar(13);not null;index" json:"rfc"`
	Phone         string    `gorm:"type:varchar(20);not null" json:"phone"`
	Site          *string   `gorm:"type:varchar(150)" json:"site,omitempty"`
	Active        bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Credential *Credential `gorm:"foreignKey:CredentialID" json:"credential,omitempty"`
}

func (Practitioner) TableName() string {
	return "practitioners"
}

// FullName joins first, middle, paternal and maternal names, skipping empty parts.
func (p *Practitioner) FullName() string {
	parts := []string{p.FirstName, deref(p.MiddleName), p.PaternalName, deref(p.MaternalName)}
	var b strings.Builder
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(part)
	}
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
