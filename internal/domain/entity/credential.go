package entity

import "time"

// Privilege levels. Zero means no session at all and is never stored.
const (
	PrivilegeNone  = 0
	PrivilegeStaff = 1
	PrivilegeAdmin = 2
)

// Credential is a login identity. The identifier is an RFC and doubles as the
// practitioner's tax id when the credential was provisioned for one.
type Credential struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Identifier   string    `gorm:"type:varchar(13);not null;uniqueIndex:idx_credentials_identifier,where:active = true" json:"identifier"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	Privilege    int       `gorm:"not null;default:1" json:"privilege"`
	Active       bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Credential) TableName() string {
	return "credentials"
}

func (c *Credential) IsElevated() bool {
	return c.Privilege >= PrivilegeAdmin
}
