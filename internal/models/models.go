package models

import (
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminUserRole enumerates allowed roles. ADMIN manages users and can
// reseed; OPERATOR can reseed; AUDITOR reads the audit trail.
type AdminUserRole string

const (
	RoleAdmin    AdminUserRole = "ADMIN"
	RoleOperator AdminUserRole = "OPERATOR"
	RoleAuditor  AdminUserRole = "AUDITOR"
)

// UserStatus enumerates user account states.
type UserStatus string

const (
	StatusActive   UserStatus = "Active"
	StatusInactive UserStatus = "Inactive"
)

// AdminUser is a service operator account guarding the privileged
// endpoints (reseed, user management, audit reads).
type AdminUser struct {
	ID           uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Username     string        `gorm:"uniqueIndex;not null"`
	Email        string        `gorm:"uniqueIndex;not null"`
	PasswordHash string        `gorm:"not null"`
	Role         AdminUserRole `gorm:"not null"`
	Status       UserStatus    `gorm:"not null;default:'Active'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DrawEvent is one audit row per served randomness request: which
// operation ran, how much output it produced, who asked, and what the
// engine's entropy estimate read at serve time. The generator state
// itself is never persisted.
type DrawEvent struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Kind     string    `gorm:"not null;index" json:"kind"` // bytes|uint64|double|range32|range64|entangle|measure|reseed
	Length   int       `gorm:"not null" json:"length"`     // output bytes served (0 for reseed)
	ClientIP string    `gorm:"not null" json:"client_ip"`

	// EntropyEstimate snapshots the engine's quality score right after
	// the operation, giving auditors a degradation timeline.
	EntropyEstimate float64 `gorm:"not null" json:"entropy_estimate"`

	CreatedAt time.Time `json:"created_at"`
}

// Migrate creates/updates the tables.
func Migrate(db *gorm.DB) {
	db.AutoMigrate(
		&AdminUser{},
		&DrawEvent{},
	)
}

// BootstrapAdmin creates the first ADMIN account from environment
// configuration when the user table is empty. Without it a fresh
// deployment would have no way to reach the guarded endpoints.
func BootstrapAdmin(db *gorm.DB, username, password string) {
	if username == "" || password == "" {
		return
	}
	var count int64
	db.Model(&AdminUser{}).Count(&count)
	if count > 0 {
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("bootstrap admin: hash failed: %v", err)
		return
	}
	user := AdminUser{
		Username:     username,
		Email:        username + "@localhost",
		PasswordHash: string(hashed),
		Role:         RoleAdmin,
		Status:       StatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Printf("bootstrap admin: create failed: %v", err)
	}
}
