package models

import (
	"time"

	"github.com/google/uuid"
)

// RoleFarmer is the only role this system issues.
const RoleFarmer = "Farmer"

type User struct {
	ID             uuid.UUID  `json:"id"`
	Phone          string     `json:"phone"`
	FullName       string     `json:"fullName"`
	HashedPassword string     `json:"-"`
	DOB            string     `json:"dob,omitempty"`
	Role           string     `json:"role"`
	Score          int        `json:"score"`
	LastPostAt     *time.Time `json:"lastPostAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}
