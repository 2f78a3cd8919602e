package domain

import (
	"strings"
	"time"
)

// Employee models a staff member that tickets and time logs reference.
// Tickets hold a weak reference; deleting an employee never cascades.
type Employee struct {
	ID              string
	OwnerID         string
	Name            string
	Email           string
	Position        string
	Department      *string
	Phone           *string
	Specializations []string
	AvatarURL       *string
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasSpecialization matches a skill tag case-insensitively.
func (e *Employee) HasSpecialization(name string) bool {
	for _, spec := range e.Specializations {
		if strings.EqualFold(spec, name) {
			return true
		}
	}
	return false
}
