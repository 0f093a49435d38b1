package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supplier is a vendor goods are purchased from.
type Supplier struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name          string    `gorm:"column:name;size:200;not null"`
	ContactPerson string    `gorm:"column:contact_person;size:100;not null"`
	Phone         string    `gorm:"column:phone;size:20;not null"`
	Email         string    `gorm:"column:email;size:254;not null"`
	Address       string    `gorm:"column:address;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the primary key.
func (s *Supplier) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}
