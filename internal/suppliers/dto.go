package suppliers

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/supplychain-backend/pkg/db/models"
)

// SupplierDTO is the supplier payload returned to clients.
type SupplierDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FromModel maps the persisted supplier to its DTO.
func FromModel(s *models.Supplier) SupplierDTO {
	return SupplierDTO{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
