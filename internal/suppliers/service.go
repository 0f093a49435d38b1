package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/supplychain-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/supplychain-backend/pkg/errors"
	"github.com/angelmondragon/supplychain-backend/pkg/pagination"
)

// Service exposes supplier management operations.
type Service interface {
	Create(ctx context.Context, input Input) (*SupplierDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*SupplierDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*SupplierDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, input ListInput) ([]SupplierDTO, error)
}

// Input holds a complete supplier payload.
type Input struct {
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
}

// UpdateInput holds optional supplier fields; nil fields are left untouched.
type UpdateInput struct {
	Name          *string
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
}

// ListInput filters the supplier list. Query searches name, contact person and phone.
type ListInput struct {
	Query string
	Page  pagination.Params
}

type service struct {
	repo *Repository
}

// NewService constructs the supplier service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input Input) (*SupplierDTO, error) {
	supplier := input.toModel()
	if err := validate(supplier); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: insert supplier")
	}
	dto := FromModel(supplier)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SupplierDTO, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	dto := FromModel(supplier)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*SupplierDTO, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	applyUpdate(input, &supplier.Name, &supplier.ContactPerson, &supplier.Phone, &supplier.Email, &supplier.Address)
	if err := validate(supplier); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: update supplier")
	}
	dto := FromModel(supplier)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: delete supplier")
	}
	if !deleted {
		return pkgerrors.NotFound("supplier")
	}
	return nil
}

func (s *service) List(ctx context.Context, input ListInput) ([]SupplierDTO, error) {
	rows, err := s.repo.List(ctx, input.Query, input.Page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list suppliers")
	}
	out := make([]SupplierDTO, len(rows))
	for i := range rows {
		out[i] = FromModel(&rows[i])
	}
	return out, nil
}

func (i Input) toModel() *models.Supplier {
	return &models.Supplier{
		Name:          strings.TrimSpace(i.Name),
		ContactPerson: strings.TrimSpace(i.ContactPerson),
		Phone:         strings.TrimSpace(i.Phone),
		Email:         strings.TrimSpace(i.Email),
		Address:       strings.TrimSpace(i.Address),
	}
}

// validate rejects required fields left blank after trimming.
func validate(supplier *models.Supplier) error {
	required := []struct{ field, value string }{
		{"name", supplier.Name},
		{"contact_person", supplier.ContactPerson},
		{"phone", supplier.Phone},
		{"email", supplier.Email},
		{"address", supplier.Address},
	}
	for _, r := range required {
		if r.value == "" {
			return pkgerrors.FieldError(r.field, "this field may not be blank")
		}
	}
	return nil
}

func applyUpdate(input UpdateInput, name, contact, phone, email, address *string) {
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	assign(name, input.Name)
	assign(contact, input.ContactPerson)
	assign(phone, input.Phone)
	assign(email, input.Email)
	assign(address, input.Address)
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.NotFound("supplier")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load supplier")
}
