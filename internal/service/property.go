package service

import (
	"context"
	"strings"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/repository"
	"arrienda-backend/internal/utils"
)

type propertyService struct {
	propertyRepo repository.PropertyRepository
}

func NewPropertyService(propertyRepo repository.PropertyRepository) PropertyService {
	return &propertyService{propertyRepo: propertyRepo}
}

func (s *propertyService) Create(ctx context.Context, principal domain.Principal, p *domain.Property) error {
	if !principal.HasRole(domain.RoleLandlord) {
		return domain.ErrForbidden
	}
	if err := validateProperty(p); err != nil {
		return err
	}

	p.OwnerID = principal.UserID
	if p.Currency == "" {
		p.Currency = "COP"
	}
	p.IsAvailable = true
	return s.propertyRepo.Create(ctx, p)
}

func (s *propertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	return s.propertyRepo.GetByID(ctx, id)
}

func (s *propertyService) Update(ctx context.Context, principal domain.Principal, p *domain.Property) error {
	existing, err := s.propertyRepo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if existing.OwnerID != principal.UserID && !principal.HasRole(domain.RoleAdmin) {
		return domain.ErrForbidden
	}
	if err := validateProperty(p); err != nil {
		return err
	}

	p.OwnerID = existing.OwnerID
	return s.propertyRepo.Update(ctx, p)
}

func (s *propertyService) ListAvailable(ctx context.Context, city string, page, pageSize int32) ([]domain.Property, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.propertyRepo.ListAvailable(ctx, city, page, pageSize)
}

func (s *propertyService) ListMine(ctx context.Context, principal domain.Principal) ([]domain.Property, error) {
	return s.propertyRepo.ListByOwner(ctx, principal.UserID)
}

func validateProperty(p *domain.Property) error {
	v := domain.NewValidationError()
	if strings.TrimSpace(p.Title) == "" {
		v.Add("title", "title is required")
	}
	if strings.TrimSpace(p.Address) == "" {
		v.Add("address", "address is required")
	}
	if strings.TrimSpace(p.City) == "" {
		v.Add("city", "city is required")
	}
	switch p.PropertyType {
	case domain.PropertyTypeApartment, domain.PropertyTypeHouse, domain.PropertyTypeRoom,
		domain.PropertyTypeStudio, domain.PropertyTypeCommercial:
	default:
		v.Add("property_type", "unknown property type")
	}
	if cents, err := utils.ParseAmountCents(p.Price); err != nil || cents <= 0 {
		v.Add("price", "price must be a positive decimal amount")
	}
	if v.HasErrors() {
		return v
	}
	return nil
}
