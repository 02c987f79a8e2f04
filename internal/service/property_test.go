package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"arrienda-backend/internal/domain"
)

func validProperty() *domain.Property {
	return &domain.Property{
		Title:        "Apartamento en Chapinero",
		Address:      "Cra 7 # 45-10",
		City:         "Bogota",
		PropertyType: domain.PropertyTypeApartment,
		Price:        "1500000.00",
	}
}

func TestPropertyService_Create(t *testing.T) {
	ctx := context.Background()
	landlord := domain.Principal{UserID: "landlord-1", Roles: []domain.Role{domain.RoleLandlord}}

	t.Run("SetsOwnerAndDefaults", func(t *testing.T) {
		repo := new(MockPropertyRepo)
		svc := NewPropertyService(repo)
		repo.On("Create", ctx, mock.MatchedBy(func(p *domain.Property) bool {
			return p.OwnerID == "landlord-1" && p.Currency == "COP" && p.IsAvailable
		})).Return(nil)

		err := svc.Create(ctx, landlord, validProperty())
		assert.NoError(t, err)
	})

	t.Run("TenantCannotPublish", func(t *testing.T) {
		repo := new(MockPropertyRepo)
		svc := NewPropertyService(repo)

		err := svc.Create(ctx, tenantPrincipal, validProperty())
		assert.ErrorIs(t, err, domain.ErrForbidden)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("RejectsNonPositivePrice", func(t *testing.T) {
		repo := new(MockPropertyRepo)
		svc := NewPropertyService(repo)
		p := validProperty()
		p.Price = "0.00"

		err := svc.Create(ctx, landlord, p)

		var validation *domain.ValidationError
		assert.ErrorAs(t, err, &validation)
		assert.Contains(t, validation.Fields, "price")
	})

	t.Run("RejectsUnknownType", func(t *testing.T) {
		repo := new(MockPropertyRepo)
		svc := NewPropertyService(repo)
		p := validProperty()
		p.PropertyType = "castle"

		err := svc.Create(ctx, landlord, p)

		var validation *domain.ValidationError
		assert.ErrorAs(t, err, &validation)
		assert.Contains(t, validation.Fields, "property_type")
	})
}

func TestPropertyService_Update(t *testing.T) {
	ctx := context.Background()
	owner := domain.Principal{UserID: "landlord-1", Roles: []domain.Role{domain.RoleLandlord}}
	existing := &domain.Property{ID: "prop-1", OwnerID: "landlord-1"}

	t.Run("OwnerKeepsOwnership", func(t *testing.T) {
		repo := new(MockPropertyRepo)
		svc := NewPropertyService(repo)
		repo.On("GetByID", ctx, "prop-1").Return(existing, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(p *domain.Property) bool {
			return p.OwnerID == "landlord-1"
		})).Return(nil)

		p := validProperty()
		p.ID = "prop-1"
		p.OwnerID = "someone-else"
		err := svc.Update(ctx, owner, p)
		assert.NoError(t, err)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		repo := new(MockPropertyRepo)
		svc := NewPropertyService(repo)
		repo.On("GetByID", ctx, "prop-1").Return(existing, nil)

		p := validProperty()
		p.ID = "prop-1"
		err := svc.Update(ctx, domain.Principal{UserID: "intruder"}, p)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestPropertyService_ListAvailable(t *testing.T) {
	ctx := context.Background()

	t.Run("ClampsPagination", func(t *testing.T) {
		repo := new(MockPropertyRepo)
		svc := NewPropertyService(repo)
		repo.On("ListAvailable", ctx, "Bogota", int32(1), int32(20)).
			Return([]domain.Property{}, int32(0), nil)

		_, _, err := svc.ListAvailable(ctx, "Bogota", 0, 500)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
