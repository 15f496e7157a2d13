package authz

import (
	"testing"

	"github.com/localmart/localmart/app/models"
)

func TestCanManageBusiness(t *testing.T) {
	owner := &models.User{ID: 1, Role: models.ROLE_USER}
	other := &models.User{ID: 2, Role: models.ROLE_USER}
	admin := &models.User{ID: 3, Role: models.ROLE_ADMIN}
	business := &models.Business{ID: 10, UserID: 1}

	tests := []struct {
		name     string
		user     *models.User
		business *models.Business
		want     bool
	}{
		{name: "owner", user: owner, business: business, want: true},
		{name: "admin", user: admin, business: business, want: true},
		{name: "other user", user: other, business: business, want: false},
		{name: "nil user", user: nil, business: business, want: false},
		{name: "nil business", user: owner, business: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanManageBusiness(tt.user, tt.business); got != tt.want {
				t.Fatalf("CanManageBusiness() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanManageProduct(t *testing.T) {
	owner := &models.User{ID: 1, Role: models.ROLE_USER}
	admin := &models.User{ID: 3, Role: models.ROLE_ADMIN}
	business := &models.Business{ID: 10, UserID: 1}
	product := &models.Product{ID: 100, BusinessID: 10}
	foreign := &models.Product{ID: 200, BusinessID: 99}

	if !CanManageProduct(owner, business, product) {
		t.Fatalf("expected owner to manage their product")
	}
	if !CanManageProduct(admin, business, product) {
		t.Fatalf("expected admin to manage any product")
	}
	if CanManageProduct(owner, business, foreign) {
		t.Fatalf("expected mismatched business/product to be rejected")
	}
	if CanManageProduct(owner, business, nil) {
		t.Fatalf("expected nil product to be rejected")
	}
}
