package authz

import "github.com/localmart/localmart/app/models"

// Ownership checks used by engines and controllers alike. These replace the
// ad hoc user.ID == business.UserID comparisons that would otherwise be
// duplicated across call sites.

// CanManageBusiness reports whether the user may mutate the business.
func CanManageBusiness(user *models.User, business *models.Business) bool {
	if user == nil || business == nil {
		return false
	}
	return user.IsAdmin() || business.UserID == user.ID
}

// CanManageProduct reports whether the user may mutate a product through its
// owning business.
func CanManageProduct(user *models.User, business *models.Business, product *models.Product) bool {
	if product == nil || business == nil || product.BusinessID != business.ID {
		return false
	}
	return CanManageBusiness(user, business)
}
