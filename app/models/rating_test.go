package models

import (
	"reflect"
	"strings"
	"testing"
)

func TestRatingScope(t *testing.T) {
	if got := RatingScope(nil); got != 0 {
		t.Fatalf("RatingScope(nil) = %d, want 0", got)
	}
	id := uint(42)
	if got := RatingScope(&id); got != 42 {
		t.Fatalf("RatingScope(&42) = %d, want 42", got)
	}
}

// Two business-level ratings by the same user must resolve to the same scope
// triple so the unique key collides and the upsert updates instead of
// inserting a duplicate.
func TestRatingBusinessLevelScopeCollides(t *testing.T) {
	first := Rating{UserID: 1, BusinessID: 10, ProductID: RatingScope(nil)}
	second := Rating{UserID: 1, BusinessID: 10, ProductID: RatingScope(nil)}

	if first.ProductID != second.ProductID {
		t.Fatalf("business-level scopes differ: %d vs %d", first.ProductID, second.ProductID)
	}
	if first.IsProductRating() {
		t.Fatalf("product_id 0 must mean a business-level rating")
	}
	if !(&Rating{ProductID: 42}).IsProductRating() {
		t.Fatalf("non-zero product_id must mean a product rating")
	}
}

// The scope column must stay a non-nullable uint: a nullable product_id makes
// the unique key inert for business-level ratings (NULLs never collide).
func TestRatingScopeColumnNotNullable(t *testing.T) {
	field, ok := reflect.TypeOf(Rating{}).FieldByName("ProductID")
	if !ok {
		t.Fatalf("Rating has no ProductID field")
	}
	if field.Type.Kind() == reflect.Ptr {
		t.Fatalf("ProductID must not be a pointer")
	}

	tag := field.Tag.Get("gorm")
	if !strings.Contains(tag, "not null") {
		t.Fatalf("ProductID gorm tag %q must declare not null", tag)
	}
	if !strings.Contains(tag, "ux_ratings_scope") {
		t.Fatalf("ProductID gorm tag %q must be part of the scope index", tag)
	}
}
