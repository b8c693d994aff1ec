package services

import (
	"errors"
	"testing"

	"backend/entity"
	"backend/repository"

	"gorm.io/gorm"
)

func newMenuService(db *gorm.DB) *MenuService {
	reviewRepo := repository.NewReviewRepository(db)
	itemRepo := repository.NewMenuItemRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	return NewMenuService(
		repository.NewMenuCategoryRepository(db),
		itemRepo, restaurantRepo,
		NewRatingService(reviewRepo, itemRepo, restaurantRepo),
	)
}

// Deleting a category must take its items out of the restaurant mean and
// out of the public search, not just hide the category row.
func TestMenuService_DeleteCategoryDropsItemsFromAggregates(t *testing.T) {
	db := setupTestDB(t)
	ratings := newRatingService(db)
	menu := newMenuService(db)
	restaurant, goodItem := seedMenuItem(t, db)
	badItem := seedItemFor(t, db, restaurant.ID, "Soggy Fries")
	u1 := seedUser(t, db, "a@test.dev")
	u2 := seedUser(t, db, "b@test.dev")

	seedReview(t, db, u1.ID, goodItem.ID, 5, nil)
	seedReview(t, db, u2.ID, badItem.ID, 1, nil)
	if err := ratings.RecomputeMenuItem(goodItem.ID); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if err := ratings.RecomputeMenuItem(badItem.ID); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	var before entity.Restaurant
	db.First(&before, restaurant.ID)
	checkAvg(t, "avg before delete", before.AvgRating, f(3.0))

	admin := seedUser(t, db, "admin@test.dev")
	if err := menu.DeleteCategory(admin.ID, "admin", badItem.MenuCategoryID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	var after entity.Restaurant
	db.First(&after, restaurant.ID)
	checkAvg(t, "avg after delete", after.AvgRating, f(5.0))
	if after.TotalReviews != 1 {
		t.Fatalf("total reviews = %d, want 1", after.TotalReviews)
	}

	page, err := menu.SearchItems(repository.ItemFilter{Limit: 20}, 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != goodItem.ID {
		t.Fatalf("search returned %d items, want only the surviving one", len(page.Items))
	}
}

// A category row soft-deleted without its items (legacy data) still must
// not leak those items into the restaurant recompute or the search.
func TestMenuService_OrphanedItemsExcluded(t *testing.T) {
	db := setupTestDB(t)
	ratings := newRatingService(db)
	menu := newMenuService(db)
	restaurant, goodItem := seedMenuItem(t, db)
	orphan := seedItemFor(t, db, restaurant.ID, "Ghost Dish")
	u1 := seedUser(t, db, "a@test.dev")
	u2 := seedUser(t, db, "b@test.dev")

	seedReview(t, db, u1.ID, goodItem.ID, 5, nil)
	seedReview(t, db, u2.ID, orphan.ID, 1, nil)
	if err := ratings.RecomputeMenuItem(goodItem.ID); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if err := ratings.RecomputeMenuItem(orphan.ID); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	// Soft-delete only the category row.
	if err := db.Delete(&entity.MenuCategory{}, orphan.MenuCategoryID).Error; err != nil {
		t.Fatalf("delete category row: %v", err)
	}
	if err := ratings.RecomputeRestaurant(restaurant.ID); err != nil {
		t.Fatalf("recompute restaurant: %v", err)
	}

	var got entity.Restaurant
	db.First(&got, restaurant.ID)
	checkAvg(t, "restaurant avg", got.AvgRating, f(5.0))
	if got.TotalReviews != 1 {
		t.Fatalf("total reviews = %d, want 1", got.TotalReviews)
	}

	page, err := menu.SearchItems(repository.ItemFilter{Limit: 20}, 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != goodItem.ID {
		t.Fatalf("search returned %d items, want only the surviving one", len(page.Items))
	}
}

func TestMenuService_DeleteCategoryOwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	menu := newMenuService(db)
	_, item := seedMenuItem(t, db)
	stranger := seedUser(t, db, "stranger@test.dev")

	err := menu.DeleteCategory(stranger.ID, "user", item.MenuCategoryID)
	if !errors.Is(err, ErrNotRestaurantOwner) {
		t.Fatalf("err = %v, want ErrNotRestaurantOwner", err)
	}
}
