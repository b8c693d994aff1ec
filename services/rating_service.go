package services

import (
	"errors"
	"math"

	"backend/entity"
	"backend/repository"

	"gorm.io/gorm"
)

// RatingService maintains the derived rating aggregates. Every recompute is
// a full rebuild from the currently visible review rows, so the same call is
// safe to repeat after edits, deletions and moderation flips; nothing is
// applied as a delta. Concurrent writers may interleave and the last write
// wins, which is acceptable for advisory statistics.
type RatingService struct {
	Reviews     *repository.ReviewRepository
	Items       *repository.MenuItemRepository
	Restaurants *repository.RestaurantRepository
}

func NewRatingService(reviews *repository.ReviewRepository, items *repository.MenuItemRepository, restaurants *repository.RestaurantRepository) *RatingService {
	return &RatingService{Reviews: reviews, Items: items, Restaurants: restaurants}
}

// RecomputeMenuItem rebuilds one item's five averages and review count from
// its visible reviews, persists them, then cascades to the owning restaurant.
// A menu item that no longer exists is skipped: the triggering review
// mutation already settled on its own.
func (s *RatingService) RecomputeMenuItem(menuItemID uint) error {
	item, err := s.Items.FindWithCategory(menuItemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	reviews, err := s.Reviews.FindVisibleByMenuItem(menuItemID)
	if err != nil {
		return err
	}

	if err := s.Items.UpdateRatings(menuItemID, ComputeItemRatings(reviews)); err != nil {
		return err
	}

	// The item's average shifted, so the restaurant-level mean may have too.
	return s.RecomputeRestaurant(item.MenuCategory.RestaurantID)
}

// RecomputeRestaurant rebuilds the restaurant aggregate from its items'
// already-computed averages. The restaurant rating is a mean of item
// averages, not of raw reviews; items without any rated review are left
// out of the mean but their zero count still sums into TotalReviews.
func (s *RatingService) RecomputeRestaurant(restaurantID uint) error {
	stats, err := s.Items.RatingStatsByRestaurant(restaurantID)
	if err != nil {
		return err
	}

	total := 0
	var sum float64
	rated := 0
	for _, st := range stats {
		total += st.TotalReviews
		if st.AvgRating != nil {
			sum += *st.AvgRating
			rated++
		}
	}

	var avg *float64
	if rated > 0 {
		v := round1(sum / float64(rated))
		avg = &v
	}
	return s.Restaurants.UpdateRatings(restaurantID, avg, total)
}

// ComputeItemRatings is the pure step of the pipeline: visible review set in,
// aggregate tuple out. The empty set is the reset state, not an error. Each
// sub-dimension averages only the reviews that supply it, while TotalReviews
// and the overall average always count the whole set.
func ComputeItemRatings(reviews []entity.Review) repository.ItemRatings {
	out := repository.ItemRatings{TotalReviews: len(reviews)}
	if len(reviews) == 0 {
		return out
	}

	var sum float64
	for _, rv := range reviews {
		sum += rv.Rating
	}
	overall := round1(sum / float64(len(reviews)))
	out.AvgRating = &overall

	out.AvgTasteRating = dimensionAvg(reviews, func(rv entity.Review) *float64 { return rv.TasteRating })
	out.AvgQualityRating = dimensionAvg(reviews, func(rv entity.Review) *float64 { return rv.QualityRating })
	out.AvgValueRating = dimensionAvg(reviews, func(rv entity.Review) *float64 { return rv.ValueRating })
	out.AvgPresentationRating = dimensionAvg(reviews, func(rv entity.Review) *float64 { return rv.PresentationRating })

	return out
}

func dimensionAvg(reviews []entity.Review, pick func(entity.Review) *float64) *float64 {
	var sum float64
	n := 0
	for _, rv := range reviews {
		if v := pick(rv); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	v := round1(sum / float64(n))
	return &v
}

// round1 rounds to one decimal. Item averages are rounded first and the
// restaurant mean is taken over those rounded values; the small drift that
// two-stage rounding can introduce matches how the numbers have always
// been presented.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
