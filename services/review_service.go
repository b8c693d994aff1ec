package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"backend/configs"
	"backend/entity"
	"backend/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrAlreadyReviewed    = errors.New("you have already reviewed this item")
	ErrNotReviewAuthor    = errors.New("not the author of this review")
	ErrOwnVoteForbidden   = errors.New("cannot vote on your own review")
	ErrNotRestaurantOwner = errors.New("not the owner of this restaurant")
)

// Notifier is the best-effort realtime collaborator. Publishing must never
// block a mutation; implementations drop events when they cannot deliver.
type Notifier interface {
	Publish(topic, eventType string, payload any)
}

type ReviewService struct {
	Reviews     *repository.ReviewRepository
	Items       *repository.MenuItemRepository
	Restaurants *repository.RestaurantRepository
	Ratings     *RatingService
	Notify      Notifier
	Cache       *redis.Client
}

func NewReviewService(
	reviews *repository.ReviewRepository,
	items *repository.MenuItemRepository,
	restaurants *repository.RestaurantRepository,
	ratings *RatingService,
	notify Notifier,
	cache *redis.Client,
) *ReviewService {
	return &ReviewService{
		Reviews:     reviews,
		Items:       items,
		Restaurants: restaurants,
		Ratings:     ratings,
		Notify:      notify,
		Cache:       cache,
	}
}

type CreateReviewInput struct {
	MenuItemID         uint
	Rating             float64
	TasteRating        *float64
	QualityRating      *float64
	ValueRating        *float64
	PresentationRating *float64
	Title              string
	Content            string
	PhotoURLs          []string
}

type UpdateReviewInput struct {
	Rating             *float64
	TasteRating        *float64
	QualityRating      *float64
	ValueRating        *float64
	PresentationRating *float64
	Title              *string
	Content            *string
}

// RatingSnapshot rides along on realtime events so dashboards can update
// without a refetch.
type RatingSnapshot struct {
	MenuItemID   uint     `json:"menuItemId"`
	RestaurantID uint     `json:"restaurantId"`
	AvgRating    *float64 `json:"avgRating"`
	TotalReviews int      `json:"totalReviews"`
}

// Create stores a new review, recomputes aggregates synchronously so the
// caller sees fresh numbers on an immediate refetch, then broadcasts.
func (s *ReviewService) Create(userID uint, in CreateReviewInput) (*entity.Review, error) {
	item, err := s.Items.FindWithCategory(in.MenuItemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMenuItemNotFound
	}
	if err != nil {
		return nil, err
	}

	switch _, err := s.Reviews.FindByUserAndItem(userID, in.MenuItemID); {
	case err == nil:
		return nil, ErrAlreadyReviewed
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	review := entity.Review{
		Rating:             in.Rating,
		TasteRating:        in.TasteRating,
		QualityRating:      in.QualityRating,
		ValueRating:        in.ValueRating,
		PresentationRating: in.PresentationRating,
		Title:              in.Title,
		Content:            in.Content,
		IsVisible:          true,
		UserID:             userID,
		MenuItemID:         in.MenuItemID,
	}
	for i, url := range in.PhotoURLs {
		review.Photos = append(review.Photos, entity.ReviewPhoto{URL: url, SortOrder: i})
	}
	if err := s.Reviews.Create(&review); err != nil {
		return nil, err
	}

	if err := s.Ratings.RecomputeMenuItem(in.MenuItemID); err != nil {
		return nil, err
	}

	detail, err := s.Reviews.FindDetail(review.ID)
	if err != nil {
		return nil, err
	}

	restaurantID := item.MenuCategory.RestaurantID
	snap := s.snapshot(in.MenuItemID, restaurantID)
	payload := map[string]any{
		"review":       detail,
		"menuItemId":   in.MenuItemID,
		"restaurantId": restaurantID,
		"ratings":      snap,
	}
	s.publish(menuItemTopic(in.MenuItemID), "newReview", payload)
	s.publish(restaurantTopic(restaurantID), "newReview", payload)

	s.invalidateItem(in.MenuItemID)
	return detail, nil
}

// Update patches the author's review. Any field may have changed the
// averages, so it recomputes unconditionally.
func (s *ReviewService) Update(userID, reviewID uint, in UpdateReviewInput) (*entity.Review, error) {
	review, err := s.Reviews.FindByID(reviewID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrNotReviewAuthor
	}

	if in.Rating != nil {
		review.Rating = *in.Rating
	}
	if in.TasteRating != nil {
		review.TasteRating = in.TasteRating
	}
	if in.QualityRating != nil {
		review.QualityRating = in.QualityRating
	}
	if in.ValueRating != nil {
		review.ValueRating = in.ValueRating
	}
	if in.PresentationRating != nil {
		review.PresentationRating = in.PresentationRating
	}
	if in.Title != nil {
		review.Title = *in.Title
	}
	if in.Content != nil {
		review.Content = *in.Content
	}
	if err := s.Reviews.Save(review); err != nil {
		return nil, err
	}

	if err := s.Ratings.RecomputeMenuItem(review.MenuItemID); err != nil {
		return nil, err
	}
	s.publishRatingUpdate(review.MenuItemID)
	s.invalidateItem(review.MenuItemID)

	return s.Reviews.FindDetail(reviewID)
}

// Delete removes a review (author or admin) and recomputes what it left
// behind.
func (s *ReviewService) Delete(userID uint, role string, reviewID uint) error {
	review, err := s.Reviews.FindByID(reviewID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReviewNotFound
	}
	if err != nil {
		return err
	}
	if review.UserID != userID && role != "admin" {
		return ErrNotReviewAuthor
	}

	menuItemID := review.MenuItemID
	if err := s.Reviews.Delete(reviewID); err != nil {
		return err
	}

	if err := s.Ratings.RecomputeMenuItem(menuItemID); err != nil {
		return err
	}
	s.publishRatingUpdate(menuItemID)
	s.invalidateItem(menuItemID)
	return nil
}

// SetModeration updates the moderation columns. Only a visibility change
// moves a review in or out of the counted set, so only that triggers a
// recompute; flagging alone does not.
func (s *ReviewService) SetModeration(reviewID uint, isVisible, isFlagged *bool) (*entity.Review, error) {
	review, err := s.Reviews.FindByID(reviewID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	visibilityChanged := false
	if isVisible != nil && *isVisible != review.IsVisible {
		fields["is_visible"] = *isVisible
		visibilityChanged = true
	}
	if isFlagged != nil {
		fields["is_flagged"] = *isFlagged
	}
	if len(fields) > 0 {
		if err := s.Reviews.SetModeration(reviewID, fields); err != nil {
			return nil, err
		}
	}

	if visibilityChanged {
		if err := s.Ratings.RecomputeMenuItem(review.MenuItemID); err != nil {
			return nil, err
		}
		s.publishRatingUpdate(review.MenuItemID)
		s.invalidateItem(review.MenuItemID)
	}

	return s.Reviews.FindDetail(reviewID)
}

// Flag marks a review for the moderation queue. Aggregates are untouched.
func (s *ReviewService) Flag(reviewID uint) error {
	if _, err := s.Reviews.FindByID(reviewID); errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReviewNotFound
	} else if err != nil {
		return err
	}
	return s.Reviews.SetModeration(reviewID, map[string]any{"is_flagged": true})
}

// VoteHelpful toggles the caller's vote. Returns whether a vote now exists.
func (s *ReviewService) VoteHelpful(userID, reviewID uint) (bool, error) {
	review, err := s.Reviews.FindByID(reviewID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, ErrReviewNotFound
	}
	if err != nil {
		return false, err
	}
	if review.UserID == userID {
		return false, ErrOwnVoteForbidden
	}

	vote, err := s.Reviews.FindVote(userID, reviewID)
	if err == nil {
		return false, s.Reviews.RemoveVote(vote.ID, reviewID)
	}
	return true, s.Reviews.AddVote(userID, reviewID)
}

// Respond records the restaurant owner's reply on a review.
func (s *ReviewService) Respond(userID uint, role string, reviewID uint, text string) (*entity.Review, error) {
	review, err := s.Reviews.FindByID(reviewID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}

	item, err := s.Items.FindWithCategory(review.MenuItemID)
	if err != nil {
		return nil, err
	}
	restaurant, err := s.Restaurants.FindByID(item.MenuCategory.RestaurantID)
	if err != nil {
		return nil, err
	}
	if restaurant.OwnerID != userID && role != "admin" {
		return nil, ErrNotRestaurantOwner
	}

	now := time.Now()
	review.OwnerResponse = &text
	review.OwnerResponseAt = &now
	if err := s.Reviews.Save(review); err != nil {
		return nil, err
	}
	return s.Reviews.FindDetail(reviewID)
}

// ReviewPage is one page of the public listing.
type ReviewPage struct {
	Reviews []entity.Review `json:"reviews"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}

// ListForMenuItem serves the public review list through the redis cache.
// The cached page is viewer-independent; the per-viewer hasVotedHelpful
// flag is stamped on after the cache so one entry serves everyone.
func (s *ReviewService) ListForMenuItem(menuItemID, viewerID uint, sortBy string, page, limit int) (*ReviewPage, error) {
	key := fmt.Sprintf("reviews:item:%d:%s:%d:%d", menuItemID, sortBy, page, limit)
	var cached ReviewPage
	if GetFromCache(configs.Ctx, s.Cache, key, &cached) {
		return s.markVoted(&cached, viewerID)
	}

	reviews, total, err := s.Reviews.ListForMenuItem(menuItemID, sortBy, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	result := &ReviewPage{Reviews: reviews, Total: total, Page: page, Limit: limit}
	SetToCache(configs.Ctx, s.Cache, key, result)
	return s.markVoted(result, viewerID)
}

func (s *ReviewService) markVoted(page *ReviewPage, viewerID uint) (*ReviewPage, error) {
	if viewerID == 0 || len(page.Reviews) == 0 {
		return page, nil
	}
	ids := make([]uint, len(page.Reviews))
	for i := range page.Reviews {
		ids[i] = page.Reviews[i].ID
	}
	voted, err := s.Reviews.VotedReviewIDs(viewerID, ids)
	if err != nil {
		return nil, err
	}
	for i := range page.Reviews {
		page.Reviews[i].HasVotedHelpful = voted[page.Reviews[i].ID]
	}
	return page, nil
}

func (s *ReviewService) invalidateItem(menuItemID uint) {
	InvalidateCache(configs.Ctx, s.Cache, fmt.Sprintf("reviews:item:%d:*", menuItemID))
	InvalidateCache(configs.Ctx, s.Cache, "restaurants:list:*")
}

// publish dispatches after the aggregate write committed; a notifier
// failure is logged and swallowed so it can never fail the mutation.
func (s *ReviewService) publish(topic, eventType string, payload any) {
	if s.Notify == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("publish %s on %s failed: %v", eventType, topic, r)
		}
	}()
	s.Notify.Publish(topic, eventType, payload)
}

func (s *ReviewService) publishRatingUpdate(menuItemID uint) {
	item, err := s.Items.FindWithCategory(menuItemID)
	if err != nil {
		return
	}
	restaurantID := item.MenuCategory.RestaurantID
	snap := RatingSnapshot{
		MenuItemID:   menuItemID,
		RestaurantID: restaurantID,
		AvgRating:    item.AvgRating,
		TotalReviews: item.TotalReviews,
	}
	s.publish(menuItemTopic(menuItemID), "ratingUpdate", snap)
	s.publish(restaurantTopic(restaurantID), "ratingUpdate", snap)
}

func (s *ReviewService) snapshot(menuItemID, restaurantID uint) RatingSnapshot {
	snap := RatingSnapshot{MenuItemID: menuItemID, RestaurantID: restaurantID}
	if item, err := s.Items.FindByID(menuItemID); err == nil {
		snap.AvgRating = item.AvgRating
		snap.TotalReviews = item.TotalReviews
	}
	return snap
}

func menuItemTopic(id uint) string {
	return fmt.Sprintf("menuItem:%d", id)
}

func restaurantTopic(id uint) string {
	return fmt.Sprintf("restaurant:%d", id)
}
