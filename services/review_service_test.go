package services

import (
	"errors"
	"sync"
	"testing"

	"backend/entity"
	"backend/repository"

	"gorm.io/gorm"
)

type capturedEvent struct {
	Topic   string
	Type    string
	Payload any
}

type captureNotifier struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (n *captureNotifier) Publish(topic, eventType string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, capturedEvent{Topic: topic, Type: eventType, Payload: payload})
}

func (n *captureNotifier) byType(eventType string) []capturedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []capturedEvent
	for _, ev := range n.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// panicNotifier simulates a broken realtime collaborator.
type panicNotifier struct{}

func (panicNotifier) Publish(string, string, any) { panic("broker down") }

func newReviewService(db *gorm.DB, notify Notifier) *ReviewService {
	reviewRepo := repository.NewReviewRepository(db)
	itemRepo := repository.NewMenuItemRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	return NewReviewService(
		reviewRepo, itemRepo, restaurantRepo,
		NewRatingService(reviewRepo, itemRepo, restaurantRepo),
		notify, nil,
	)
}

func TestReviewService_CreatePublishesAndRecomputes(t *testing.T) {
	db := setupTestDB(t)
	notify := &captureNotifier{}
	svc := newReviewService(db, notify)
	restaurant, item := seedMenuItem(t, db)
	user := seedUser(t, db, "a@test.dev")

	review, err := svc.Create(user.ID, CreateReviewInput{
		MenuItemID: item.ID,
		Rating:     4,
		Content:    "crispy outside, tender inside",
		PhotoURLs:  []string{"https://img.test/1.jpg"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if review.ID == 0 {
		t.Fatal("review not persisted")
	}
	if len(review.Photos) != 1 {
		t.Fatalf("photos = %d, want 1", len(review.Photos))
	}

	var got entity.MenuItem
	db.First(&got, item.ID)
	checkAvg(t, "item.AvgRating", got.AvgRating, f(4.0))
	if got.TotalReviews != 1 {
		t.Fatalf("item.TotalReviews = %d, want 1", got.TotalReviews)
	}

	events := notify.byType("newReview")
	if len(events) != 2 {
		t.Fatalf("newReview events = %d, want 2", len(events))
	}
	wantTopics := map[string]bool{
		menuItemTopic(item.ID):         true,
		restaurantTopic(restaurant.ID): true,
	}
	for _, ev := range events {
		if !wantTopics[ev.Topic] {
			t.Fatalf("unexpected topic %q", ev.Topic)
		}
	}
}

func TestReviewService_CreateRejectsDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db, nil)
	_, item := seedMenuItem(t, db)
	user := seedUser(t, db, "a@test.dev")

	in := CreateReviewInput{MenuItemID: item.ID, Rating: 4, Content: "first impressions were good"}
	if _, err := svc.Create(user.ID, in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(user.ID, in); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("second create err = %v, want ErrAlreadyReviewed", err)
	}
}

func TestReviewService_CreateMissingItem(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db, nil)
	user := seedUser(t, db, "a@test.dev")

	_, err := svc.Create(user.ID, CreateReviewInput{MenuItemID: 42, Rating: 4, Content: "should not be created"})
	if !errors.Is(err, ErrMenuItemNotFound) {
		t.Fatalf("err = %v, want ErrMenuItemNotFound", err)
	}
}

func TestReviewService_PublishFailureIsSwallowed(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db, panicNotifier{})
	_, item := seedMenuItem(t, db)
	user := seedUser(t, db, "a@test.dev")

	review, err := svc.Create(user.ID, CreateReviewInput{
		MenuItemID: item.ID,
		Rating:     5,
		Content:    "excellent despite the outage",
	})
	if err != nil {
		t.Fatalf("create must succeed when publish fails, got %v", err)
	}

	// the mutation and the recompute both landed
	var got entity.Review
	if err := db.First(&got, review.ID).Error; err != nil {
		t.Fatalf("review not persisted: %v", err)
	}
	var itemRow entity.MenuItem
	db.First(&itemRow, item.ID)
	checkAvg(t, "item.AvgRating", itemRow.AvgRating, f(5.0))
}

func TestReviewService_UpdateAuthorOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db, nil)
	_, item := seedMenuItem(t, db)
	author := seedUser(t, db, "a@test.dev")
	other := seedUser(t, db, "b@test.dev")

	review, err := svc.Create(author.ID, CreateReviewInput{MenuItemID: item.ID, Rating: 3, Content: "average at best honestly"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(other.ID, review.ID, UpdateReviewInput{Rating: f(5)}); !errors.Is(err, ErrNotReviewAuthor) {
		t.Fatalf("update by non-author err = %v, want ErrNotReviewAuthor", err)
	}

	if _, err := svc.Update(author.ID, review.ID, UpdateReviewInput{Rating: f(5)}); err != nil {
		t.Fatalf("update by author: %v", err)
	}
	var got entity.MenuItem
	db.First(&got, item.ID)
	checkAvg(t, "item.AvgRating after edit", got.AvgRating, f(5.0))
}

func TestReviewService_DeleteRecomputes(t *testing.T) {
	db := setupTestDB(t)
	notify := &captureNotifier{}
	svc := newReviewService(db, notify)
	restaurant, item := seedMenuItem(t, db)
	user := seedUser(t, db, "a@test.dev")

	review, err := svc.Create(user.ID, CreateReviewInput{MenuItemID: item.ID, Rating: 5, Content: "the best thing on the menu"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(user.ID, "user", review.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var got entity.MenuItem
	db.First(&got, item.ID)
	checkAvg(t, "item.AvgRating", got.AvgRating, nil)
	if got.TotalReviews != 0 {
		t.Fatalf("item.TotalReviews = %d, want 0", got.TotalReviews)
	}
	var rest entity.Restaurant
	db.First(&rest, restaurant.ID)
	checkAvg(t, "restaurant.AvgRating", rest.AvgRating, nil)

	if len(notify.byType("ratingUpdate")) == 0 {
		t.Fatal("expected a ratingUpdate event after delete")
	}
}

func TestReviewService_ModerationVisibilityRecomputes(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db, nil)
	_, item := seedMenuItem(t, db)
	u1 := seedUser(t, db, "a@test.dev")
	u2 := seedUser(t, db, "b@test.dev")

	if _, err := svc.Create(u1.ID, CreateReviewInput{MenuItemID: item.ID, Rating: 5, Content: "five stars, no complaints"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	low, err := svc.Create(u2.ID, CreateReviewInput{MenuItemID: item.ID, Rating: 1, Content: "cold and late, disappointing"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	hide := false
	if _, err := svc.SetModeration(low.ID, &hide, nil); err != nil {
		t.Fatalf("hide: %v", err)
	}
	var got entity.MenuItem
	db.First(&got, item.ID)
	checkAvg(t, "item.AvgRating hidden", got.AvgRating, f(5.0))
	if got.TotalReviews != 1 {
		t.Fatalf("item.TotalReviews = %d, want 1", got.TotalReviews)
	}

	show := true
	if _, err := svc.SetModeration(low.ID, &show, nil); err != nil {
		t.Fatalf("unhide: %v", err)
	}
	db.First(&got, item.ID)
	checkAvg(t, "item.AvgRating restored", got.AvgRating, f(3.0))
	if got.TotalReviews != 2 {
		t.Fatalf("item.TotalReviews = %d, want 2", got.TotalReviews)
	}
}

func TestReviewService_FlagLeavesAggregatesAlone(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db, nil)
	_, item := seedMenuItem(t, db)
	user := seedUser(t, db, "a@test.dev")

	review, err := svc.Create(user.ID, CreateReviewInput{MenuItemID: item.ID, Rating: 2, Content: "not worth the price tag"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Flag(review.ID); err != nil {
		t.Fatalf("flag: %v", err)
	}

	var got entity.Review
	db.First(&got, review.ID)
	if !got.IsFlagged {
		t.Fatal("review not flagged")
	}
	if !got.IsVisible {
		t.Fatal("flagging must not hide the review")
	}
	var itemRow entity.MenuItem
	db.First(&itemRow, item.ID)
	checkAvg(t, "item.AvgRating", itemRow.AvgRating, f(2.0))
	if itemRow.TotalReviews != 1 {
		t.Fatalf("item.TotalReviews = %d, want 1", itemRow.TotalReviews)
	}
}

func TestReviewService_VoteHelpfulToggles(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db, nil)
	_, item := seedMenuItem(t, db)
	author := seedUser(t, db, "a@test.dev")
	voter := seedUser(t, db, "b@test.dev")

	review, err := svc.Create(author.ID, CreateReviewInput{MenuItemID: item.ID, Rating: 4, Content: "helpful and to the point"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.VoteHelpful(author.ID, review.ID); !errors.Is(err, ErrOwnVoteForbidden) {
		t.Fatalf("self vote err = %v, want ErrOwnVoteForbidden", err)
	}

	voted, err := svc.VoteHelpful(voter.ID, review.ID)
	if err != nil || !voted {
		t.Fatalf("vote = (%v, %v), want (true, nil)", voted, err)
	}
	var got entity.Review
	db.First(&got, review.ID)
	if got.HelpfulCount != 1 {
		t.Fatalf("HelpfulCount = %d, want 1", got.HelpfulCount)
	}

	voted, err = svc.VoteHelpful(voter.ID, review.ID)
	if err != nil || voted {
		t.Fatalf("second vote = (%v, %v), want (false, nil)", voted, err)
	}
	db.First(&got, review.ID)
	if got.HelpfulCount != 0 {
		t.Fatalf("HelpfulCount = %d, want 0", got.HelpfulCount)
	}
}

func TestReviewService_RespondOwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db, nil)
	restaurant, item := seedMenuItem(t, db)
	owner := seedUser(t, db, "owner@test.dev")
	reviewer := seedUser(t, db, "reviewer@test.dev")
	stranger := seedUser(t, db, "stranger@test.dev")

	db.Model(&entity.Restaurant{}).Where("id = ?", restaurant.ID).Update("owner_id", owner.ID)

	review, err := svc.Create(reviewer.ID, CreateReviewInput{MenuItemID: item.ID, Rating: 3, Content: "portion could be bigger"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Respond(stranger.ID, "user", review.ID, "thanks!"); !errors.Is(err, ErrNotRestaurantOwner) {
		t.Fatalf("stranger respond err = %v, want ErrNotRestaurantOwner", err)
	}

	got, err := svc.Respond(owner.ID, "owner", review.ID, "bigger portions coming next month")
	if err != nil {
		t.Fatalf("owner respond: %v", err)
	}
	if got.OwnerResponse == nil || *got.OwnerResponse == "" {
		t.Fatal("owner response not stored")
	}
	if got.OwnerResponseAt == nil {
		t.Fatal("owner response timestamp not stored")
	}
}

func TestReviewService_ListMarksViewerVotes(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db, &captureNotifier{})
	_, item := seedMenuItem(t, db)
	author := seedUser(t, db, "author@test.dev")
	voter := seedUser(t, db, "voter@test.dev")

	review, err := svc.Create(author.ID, CreateReviewInput{MenuItemID: item.ID, Rating: 4, Content: "rich broth, generous toppings"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.VoteHelpful(voter.ID, review.ID); err != nil {
		t.Fatalf("vote: %v", err)
	}

	page, err := svc.ListForMenuItem(item.ID, voter.ID, "helpful", 1, 20)
	if err != nil {
		t.Fatalf("list as voter: %v", err)
	}
	if len(page.Reviews) != 1 || !page.Reviews[0].HasVotedHelpful {
		t.Fatal("voter's list should mark the review as voted")
	}

	page, err = svc.ListForMenuItem(item.ID, 0, "helpful", 1, 20)
	if err != nil {
		t.Fatalf("list anonymous: %v", err)
	}
	if page.Reviews[0].HasVotedHelpful {
		t.Fatal("anonymous list must not carry a vote mark")
	}

	page, err = svc.ListForMenuItem(item.ID, author.ID, "helpful", 1, 20)
	if err != nil {
		t.Fatalf("list as author: %v", err)
	}
	if page.Reviews[0].HasVotedHelpful {
		t.Fatal("author never voted, list must not mark it")
	}
}

func TestReviewService_CreateSurfacesLookupErrors(t *testing.T) {
	db := setupTestDB(t)
	notify := &captureNotifier{}
	svc := newReviewService(db, notify)
	_, item := seedMenuItem(t, db)
	user := seedUser(t, db, "a@test.dev")

	// A failing duplicate lookup must surface as-is, not masquerade as
	// "already reviewed" or fall through to the insert.
	if err := db.Migrator().DropTable(&entity.Review{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	_, err := svc.Create(user.ID, CreateReviewInput{MenuItemID: item.ID, Rating: 4, Content: "never stored anyway"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrAlreadyReviewed) || errors.Is(err, ErrMenuItemNotFound) {
		t.Fatalf("err = %v, want the underlying lookup error", err)
	}
	if len(notify.byType("newReview")) != 0 {
		t.Fatal("no event may be published for a failed create")
	}
}
