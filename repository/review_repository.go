package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

// FindVisibleByMenuItem loads the full counted set for an item. This is
// what every recompute reads, so hidden reviews must never leak in here.
func (r *ReviewRepository) FindVisibleByMenuItem(menuItemID uint) ([]entity.Review, error) {
	var reviews []entity.Review
	err := r.DB.
		Where("menu_item_id = ? AND is_visible = ?", menuItemID, true).
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepository) FindByID(id uint) (*entity.Review, error) {
	var review entity.Review
	if err := r.DB.First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// FindDetail loads a review with author and photos for API responses.
func (r *ReviewRepository) FindDetail(id uint) (*entity.Review, error) {
	var review entity.Review
	err := r.DB.
		Preload("User").
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) FindByUserAndItem(userID, menuItemID uint) (*entity.Review, error) {
	var review entity.Review
	err := r.DB.
		Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListForMenuItem returns one page of visible reviews, with author and photos.
func (r *ReviewRepository) ListForMenuItem(menuItemID uint, sortBy string, limit, offset int) ([]entity.Review, int64, error) {
	q := r.DB.Model(&entity.Review{}).
		Where("menu_item_id = ? AND is_visible = ?", menuItemID, true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch sortBy {
	case "newest":
		q = q.Order("created_at DESC")
	case "rating":
		q = q.Order("rating DESC")
	default:
		q = q.Order("helpful_count DESC")
	}

	var reviews []entity.Review
	err := q.
		Preload("User").
		Preload("Photos").
		Limit(limit).Offset(offset).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *ReviewRepository) FindByUser(userID uint, limit, offset int) ([]entity.Review, error) {
	var reviews []entity.Review
	err := r.DB.
		Where("user_id = ? AND is_visible = ?", userID, true).
		Order("created_at DESC").
		Preload("Photos").
		Limit(limit).Offset(offset).
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepository) Create(review *entity.Review) error {
	return r.DB.Create(review).Error
}

func (r *ReviewRepository) Save(review *entity.Review) error {
	return r.DB.Save(review).Error
}

// Delete removes the review for real. A soft-deleted row would keep the
// user+item unique index occupied and block the user from reviewing the
// dish again.
func (r *ReviewRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("review_id = ?", id).Delete(&entity.ReviewPhoto{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("review_id = ?", id).Delete(&entity.HelpfulVote{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&entity.Review{}, id).Error
	})
}

// SetModeration flips visibility/flag columns directly; map updates so
// false values are written, not skipped as zero values.
func (r *ReviewRepository) SetModeration(id uint, fields map[string]any) error {
	return r.DB.Model(&entity.Review{}).Where("id = ?", id).Updates(fields).Error
}

// ModerationFilter narrows the admin review queue.
type ModerationFilter struct {
	Flagged *bool
	Visible *bool
	Limit   int
	Offset  int
}

func (r *ReviewRepository) ListForModeration(f ModerationFilter) ([]entity.Review, int64, error) {
	q := r.DB.Model(&entity.Review{})
	if f.Flagged != nil {
		q = q.Where("is_flagged = ?", *f.Flagged)
	}
	if f.Visible != nil {
		q = q.Where("is_visible = ?", *f.Visible)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []entity.Review
	err := q.
		Preload("User").
		Order("created_at DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *ReviewRepository) CountWhere(query string, args ...any) (int64, error) {
	var n int64
	q := r.DB.Model(&entity.Review{})
	if query != "" {
		q = q.Where(query, args...)
	}
	err := q.Count(&n).Error
	return n, err
}

// --- helpful votes ---

func (r *ReviewRepository) FindVote(userID, reviewID uint) (*entity.HelpfulVote, error) {
	var vote entity.HelpfulVote
	err := r.DB.Where("user_id = ? AND review_id = ?", userID, reviewID).First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// VotedReviewIDs returns which of the given reviews the user has voted
// helpful, in one query.
func (r *ReviewRepository) VotedReviewIDs(userID uint, reviewIDs []uint) (map[uint]bool, error) {
	voted := make(map[uint]bool, len(reviewIDs))
	if len(reviewIDs) == 0 {
		return voted, nil
	}
	var ids []uint
	err := r.DB.Model(&entity.HelpfulVote{}).
		Where("user_id = ? AND review_id IN ?", userID, reviewIDs).
		Pluck("review_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		voted[id] = true
	}
	return voted, nil
}

// AddVote creates the vote row and bumps the counter in one transaction.
func (r *ReviewRepository) AddVote(userID, reviewID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entity.HelpfulVote{UserID: userID, ReviewID: reviewID}).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Review{}).Where("id = ?", reviewID).
			Update("helpful_count", gorm.Expr("helpful_count + 1")).Error
	})
}

func (r *ReviewRepository) RemoveVote(voteID, reviewID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&entity.HelpfulVote{}, voteID).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Review{}).Where("id = ? AND helpful_count > 0", reviewID).
			Update("helpful_count", gorm.Expr("helpful_count - 1")).Error
	})
}
