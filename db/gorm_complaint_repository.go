package db

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/techagentng/civilink/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormComplaintRepo stores one row per complaint with comments and likes in
// their own tables, so a like or a comment touches only its complaint.
type gormComplaintRepo struct {
	DB     *gorm.DB
	mu     sync.Mutex
	logger *zap.Logger
}

func NewGormComplaintRepo(db *GormDB, logger *zap.Logger) ComplaintRepository {
	return &gormComplaintRepo{DB: db.DB, logger: logger}
}

func withChildren(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("seq asc") }).
		Preload("LikeRecords", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") })
}

// hydrate rebuilds LikedBy from the like rows.
func hydrate(c *models.Complaint) {
	c.LikedBy = make([]string, 0, len(c.LikeRecords))
	for _, l := range c.LikeRecords {
		c.LikedBy = append(c.LikedBy, l.Username)
	}
	c.LikeRecords = nil
	c.Normalize()
}

func insertChildren(tx *gorm.DB, complaintID uint, comments []models.Comment, likedBy []string) error {
	if len(comments) > 0 {
		rows := make([]models.Comment, len(comments))
		for i, c := range comments {
			c.RowID = 0
			c.ComplaintID = complaintID
			rows[i] = c
		}
		if err := tx.Create(&rows).Error; err != nil {
			return errors.Wrap(err, "insert comments")
		}
	}
	if len(likedBy) > 0 {
		likes := make([]models.ComplaintLike, len(likedBy))
		for i, u := range likedBy {
			likes[i] = models.ComplaintLike{ComplaintID: complaintID, Username: u}
		}
		if err := tx.Create(&likes).Error; err != nil {
			return errors.Wrap(err, "insert likes")
		}
	}
	return nil
}

func (r *gormComplaintRepo) Load(ctx context.Context, id uint) (*models.Complaint, error) {
	var c models.Complaint
	err := withChildren(r.DB.WithContext(ctx)).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrComplaintNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load complaint %d", id)
	}
	hydrate(&c)
	return &c, nil
}

func (r *gormComplaintRepo) Save(ctx context.Context, complaint *models.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	complaint.Normalize()
	row := complaint.Clone()
	row.Comments = nil

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if row.ID != 0 {
			if err := tx.Where("complaint_id = ?", row.ID).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("complaint_id = ?", row.ID).Delete(&models.ComplaintLike{}).Error; err != nil {
				return err
			}
			if err := tx.Omit(clause.Associations).Save(&row).Error; err != nil {
				return err
			}
		} else if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return err
		}
		return insertChildren(tx, row.ID, complaint.Comments, complaint.LikedBy)
	})
	if err != nil {
		return errors.Wrap(err, "save complaint")
	}
	complaint.ID = row.ID
	return nil
}

func (r *gormComplaintRepo) Query(ctx context.Context, filter models.ComplaintFilter) (models.Complaints, error) {
	tx := withChildren(r.DB.WithContext(ctx))
	if filter.Category != "" {
		tx = tx.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}

	var list models.Complaints
	if err := tx.Order("likes desc").Order("id asc").Find(&list).Error; err != nil {
		return nil, errors.Wrap(err, "query complaints")
	}
	for i := range list {
		hydrate(&list[i])
	}
	return list, nil
}

func (r *gormComplaintRepo) Update(ctx context.Context, id uint, mutate func(*models.Complaint) error) (*models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result models.Complaint
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Complaint
		if err := withChildren(tx).First(&current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrComplaintNotFound
			}
			return err
		}
		hydrate(&current)

		updated := current.Clone()
		if err := mutate(&updated); err != nil {
			return err
		}
		updated.ID = id

		err := tx.Model(&models.Complaint{}).Where("id = ?", id).Updates(map[string]interface{}{
			"description":  updated.Description,
			"image":        updated.Image,
			"thumbnail":    updated.Thumbnail,
			"location_lat": updated.Location.Lat,
			"location_lng": updated.Location.Lng,
			"author":       updated.User,
			"date":         updated.Date,
			"likes":        updated.Likes,
			"risk":         updated.Risk,
			"category":     updated.Category,
			"status":       updated.Status,
		}).Error
		if err != nil {
			return err
		}

		var newComments []models.Comment
		if len(updated.Comments) > len(current.Comments) {
			newComments = updated.Comments[len(current.Comments):]
		}
		var newLikes []string
		for _, u := range updated.LikedBy {
			if !current.HasLiked(u) {
				newLikes = append(newLikes, u)
			}
		}
		if err := insertChildren(tx, id, newComments, newLikes); err != nil {
			return err
		}

		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *gormComplaintRepo) Count(ctx context.Context) (int, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Complaint{}).Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "count complaints")
	}
	return int(n), nil
}
