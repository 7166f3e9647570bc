package models

import "time"

// ComplaintLike is the stored form of one entry in Complaint.LikedBy.
type ComplaintLike struct {
	ID          uint      `gorm:"primaryKey"`
	ComplaintID uint      `gorm:"uniqueIndex:idx_complaint_like_user;not null"`
	Username    string    `gorm:"uniqueIndex:idx_complaint_like_user;size:255;not null"`
	CreatedAt   time.Time
}
