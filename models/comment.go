package models

// Comment belongs to a complaint. ID is its position in the thread, starting at 1.
type Comment struct {
	RowID       uint   `json:"-" gorm:"primaryKey"`
	ComplaintID uint   `json:"-" gorm:"index;not null"`
	ID          int    `json:"id" gorm:"column:seq;not null"`
	Text        string `json:"text" gorm:"type:text"`
	User        string `json:"user"`
	Date        string `json:"date" gorm:"size:10"`
}
