package models

import (
	"sort"
	"time"
)

// DateLayout is the calendar date format used for complaint and comment dates.
const DateLayout = "2006-01-02"

type Category string

const (
	CategoryElectricity Category = "electricity"
	CategoryRoad        Category = "road"
	CategoryCleanliness Category = "cleanliness"
)

var Categories = []Category{CategoryElectricity, CategoryRoad, CategoryCleanliness}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type Risk string

const (
	RiskHigh Risk = "high"
	RiskLow  Risk = "low"
)

func (r Risk) Valid() bool {
	return r == RiskHigh || r == RiskLow
}

type Status string

const (
	StatusReported   Status = "reported"
	StatusResolved   Status = "resolved"
	StatusInProgress Status = "in-progress"
)

var Statuses = []Status{StatusReported, StatusResolved, StatusInProgress}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether l is a finite point on the globe. NaN fails every
// comparison, so it is rejected along with out-of-range values.
func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

// Complaint is a citizen report. Likes always equals len(LikedBy).
type Complaint struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Image       string    `json:"image"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Location    Location  `json:"location" gorm:"embedded;embeddedPrefix:location_"`
	User        string    `json:"user" gorm:"column:author"`
	Date        string    `json:"date" gorm:"size:10"`
	Likes       int       `json:"likes" gorm:"not null;default:0;index"`
	LikedBy     []string  `json:"likedBy" gorm:"-"`
	Comments    []Comment `json:"comments" gorm:"foreignKey:ComplaintID;constraint:OnDelete:CASCADE"`
	Risk        Risk      `json:"risk" gorm:"size:8"`
	Category    Category  `json:"category" gorm:"size:16;index"`
	Status      Status    `json:"status" gorm:"size:16;index"`
	// ShowComments is view state for the comment thread and is never stored.
	ShowComments bool `json:"showComments,omitempty" gorm:"-"`

	LikeRecords []ComplaintLike `json:"-" gorm:"foreignKey:ComplaintID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

func (c *Complaint) HasLiked(user string) bool {
	for _, u := range c.LikedBy {
		if u == user {
			return true
		}
	}
	return false
}

// AddLike records a like from user. It returns false, leaving the complaint
// untouched, when user has already liked it.
func (c *Complaint) AddLike(user string) bool {
	if c.HasLiked(user) {
		return false
	}
	c.LikedBy = append(c.LikedBy, user)
	c.Likes++
	return true
}

// AddComment appends a comment whose id is one past the current count.
func (c *Complaint) AddComment(text, user string, now time.Time) Comment {
	comment := Comment{
		ID:   len(c.Comments) + 1,
		Text: text,
		User: user,
		Date: now.Format(DateLayout),
	}
	c.Comments = append(c.Comments, comment)
	return comment
}

func (c *Complaint) Matches(f ComplaintFilter) bool {
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	return true
}

// Normalize fills defaults and replaces nil slices so stored and reloaded
// complaints look the same.
func (c *Complaint) Normalize() {
	if c.LikedBy == nil {
		c.LikedBy = []string{}
	}
	if c.Comments == nil {
		c.Comments = []Comment{}
	}
	if c.Status == "" {
		c.Status = StatusReported
	}
	if c.Risk == "" {
		c.Risk = RiskLow
	}
	c.ShowComments = false
}

// Clone returns a deep copy.
func (c Complaint) Clone() Complaint {
	cp := c
	cp.LikedBy = append([]string(nil), c.LikedBy...)
	cp.Comments = append([]Comment(nil), c.Comments...)
	cp.LikeRecords = nil
	return cp
}

// ComplaintFilter selects complaints; empty fields match everything.
type ComplaintFilter struct {
	Category Category `form:"category"`
	Status   Status   `form:"status"`
}

type Complaints []Complaint

// SortByLikes orders by non-increasing likes, keeping the current order of ties.
func (cs Complaints) SortByLikes() {
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].Likes > cs[j].Likes
	})
}

func (cs Complaints) Filter(f ComplaintFilter) Complaints {
	out := Complaints{}
	for _, c := range cs {
		if c.Matches(f) {
			out = append(out, c.Clone())
		}
	}
	return out
}

// Find returns the index of the complaint with id, or -1.
func (cs Complaints) Find(id uint) int {
	for i := range cs {
		if cs[i].ID == id {
			return i
		}
	}
	return -1
}

func (cs Complaints) NextID() uint {
	var max uint
	for _, c := range cs {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

// ComplaintRequest is a submission from the complaint form.
type ComplaintRequest struct {
	Description string    `form:"description"`
	Category    string    `form:"category"`
	Risk        string    `form:"risk"`
	Location    *Location `form:"-"`
	Image       *Upload   `form:"-"`
	User        string    `form:"-"`
}

// Upload is an uploaded file held in memory.
type Upload struct {
	Filename string
	Data     []byte
}

type StatusUpdateRequest struct {
	Status Status `json:"status" binding:"required"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

type Dashboard struct {
	Total      int              `json:"total"`
	TotalLikes int              `json:"totalLikes"`
	ByStatus   map[Status]int   `json:"byStatus"`
	ByCategory map[Category]int `json:"byCategory"`
}

type SharePayload struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}
