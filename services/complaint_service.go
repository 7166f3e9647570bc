package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/techagentng/civilink/config"
	"github.com/techagentng/civilink/db"
	apiError "github.com/techagentng/civilink/errors"
	"github.com/techagentng/civilink/models"
	"go.uber.org/zap"
)

var errLocationRange = apiError.Notice("Location error", "The shared location is out of range.", http.StatusBadRequest)

// ComplaintService is the complaint store: listing, liking, commenting and
// submission. Listings are always ordered by non-increasing likes.
type ComplaintService interface {
	List(ctx context.Context, filter models.ComplaintFilter) (models.Complaints, error)
	Get(ctx context.Context, id uint) (*models.Complaint, error)
	Submit(ctx context.Context, req *models.ComplaintRequest) (*models.Complaint, error)
	Like(ctx context.Context, id uint, username string) (*models.Complaint, error)
	Comment(ctx context.Context, id uint, text, author string) (*models.Comment, error)
	UpdateStatus(ctx context.Context, id uint, status models.Status) (*models.Complaint, error)
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	Share(ctx context.Context, id uint) (*models.SharePayload, error)
	Seed(ctx context.Context) (int, error)
}

type complaintService struct {
	Config *config.Config
	repo   db.ComplaintRepository
	media  MediaService
	logger *zap.Logger
	now    func() time.Time
}

func NewComplaintService(repo db.ComplaintRepository, media MediaService, conf *config.Config, logger *zap.Logger) ComplaintService {
	return &complaintService{
		Config: conf,
		repo:   repo,
		media:  media,
		logger: logger,
		now:    time.Now,
	}
}

func notFound(err error) error {
	if errors.Is(err, db.ErrComplaintNotFound) {
		return apiError.ErrComplaintNotFound
	}
	return err
}

func (s *complaintService) List(ctx context.Context, filter models.ComplaintFilter) (models.Complaints, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, apiError.ErrInvalidCategory
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apiError.ErrInvalidStatus
	}
	list, err := s.repo.Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	list.SortByLikes()
	return list, nil
}

func (s *complaintService) Get(ctx context.Context, id uint) (*models.Complaint, error) {
	c, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	c.ShowComments = true
	return c, nil
}

// Submit checks description, image and location in that order and reports
// only the first one missing.
func (s *complaintService) Submit(ctx context.Context, req *models.ComplaintRequest) (*models.Complaint, error) {
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	req.Risk = strings.ToLower(strings.TrimSpace(req.Risk))
	switch {
	case req.Description == "":
		return nil, apiError.ErrMissingDescription
	case req.Image == nil || len(req.Image.Data) == 0:
		return nil, apiError.ErrMissingImage
	case req.Location == nil:
		return nil, apiError.ErrMissingLocation
	}
	if !req.Location.Valid() {
		return nil, errLocationRange
	}

	category := models.Category(req.Category)
	if !category.Valid() {
		return nil, apiError.ErrInvalidCategory
	}
	risk := models.RiskLow
	if req.Risk != "" {
		risk = models.Risk(req.Risk)
		if !risk.Valid() {
			return nil, apiError.ErrInvalidRisk
		}
	}

	stored, err := s.media.StoreImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	complaint := &models.Complaint{
		Description: req.Description,
		Image:       stored.URL,
		Thumbnail:   stored.ThumbnailURL,
		Location:    *req.Location,
		User:        req.User,
		Date:        s.now().Format(models.DateLayout),
		LikedBy:     []string{},
		Comments:    []models.Comment{},
		Risk:        risk,
		Category:    category,
		Status:      models.StatusReported,
	}
	if err := s.repo.Save(ctx, complaint); err != nil {
		return nil, err
	}

	s.logger.Info("complaint submitted",
		zap.Uint("id", complaint.ID),
		zap.String("category", string(complaint.Category)),
		zap.String("user", complaint.User))
	return complaint, nil
}

// Like records one like per user. A repeat like is rejected with
// ErrAlreadyLiked and changes nothing.
func (s *complaintService) Like(ctx context.Context, id uint, username string) (*models.Complaint, error) {
	updated, err := s.repo.Update(ctx, id, func(c *models.Complaint) error {
		if !c.AddLike(username) {
			return apiError.ErrAlreadyLiked
		}
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}
	return updated, nil
}

func (s *complaintService) Comment(ctx context.Context, id uint, text, author string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apiError.ErrEmptyComment
	}

	var added models.Comment
	_, err := s.repo.Update(ctx, id, func(c *models.Complaint) error {
		added = c.AddComment(text, author, s.now())
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &added, nil
}

func (s *complaintService) UpdateStatus(ctx context.Context, id uint, status models.Status) (*models.Complaint, error) {
	if !status.Valid() {
		return nil, apiError.ErrInvalidStatus
	}
	updated, err := s.repo.Update(ctx, id, func(c *models.Complaint) error {
		c.Status = status
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}
	s.logger.Info("complaint status changed", zap.Uint("id", id), zap.String("status", string(status)))
	return updated, nil
}

func (s *complaintService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	list, err := s.repo.Query(ctx, models.ComplaintFilter{})
	if err != nil {
		return nil, err
	}

	d := &models.Dashboard{
		ByStatus:   make(map[models.Status]int, len(models.Statuses)),
		ByCategory: make(map[models.Category]int, len(models.Categories)),
	}
	for _, st := range models.Statuses {
		d.ByStatus[st] = 0
	}
	for _, cat := range models.Categories {
		d.ByCategory[cat] = 0
	}
	for _, c := range list {
		d.Total++
		d.TotalLikes += c.Likes
		d.ByStatus[c.Status]++
		d.ByCategory[c.Category]++
	}
	return d, nil
}

func (s *complaintService) Share(ctx context.Context, id uint) (*models.SharePayload, error) {
	c, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &models.SharePayload{
		Title: fmt.Sprintf("Sharing complaint #%d", c.ID),
		Text:  c.Description,
		URL:   fmt.Sprintf("%s/api/v1/complaints/%d", strings.TrimRight(s.Config.BaseUrl, "/"), c.ID),
	}, nil
}

// Seed loads the demo complaints into an empty store and reports how many
// were added.
func (s *complaintService) Seed(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	added := 0
	for _, c := range models.DemoComplaints() {
		c := c
		if err := s.repo.Save(ctx, &c); err != nil {
			return added, errors.Wrap(err, "seed complaints")
		}
		added++
	}
	s.logger.Info("seeded demo complaints", zap.Int("count", added))
	return added, nil
}
