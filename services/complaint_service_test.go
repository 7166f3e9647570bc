package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/civilink/config"
	"github.com/techagentng/civilink/db"
	apiError "github.com/techagentng/civilink/errors"
	"github.com/techagentng/civilink/models"
	"go.uber.org/zap"
)

func newComplaintService(t *testing.T, media MediaService) (*complaintService, db.ComplaintRepository) {
	t.Helper()
	repo := db.NewCollectionComplaintRepo(db.NewMemoryStore(), zap.NewNop())
	svc := NewComplaintService(repo, media, &config.Config{BaseUrl: "http://civilink.test/"}, zap.NewNop()).(*complaintService)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	return svc, repo
}

func seeded(t *testing.T) *complaintService {
	t.Helper()
	svc, _ := newComplaintService(t, new(MockMediaService))
	n, err := svc.Seed(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, n)
	return svc
}

func TestSeedOnlyFillsEmptyStore(t *testing.T) {
	svc := seeded(t)
	n, err := svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListByCategoryAndStatus(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()

	road, err := svc.List(ctx, models.ComplaintFilter{Category: models.CategoryRoad})
	require.NoError(t, err)
	require.Len(t, road, 1)
	assert.Equal(t, "Large pothole on Main Street causing traffic issues", road[0].Description)

	reported, err := svc.List(ctx, models.ComplaintFilter{Status: models.StatusReported})
	require.NoError(t, err)
	require.Len(t, reported, 3)
	assert.Equal(t, []int{42, 28, 15}, []int{reported[0].Likes, reported[1].Likes, reported[2].Likes})

	_, err = svc.List(ctx, models.ComplaintFilter{Category: "water"})
	assert.Equal(t, apiError.ErrInvalidCategory, err)
}

func TestLikeOncePerUser(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()

	c, err := svc.Like(ctx, 3, "user1")
	require.NoError(t, err)
	assert.Equal(t, 16, c.Likes)
	assert.Equal(t, c.Likes, len(c.LikedBy))

	_, err = svc.Like(ctx, 3, "user1")
	assert.True(t, errors.Is(err, apiError.ErrAlreadyLiked))

	got, err := svc.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 16, got.Likes)
	assert.True(t, got.ShowComments)

	_, err = svc.Like(ctx, 42, "user1")
	assert.Equal(t, apiError.ErrComplaintNotFound, err)
}

func TestLikeReordersListing(t *testing.T) {
	svc, repo := newComplaintService(t, new(MockMediaService))
	ctx := context.Background()
	a := models.Complaint{Description: "a", Category: models.CategoryRoad}
	b := models.Complaint{Description: "b", Category: models.CategoryRoad}
	require.NoError(t, repo.Save(ctx, &a))
	require.NoError(t, repo.Save(ctx, &b))

	_, err := svc.Like(ctx, b.ID, "user2")
	require.NoError(t, err)

	list, err := svc.List(ctx, models.ComplaintFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
}

func TestComment(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()

	_, err := svc.Comment(ctx, 1, "   ", "John Doe")
	assert.Equal(t, apiError.ErrEmptyComment, err)

	first, err := svc.Comment(ctx, 1, " Still no power ", "John Doe")
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "Still no power", first.Text)
	assert.Equal(t, "2024-05-01", first.Date)

	second, err := svc.Comment(ctx, 1, "Crew is on site", "Jane Smith")
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, 42, got.Likes)

	_, err = svc.Comment(ctx, 99, "hello", "John Doe")
	assert.Equal(t, apiError.ErrComplaintNotFound, err)
}

func TestSubmitValidationOrder(t *testing.T) {
	svc, _ := newComplaintService(t, new(MockMediaService))
	ctx := context.Background()
	image := &models.Upload{Filename: "photo.png", Data: []byte{1}}
	loc := &models.Location{Lat: 12.97, Lng: 77.59}

	cases := []struct {
		name string
		req  models.ComplaintRequest
		want error
	}{
		{"everything missing", models.ComplaintRequest{}, apiError.ErrMissingDescription},
		{"blank description", models.ComplaintRequest{Description: "   ", Image: image, Location: loc}, apiError.ErrMissingDescription},
		{"image and location missing", models.ComplaintRequest{Description: "Broken light"}, apiError.ErrMissingImage},
		{"location missing", models.ComplaintRequest{Description: "Broken light", Image: image}, apiError.ErrMissingLocation},
		{"bad category", models.ComplaintRequest{Description: "Broken light", Image: image, Location: loc, Category: "water"}, apiError.ErrInvalidCategory},
		{"bad risk", models.ComplaintRequest{Description: "Broken light", Image: image, Location: loc, Category: "road", Risk: "medium"}, apiError.ErrInvalidRisk},
		{"latitude out of range", models.ComplaintRequest{Description: "Broken light", Image: image, Location: &models.Location{Lat: 91, Lng: 0}, Category: "road"}, errLocationRange},
		{"longitude out of range", models.ComplaintRequest{Description: "Broken light", Image: image, Location: &models.Location{Lat: 0, Lng: -180.5}, Category: "road"}, errLocationRange},
		{"latitude NaN", models.ComplaintRequest{Description: "Broken light", Image: image, Location: &models.Location{Lat: math.NaN(), Lng: 1}, Category: "road"}, errLocationRange},
		{"longitude infinite", models.ComplaintRequest{Description: "Broken light", Image: image, Location: &models.Location{Lat: 1, Lng: math.Inf(1)}, Category: "road"}, errLocationRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			_, err := svc.Submit(ctx, &req)
			assert.Equal(t, tc.want, err)
		})
	}
}

func TestSubmitStoresComplaint(t *testing.T) {
	media := new(MockMediaService)
	svc, _ := newComplaintService(t, media)
	ctx := context.Background()
	upload := &models.Upload{Filename: "photo.png", Data: []byte("png")}

	media.On("StoreImage", mock.Anything, upload).
		Return(&StoredImage{URL: "http://civilink.test/media/a.jpg", ThumbnailURL: "http://civilink.test/media/t.jpg"}, nil)

	c, err := svc.Submit(ctx, &models.ComplaintRequest{
		Description: "  Transformer sparking near school  ",
		Category:    "Electricity",
		Location:    &models.Location{Lat: 40.71, Lng: -74.0},
		Image:       upload,
		User:        "John Doe",
	})
	require.NoError(t, err)
	media.AssertExpectations(t)

	assert.Equal(t, uint(1), c.ID)
	assert.Equal(t, "Transformer sparking near school", c.Description)
	assert.Equal(t, models.CategoryElectricity, c.Category)
	assert.Equal(t, models.RiskLow, c.Risk)
	assert.Equal(t, models.StatusReported, c.Status)
	assert.Equal(t, "2024-05-01", c.Date)
	assert.Equal(t, 0, c.Likes)
	assert.Empty(t, c.LikedBy)

	listed, err := svc.List(ctx, models.ComplaintFilter{Category: models.CategoryElectricity})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "http://civilink.test/media/a.jpg", listed[0].Image)
}

func TestSubmitMediaFailureStoresNothing(t *testing.T) {
	media := new(MockMediaService)
	svc, repo := newComplaintService(t, media)
	ctx := context.Background()

	media.On("StoreImage", mock.Anything, mock.Anything).Return(nil, apiError.ErrInvalidImage)

	_, err := svc.Submit(ctx, &models.ComplaintRequest{
		Description: "Overflowing bins",
		Category:    "cleanliness",
		Location:    &models.Location{Lat: 1, Lng: 1},
		Image:       &models.Upload{Data: []byte("not an image")},
	})
	assert.Equal(t, apiError.ErrInvalidImage, err)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateStatusAndDashboard(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, 2, "closed")
	assert.Equal(t, apiError.ErrInvalidStatus, err)

	c, err := svc.UpdateStatus(ctx, 2, models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, c.Status)

	inProgress, err := svc.List(ctx, models.ComplaintFilter{Status: models.StatusInProgress})
	require.NoError(t, err)
	require.Len(t, inProgress, 1)

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Total)
	assert.Equal(t, 85, d.TotalLikes)
	assert.Equal(t, 2, d.ByStatus[models.StatusReported])
	assert.Equal(t, 1, d.ByStatus[models.StatusInProgress])
	assert.Equal(t, 0, d.ByStatus[models.StatusResolved])
	assert.Equal(t, 1, d.ByCategory[models.CategoryRoad])
}

func TestShare(t *testing.T) {
	svc := seeded(t)

	p, err := svc.Share(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Sharing complaint #1", p.Title)
	assert.Equal(t, "http://civilink.test/api/v1/complaints/1", p.URL)

	_, err = svc.Share(context.Background(), 9)
	assert.Equal(t, apiError.ErrComplaintNotFound, err)
}
