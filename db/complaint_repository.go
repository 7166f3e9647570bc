package db

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/techagentng/civilink/models"
	"go.uber.org/zap"
)

// ComplaintsKey is where the collection backend keeps the serialized list.
const ComplaintsKey = "complaints"

var ErrComplaintNotFound = errors.New("complaint not found")

// ComplaintRepository persists complaints. Update is an atomic
// read-modify-write: when mutate returns an error nothing is written and the
// error is returned unchanged.
type ComplaintRepository interface {
	Load(ctx context.Context, id uint) (*models.Complaint, error)
	Save(ctx context.Context, complaint *models.Complaint) error
	Query(ctx context.Context, filter models.ComplaintFilter) (models.Complaints, error)
	Update(ctx context.Context, id uint, mutate func(*models.Complaint) error) (*models.Complaint, error)
	Count(ctx context.Context) (int, error)
}

// collectionRepo keeps every complaint in one JSON array under a single key
// and rewrites the whole array on each mutation.
type collectionRepo struct {
	mu     sync.Mutex
	kv     KeyValueStore
	key    string
	logger *zap.Logger
}

func NewCollectionComplaintRepo(kv KeyValueStore, logger *zap.Logger) ComplaintRepository {
	return &collectionRepo{kv: kv, key: ComplaintsKey, logger: logger}
}

func (r *collectionRepo) load(ctx context.Context) (models.Complaints, error) {
	raw, err := r.kv.Get(ctx, r.key)
	if errors.Is(err, ErrKeyNotFound) {
		return models.Complaints{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load complaints")
	}

	var list models.Complaints
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		r.logger.Warn("stored complaints are malformed, starting empty", zap.Error(err))
		return models.Complaints{}, nil
	}
	for i := range list {
		list[i].Normalize()
	}
	return list, nil
}

func (r *collectionRepo) store(ctx context.Context, list models.Complaints) error {
	list.SortByLikes()
	for i := range list {
		list[i].Normalize()
	}
	b, err := json.Marshal(list)
	if err != nil {
		return errors.Wrap(err, "encode complaints")
	}
	return errors.Wrap(r.kv.Set(ctx, r.key, string(b), 0), "store complaints")
}

func (r *collectionRepo) Load(ctx context.Context, id uint) (*models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	i := list.Find(id)
	if i < 0 {
		return nil, ErrComplaintNotFound
	}
	c := list[i].Clone()
	return &c, nil
}

func (r *collectionRepo) Save(ctx context.Context, complaint *models.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return err
	}

	complaint.Normalize()
	if complaint.ID == 0 {
		complaint.ID = list.NextID()
	}
	if i := list.Find(complaint.ID); i >= 0 {
		list[i] = complaint.Clone()
	} else {
		list = append(list, complaint.Clone())
	}
	return r.store(ctx, list)
}

func (r *collectionRepo) Query(ctx context.Context, filter models.ComplaintFilter) (models.Complaints, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := list.Filter(filter)
	out.SortByLikes()
	return out, nil
}

func (r *collectionRepo) Update(ctx context.Context, id uint, mutate func(*models.Complaint) error) (*models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	i := list.Find(id)
	if i < 0 {
		return nil, ErrComplaintNotFound
	}

	updated := list[i].Clone()
	if err := mutate(&updated); err != nil {
		return nil, err
	}
	updated.ID = id
	list[i] = updated.Clone()
	if err := r.store(ctx, list); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *collectionRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}
