package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/yildirimyagiz/menem-sub000/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ChannelStore is the directory's persistence capability.
type ChannelStore interface {
	Insert(ctx context.Context, c *models.Channel) error
	GetByID(ctx context.Context, id string) (*models.Channel, error)
	Update(ctx context.Context, id string, set bson.M) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, f models.ChannelFilter) (*models.PagedChannels, error)
}

type ChannelService struct {
	store ChannelStore
	now   func() time.Time
}

func NewChannelService(store ChannelStore) *ChannelService {
	return &ChannelService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// NormalizeFilter clamps paging and whitelists sort fields so arbitrary
// query params cannot reach the database.
func NormalizeFilter(f models.ChannelFilter) models.ChannelFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	switch f.SortBy {
	case "name", "category", "type", "created_at", "updated_at":
	default:
		f.SortBy = "created_at"
	}
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		f.SortOrder = "desc"
	}
	return f
}

func (s *ChannelService) List(ctx context.Context, f models.ChannelFilter) (*models.PagedChannels, error) {
	return s.store.List(ctx, NormalizeFilter(f))
}

func (s *ChannelService) Get(ctx context.Context, id string) (*models.Channel, error) {
	return s.store.GetByID(ctx, id)
}

type ChannelInput struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Category    models.ChannelCategory `json:"category"`
	Type        models.ChannelType     `json:"type"`
}

func (s *ChannelService) Create(ctx context.Context, in ChannelInput) (*models.Channel, error) {
	if strings.TrimSpace(in.Name) == "" || !in.Category.Valid() || !in.Type.Valid() {
		return nil, models.ErrBadRequest
	}
	now := s.now()
	c := &models.Channel{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Type:        in.Type,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ChannelService) Update(ctx context.Context, id string, in ChannelInput) (*models.Channel, error) {
	set := bson.M{}
	if strings.TrimSpace(in.Name) != "" {
		set["name"] = in.Name
	}
	if in.Description != "" {
		set["description"] = in.Description
	}
	if in.Category != "" {
		if !in.Category.Valid() {
			return nil, models.ErrBadRequest
		}
		set["category"] = in.Category
	}
	if in.Type != "" {
		if !in.Type.Valid() {
			return nil, models.ErrBadRequest
		}
		set["type"] = in.Type
	}
	if len(set) == 0 {
		return s.store.GetByID(ctx, id)
	}
	if err := s.store.Update(ctx, id, set); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}

func (s *ChannelService) Delete(ctx context.Context, id string) error {
	return s.store.SoftDelete(ctx, id, s.now())
}
