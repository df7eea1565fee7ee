package repository

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yildirimyagiz/menem-sub000/internal/models"
)

type ChannelRepository struct {
	coll *mongo.Collection
}

func NewChannelRepository(db *mongo.Database) *ChannelRepository {
	r := &ChannelRepository{coll: db.Collection("channels")}
	_, _ = r.coll.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}, {Key: "type", Value: 1}, {Key: "name", Value: 1}},
	})
	return r
}

func (r *ChannelRepository) Insert(ctx context.Context, c *models.Channel) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, c)
	return err
}

func (r *ChannelRepository) GetByID(ctx context.Context, id string) (*models.Channel, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var c models.Channel
	if err := r.coll.FindOne(ctx, bson.M{"_id": id, "deleted_at": nil}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ChannelRepository) Update(ctx context.Context, id string, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	set["updated_at"] = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id, "deleted_at": nil}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ChannelRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "deleted_at": nil},
		bson.M{"$set": bson.M{"deleted_at": at, "updated_at": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// List applies the directory filter; the caller normalizes paging and
// sort fields before this runs.
func (r *ChannelRepository) List(ctx context.Context, f models.ChannelFilter) (*models.PagedChannels, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"deleted_at": nil}
	if f.Name != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Name), Options: "i"}
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	order := 1
	if f.SortOrder == "desc" {
		order = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: f.SortBy, Value: order}}).
		SetSkip(int64((f.Page - 1) * f.PageSize)).
		SetLimit(int64(f.PageSize))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	data := []models.Channel{}
	if err := cur.All(ctx, &data); err != nil {
		return nil, err
	}
	return &models.PagedChannels{Data: data, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}
