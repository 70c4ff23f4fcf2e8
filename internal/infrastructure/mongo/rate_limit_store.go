package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RateLimitStore は認証レート制限カウンタの Mongo 実装。複数インスタンス間で
// 同じウィンドウを共有する。
type RateLimitStore struct {
	collection *mongo.Collection
}

// NewRateLimitStore は MongoDB コレクションを束縛した RateLimitStore を生成する。
func NewRateLimitStore(db *mongo.Database, collection string) *RateLimitStore {
	return &RateLimitStore{collection: db.Collection(collection)}
}

// EnsureIndexes は resetAt の TTL インデックスを作成する。
func (s *RateLimitStore) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "resetAt", Value: 1}},
		Options: options.Index().SetName("resetAt_ttl").SetExpireAfterSeconds(0),
	}
	_, err := s.collection.Indexes().CreateOne(ctx, model)
	return err
}

// Increment はキーのカウントを原子的に進める。resetAt を過ぎていた場合は新しい
// ウィンドウとして 1 から数え直す。
func (s *RateLimitStore) Increment(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	now := time.Now().UTC()
	reset := now.Add(window)

	expired := bson.D{{Key: "$lt", Value: bson.A{
		bson.D{{Key: "$ifNull", Value: bson.A{"$resetAt", time.Unix(0, 0).UTC()}}},
		now,
	}}}
	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "count", Value: bson.D{{Key: "$cond", Value: bson.A{
				expired,
				1,
				bson.D{{Key: "$add", Value: bson.A{
					bson.D{{Key: "$ifNull", Value: bson.A{"$count", 0}}},
					1,
				}}},
			}}}},
			{Key: "resetAt", Value: bson.D{{Key: "$cond", Value: bson.A{
				expired,
				reset,
				bson.D{{Key: "$ifNull", Value: bson.A{"$resetAt", reset}}},
			}}}},
		}}},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc RateLimitDocument
	if err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": key}, update, opts).Decode(&doc); err != nil {
		return 0, time.Time{}, err
	}
	return doc.Count, doc.ResetAt, nil
}
