package mongo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sngm3741/meshi-wheel/api/internal/catalog"
)

// catalogKey は単一ドキュメント構成での固定 _id。
const catalogKey = "catalog"

// ErrRevisionMismatch は compare-and-swap の敗北を表す。呼び出し側は再試行せず
// そのまま失敗を返す。
var ErrRevisionMismatch = errors.New("catalog revision mismatch")

// CatalogRepository はカタログ集約の Mongo 実装。GitHub アダプタと同じポートを
// 満たし、revision フィールドをバージョンタグとして往復させる。
type CatalogRepository struct {
	collection *mongo.Collection
}

// NewCatalogRepository は MongoDB コレクションを束縛した CatalogRepository を生成する。
func NewCatalogRepository(db *mongo.Database, collection string) *CatalogRepository {
	return &CatalogRepository{collection: db.Collection(collection)}
}

// Fetch は現在のドキュメントと revision を返す。
func (r *CatalogRepository) Fetch(ctx context.Context) (catalog.Catalog, string, error) {
	var doc CatalogDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": catalogKey}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return catalog.Catalog{}, "", fmt.Errorf("カタログドキュメントが存在しません: %w", err)
		}
		return catalog.Catalog{}, "", err
	}
	mapped := mapCatalog(doc)
	mapped.Normalize()
	return mapped, doc.Revision, nil
}

// CompareAndSwap は revision が一致する場合のみドキュメントを置き換える。
// versionTag が空の場合は新規作成する。
func (r *CatalogRepository) CompareAndSwap(ctx context.Context, doc catalog.Catalog, versionTag, message string) error {
	replacement := buildCatalogDocument(doc, message)
	if versionTag == "" {
		if _, err := r.collection.InsertOne(ctx, replacement); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return fmt.Errorf("カタログは既に作成されています: %w", ErrRevisionMismatch)
			}
			return err
		}
		return nil
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": catalogKey, "revision": versionTag}, replacement)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("revision %s は他の書き込みに追い越されました: %w", versionTag, ErrRevisionMismatch)
	}
	return nil
}

// Ping はヘルスチェック用にプライマリへの到達性を確認する。
func (r *CatalogRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}

func mapCatalog(doc CatalogDocument) catalog.Catalog {
	var profiles []catalog.Profile
	if doc.Profiles != nil {
		profiles = make([]catalog.Profile, 0, len(doc.Profiles))
		for _, p := range doc.Profiles {
			profiles = append(profiles, catalog.Profile{ID: p.ID, Name: p.Name})
		}
	}
	restaurants := make([]catalog.Restaurant, 0, len(doc.Restaurants))
	for _, record := range doc.Restaurants {
		restaurants = append(restaurants, catalog.Restaurant{
			ID:                  catalog.ParseID(record.ID),
			Name:                record.Name,
			FoodTypes:           record.FoodTypes,
			ServiceTypes:        record.ServiceTypes,
			Profiles:            record.Profiles,
			DietaryRestrictions: record.DietaryRestrictions,
			OrderMethod:         record.OrderMethod,
			MenuLink:            record.MenuLink,
			Address:             record.Address,
			Phone:               record.Phone,
			Notes:               record.Notes,
		})
	}
	return catalog.Catalog{Profiles: profiles, Restaurants: restaurants}
}

func buildCatalogDocument(doc catalog.Catalog, message string) CatalogDocument {
	var profiles []ProfileDocument
	if doc.Profiles != nil {
		profiles = make([]ProfileDocument, 0, len(doc.Profiles))
		for _, p := range doc.Profiles {
			profiles = append(profiles, ProfileDocument{ID: p.ID, Name: p.Name})
		}
	}
	restaurants := make([]RestaurantDocument, 0, len(doc.Restaurants))
	for _, record := range doc.Restaurants {
		restaurants = append(restaurants, RestaurantDocument{
			ID:                  idValue(record.ID),
			Name:                record.Name,
			FoodTypes:           record.FoodTypes,
			ServiceTypes:        record.ServiceTypes,
			Profiles:            record.Profiles,
			DietaryRestrictions: record.DietaryRestrictions,
			OrderMethod:         record.OrderMethod,
			MenuLink:            record.MenuLink,
			Address:             record.Address,
			Phone:               record.Phone,
			Notes:               record.Notes,
		})
	}
	return CatalogDocument{
		Key:         catalogKey,
		Revision:    uuid.NewString(),
		Message:     message,
		Profiles:    profiles,
		Restaurants: restaurants,
		UpdatedAt:   time.Now().UTC(),
	}
}

// idValue は数値由来の id を数値のまま永続化する。
func idValue(id catalog.ID) any {
	if id.Numeric() {
		if n, err := strconv.ParseInt(id.String(), 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(id.String(), 64); err == nil {
			return f
		}
	}
	return id.String()
}
