package mongo

import "time"

// CatalogDocument は MongoDB 上でのカタログスキーマを Go 構造体として表現した
// もの。ドキュメントは常に1件で、revision が compare-and-swap のバージョン
// タグになる。
type CatalogDocument struct {
	Key         string               `bson:"_id"`
	Revision    string               `bson:"revision"`
	Message     string               `bson:"message,omitempty"`
	Profiles    []ProfileDocument    `bson:"profiles,omitempty"`
	Restaurants []RestaurantDocument `bson:"restaurants"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

// ProfileDocument はカタログ内のプロフィール埋め込み構造。
type ProfileDocument struct {
	ID   string `bson:"id"`
	Name string `bson:"name"`
}

// RestaurantDocument はカタログ内のレストラン埋め込み構造。id は歴史的経緯で
// 文字列と数値が混在する。
type RestaurantDocument struct {
	ID                  any      `bson:"id"`
	Name                string   `bson:"name"`
	FoodTypes           []string `bson:"foodTypes,omitempty"`
	ServiceTypes        []string `bson:"serviceTypes,omitempty"`
	Profiles            []string `bson:"profiles"`
	DietaryRestrictions []string `bson:"dietaryRestrictions,omitempty"`
	OrderMethod         string   `bson:"orderMethod,omitempty"`
	MenuLink            string   `bson:"menuLink,omitempty"`
	Address             string   `bson:"address,omitempty"`
	Phone               string   `bson:"phone,omitempty"`
	Notes               string   `bson:"notes,omitempty"`
}

// RateLimitDocument は認証レート制限のキー別カウンタ。resetAt の TTL
// インデックスで期限切れエントリが自動削除される。
type RateLimitDocument struct {
	Key     string    `bson:"_id"`
	Count   int       `bson:"count"`
	ResetAt time.Time `bson:"resetAt"`
}
