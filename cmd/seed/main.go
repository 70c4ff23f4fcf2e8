package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/meshi-wheel/api/internal/catalog"
	"github.com/sngm3741/meshi-wheel/api/internal/config"
	"github.com/sngm3741/meshi-wheel/api/internal/infrastructure/github"
	mongodoc "github.com/sngm3741/meshi-wheel/api/internal/infrastructure/mongo"
)

type seedOptions struct {
	envFile string
	file    string
	force   bool
	message string
}

// catalogStore は seed が利用する書き込み口。両バックエンド共通のインターフェース。
type catalogStore interface {
	Fetch(ctx context.Context) (catalog.Catalog, string, error)
	CompareAndSwap(ctx context.Context, doc catalog.Catalog, versionTag, message string) error
}

func main() {
	opts := parseFlags()

	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil {
			log.Printf("env ファイル %s を読み込めませんでした: %v", opts.envFile, err)
		}
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		log.Fatalf("ストアの初期化に失敗しました: %v", err)
	}
	defer cleanup()

	doc, err := loadCatalog(opts.file)
	if err != nil {
		log.Fatalf("投入データの読み込みに失敗しました: %v", err)
	}

	current, tag, err := store.Fetch(ctx)
	switch {
	case err == nil:
		if !opts.force {
			log.Fatalf("カタログは既に存在します (restaurants=%d profiles=%d)。上書きするには -force を指定してください。",
				len(current.Restaurants), len(current.Profiles))
		}
		if err := store.CompareAndSwap(ctx, doc, tag, opts.message); err != nil {
			log.Fatalf("カタログの上書きに失敗しました: %v", err)
		}
	case isMissingCatalog(err):
		if err := store.CompareAndSwap(ctx, doc, "", opts.message); err != nil {
			log.Fatalf("カタログの作成に失敗しました: %v", err)
		}
	default:
		log.Fatalf("現在のカタログの取得に失敗しました: %v", err)
	}

	log.Printf("Seed 完了: restaurants=%d profiles=%d backend=%s",
		len(doc.Restaurants), len(doc.Profiles), cfg.CatalogBackend)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envFile, "env", ".env", "読み込む env ファイル (空文字で無効化)")
	flag.StringVar(&opts.file, "file", "", "投入するカタログ JSON のパス (省略時はサンプルデータ)")
	flag.BoolVar(&opts.force, "force", false, "既存カタログを上書きする")
	flag.StringVar(&opts.message, "message", "Seed catalog", "書き込み時のコミットメッセージ")
	flag.Parse()
	return opts
}

// buildStore は CATALOG_BACKEND に応じたストアと後始末関数を返す。
func buildStore(ctx context.Context, cfg config.Config) (catalogStore, func(), error) {
	if cfg.CatalogBackend == config.CatalogBackendMongo {
		clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
		client, err := mongo.Connect(ctx, clientOptions)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			_ = client.Disconnect(context.Background())
		}
		repo := mongodoc.NewCatalogRepository(client.Database(cfg.MongoDatabase), cfg.CatalogCollection)
		return repo, cleanup, nil
	}

	client := github.NewContentsClient(github.Config{
		Token:    cfg.GitHubToken,
		Repo:     cfg.GitHubRepo,
		Branch:   cfg.GitHubBranch,
		FilePath: cfg.GitHubFilePath,
		BaseURL:  cfg.GitHubAPIBaseURL,
	})
	return client, func() {}, nil
}

func loadCatalog(path string) (catalog.Catalog, error) {
	if path == "" {
		return defaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.Catalog{}, err
	}
	var doc catalog.Catalog
	if err := json.Unmarshal(data, &doc); err != nil {
		return catalog.Catalog{}, fmt.Errorf("%s のパースに失敗: %w", path, err)
	}
	doc.Normalize()
	return doc, nil
}

func isMissingCatalog(err error) bool {
	var statusErr *github.StatusError
	if errors.As(err, &statusErr) && statusErr.NotFound() {
		return true
	}
	return errors.Is(err, mongo.ErrNoDocuments)
}

// defaultCatalog はローカル動作確認用のサンプルデータを返す。
func defaultCatalog() catalog.Catalog {
	doc := catalog.Catalog{
		Profiles: []catalog.Profile{
			catalog.NewReservedProfile(),
			{ID: "quick-lunch", Name: "Quick Lunch"},
			{ID: "date-night", Name: "Date Night"},
		},
		Restaurants: []catalog.Restaurant{
			{
				ID:           catalog.NewRestaurantID(),
				Name:         "Ramen Taro",
				FoodTypes:    []string{"ramen", "japanese"},
				ServiceTypes: []string{"dine-in", "takeout"},
				Profiles:     []string{"quick-lunch"},
				Address:      "2-1-5 Ebisu, Shibuya-ku",
			},
			{
				ID:           catalog.NewRestaurantID(),
				Name:         "Pizza Napoli",
				FoodTypes:    []string{"pizza", "italian"},
				ServiceTypes: []string{"dine-in", "delivery"},
				Profiles:     []string{"date-night"},
				MenuLink:     "https://pizza-napoli.example.com/menu",
			},
			{
				ID:                  catalog.NewRestaurantID(),
				Name:                "Green Bowl",
				FoodTypes:           []string{"salad", "healthy"},
				ServiceTypes:        []string{"takeout", "delivery"},
				Profiles:            []string{"quick-lunch"},
				DietaryRestrictions: []string{"vegan", "gluten-free"},
			},
		},
	}
	doc.Normalize()
	return doc
}
