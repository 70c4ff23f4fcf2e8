package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// Backend identifiers for the catalog store and the rate limit counter.
const (
	CatalogBackendGitHub = "github"
	CatalogBackendMongo  = "mongo"

	RateLimitBackendMemory = "memory"
	RateLimitBackendMongo  = "mongo"
)

// minTokenSecretLength is the HS256 secret length below which Load warns.
const minTokenSecretLength = 32

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                string
	AdminPassword       string
	TokenSecret         []byte
	CatalogBackend      string
	GitHubToken         string
	GitHubRepo          string
	GitHubBranch        string
	GitHubFilePath      string
	GitHubAPIBaseURL    string
	MongoURI            string
	MongoDatabase       string
	CatalogCollection   string
	RateLimitBackend    string
	RateLimitCollection string
	Timeout             time.Duration
	AllowedOrigins      []string
	ServerLog           *log.Logger
}

// NeedsMongo reports whether any configured backend requires a Mongo client.
func (c Config) NeedsMongo() bool {
	return c.CatalogBackend == CatalogBackendMongo || c.RateLimitBackend == RateLimitBackendMongo
}

// Load reads environment variables and returns a fully populated Config.
// A missing JWT_SECRET is tolerated here; the auth endpoints report it per
// request instead of keeping the whole API down.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	serverLog := log.New(os.Stdout, "[meshi-wheel-api] ", log.LstdFlags|log.Lshortfile)

	catalogBackend := strings.ToLower(envOrDefault("CATALOG_BACKEND", CatalogBackendGitHub))
	switch catalogBackend {
	case CatalogBackendGitHub, CatalogBackendMongo:
	default:
		log.Fatalf("CATALOG_BACKEND must be %q or %q, got %q", CatalogBackendGitHub, CatalogBackendMongo, catalogBackend)
	}

	rateLimitBackend := strings.ToLower(envOrDefault("RATE_LIMIT_BACKEND", RateLimitBackendMemory))
	switch rateLimitBackend {
	case RateLimitBackendMemory, RateLimitBackendMongo:
	default:
		log.Fatalf("RATE_LIMIT_BACKEND must be %q or %q, got %q", RateLimitBackendMemory, RateLimitBackendMongo, rateLimitBackend)
	}

	githubToken := strings.TrimSpace(os.Getenv("GITHUB_TOKEN"))
	githubRepo := strings.TrimSpace(os.Getenv("GITHUB_REPO"))
	if catalogBackend == CatalogBackendGitHub {
		if githubToken == "" {
			log.Fatal("GITHUB_TOKEN must be configured for the github backend")
		}
		if githubRepo == "" {
			log.Fatal("GITHUB_REPO must be configured for the github backend (owner/name)")
		}
	}

	tokenSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if tokenSecret != "" && len(tokenSecret) < minTokenSecretLength {
		serverLog.Printf("JWT_SECRET is shorter than %d characters; consider a longer secret", minTokenSecretLength)
	}

	cfg := Config{
		Addr:                envOrDefault("HTTP_ADDR", ":8080"),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
		TokenSecret:         []byte(tokenSecret),
		CatalogBackend:      catalogBackend,
		GitHubToken:         githubToken,
		GitHubRepo:          githubRepo,
		GitHubBranch:        envOrDefault("GITHUB_BRANCH", "main"),
		GitHubFilePath:      envOrDefault("GITHUB_FILE_PATH", "data/restaurants.json"),
		GitHubAPIBaseURL:    strings.TrimSpace(os.Getenv("GITHUB_API_BASE_URL")),
		MongoURI:            envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:       envOrDefault("MONGO_DB", "meshi-wheel"),
		CatalogCollection:   envOrDefault("CATALOG_COLLECTION", "catalog"),
		RateLimitBackend:    rateLimitBackend,
		RateLimitCollection: envOrDefault("RATE_LIMIT_COLLECTION", "auth_rate_limits"),
		Timeout:             timeout,
		AllowedOrigins:      parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		ServerLog:           serverLog,
	}

	cfg.ServerLog.Printf("loaded config: catalogBackend=%q rateLimitBackend=%q githubRepo=%q branch=%q filePath=%q passwordSet=%t secretSet=%t",
		cfg.CatalogBackend, cfg.RateLimitBackend, cfg.GitHubRepo, cfg.GitHubBranch, cfg.GitHubFilePath, cfg.AdminPassword != "", len(cfg.TokenSecret) > 0)

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
