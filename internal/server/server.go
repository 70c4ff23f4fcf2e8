package server

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/mongo"

	adminapp "github.com/sngm3741/meshi-wheel/api/internal/admin/application"
	"github.com/sngm3741/meshi-wheel/api/internal/auth"
	"github.com/sngm3741/meshi-wheel/api/internal/config"
	"github.com/sngm3741/meshi-wheel/api/internal/infrastructure/github"
	mongodoc "github.com/sngm3741/meshi-wheel/api/internal/infrastructure/mongo"
	adminhttp "github.com/sngm3741/meshi-wheel/api/internal/interfaces/http/admin"
	commonhttp "github.com/sngm3741/meshi-wheel/api/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/meshi-wheel/api/internal/interfaces/http/public"
	publicapp "github.com/sngm3741/meshi-wheel/api/internal/public/application"
	"github.com/sngm3741/meshi-wheel/api/internal/ratelimit"
)

// ログインエンドポイントのレート制限。クライアント1つあたり60秒間に5回まで。
const (
	authRateLimit  = 5
	authRateWindow = 60 * time.Second
)

// storePinger はヘルスチェックから疎通確認できるストアが実装する。
type storePinger interface {
	Ping(ctx context.Context) error
}

// Server は HTTP サーバーのライフサイクルを管理し、Public/Admin の各ハンドラへ依存注入するコンポジションルート。
// DDD の Interface 層に相当し、アプリケーションサービスをルータへ接続する責務を担う。
type Server struct {
	logger           *log.Logger
	client           *mongo.Client
	addr             string
	backend          string
	adminPassword    string
	allowedOrigins   []string
	tokens           *auth.Service
	limiter          *ratelimit.Limiter
	rateStore        *mongodoc.RateLimitStore
	pinger           storePinger
	adminRestaurants adminapp.RestaurantService
	adminProfiles    adminapp.ProfileService
	publicQueries    publicapp.CatalogQueryService
}

// Run はHTTPサーバーを起動し、Public/Adminのルーティングやミドルウェアを組み立てる。
// インフラ初期化に限定し、ドメインロジックをここに書かないことで層の責務を守る。
func (s *Server) Run() error {
	if err := s.ensureRateLimitIndexes(context.Background()); err != nil {
		s.logger.Printf("レート制限コレクションのインデックス作成に失敗しました: %v", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:        s.logger,
		Queries:       s.publicQueries,
		Tokens:        s.tokens,
		AdminPassword: s.adminPassword,
	})
	publicHandler.Register(router, s.rateLimitMiddleware)

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:      s.logger,
		Restaurants: s.adminRestaurants,
		Profiles:    s.adminProfiles,
	})
	adminHandler.Register(router, s.authMiddleware)

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP サーバー起動: http://%s backend=%s", s.addr, s.backend)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
// ヘッダーはエラーを含む全レスポンスへ付与し、OPTIONS には 200 だけを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			switch {
			case allowAll && origin != "":
				w.Header().Set("Access-Control-Allow-Origin", origin)
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "":
				if _, ok := allowed[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
				}
			}
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// healthHandler はバックエンドストアへの疎通確認を行い、監視系からのヘルスチェック要求に応える。
// GitHub バックエンドには ping 相当が無いため、プロセス生存のみを返す。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if s.pinger != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			if err := s.pinger.Ping(ctx); err != nil {
				commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status":  "ok",
			"backend": s.backend,
			"time":    time.Now().Format(time.RFC3339),
		})
	}
}

// authMiddleware は Authorization ヘッダーのセッショントークンを検証し、セッションIDをコンテキストへ詰める。
// 失敗理由は区別せず一律 401 を返す。トークンが来ているのにシークレット未設定の場合のみ 500。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(header, bearerPrefix) {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if tokenString == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := s.tokens.Verify(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrNotConfigured) {
				commonhttp.WriteError(s.logger, w, http.StatusInternalServerError, "JWT_SECRET is not configured")
				return
			}
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := commonhttp.ContextWithSession(r.Context(), claims.SessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rateLimitMiddleware はクライアントIPごとの固定ウィンドウ制限を適用する。
// ストア障害時はフェイルオープンとし、ログイン機能を止めない。
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision, err := s.limiter.Check(r.Context(), clientKey(r))
		if err != nil {
			s.logger.Printf("レート制限ストアの照会に失敗: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(decision.ResetAt)))
			commonhttp.WriteJSON(s.logger, w, http.StatusTooManyRequests, map[string]any{
				"authenticated": false,
				"error":         "Too many authentication attempts. Please try again later.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientKey は RealIP ミドルウェア通過後の RemoteAddr からクライアントキーを導く。
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = strings.TrimSpace(r.RemoteAddr)
	}
	if host == "" {
		return ratelimit.UnknownClientKey
	}
	return host
}

// retryAfterSeconds はリセット時刻までの秒数を切り上げで返す。最小 1 秒。
func retryAfterSeconds(resetAt time.Time) int {
	until := time.Until(resetAt)
	if until <= 0 {
		return 1
	}
	secs := int((until + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// ensureRateLimitIndexes は Mongo レート制限ストア利用時に TTL インデックスを用意する。
// 失敗しても起動は続行する。期限切れエントリは読み取り時にも無効化されるため。
func (s *Server) ensureRateLimitIndexes(ctx context.Context) error {
	if s.rateStore == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.rateStore.EnsureIndexes(ctx)
}

// shutdown は MongoDB クライアントをタイムアウト付きで切断し、プロセス終了時のリソースリークを防ぐ。
func (s *Server) shutdown(ctx context.Context) {
	if s.client == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("MongoDB 切断時にエラー: %v", err)
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
// アプリケーションの外側で扱うべき OS 依存の関心事をここへ閉じ込める。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("サーバーが異常終了: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("シグナル %s を受信。サーバー停止処理を開始します。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("サーバー停止時にエラー: %v", err)
		}
	}

	srv.shutdown(context.Background())
}

// New は Config と Mongo クライアント(GitHub バックエンドかつメモリ制限時は nil 可)を受け取り、
// アプリケーションサービスとハンドラを組み立てた Server を返す。依存解決の起点となるファクトリ。
func New(cfg config.Config, client *mongo.Client) *Server {
	srv := &Server{
		logger:         cfg.ServerLog,
		client:         client,
		addr:           cfg.Addr,
		backend:        cfg.CatalogBackend,
		adminPassword:  cfg.AdminPassword,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		tokens:         auth.NewService(cfg.TokenSecret),
	}

	var database *mongo.Database
	if client != nil {
		database = client.Database(cfg.MongoDatabase)
	}

	var repo adminapp.CatalogRepository
	switch cfg.CatalogBackend {
	case config.CatalogBackendMongo:
		mongoRepo := mongodoc.NewCatalogRepository(database, cfg.CatalogCollection)
		srv.pinger = mongoRepo
		repo = mongoRepo
	default:
		repo = github.NewContentsClient(github.Config{
			Token:    cfg.GitHubToken,
			Repo:     cfg.GitHubRepo,
			Branch:   cfg.GitHubBranch,
			FilePath: cfg.GitHubFilePath,
			BaseURL:  cfg.GitHubAPIBaseURL,
		})
	}

	var counter ratelimit.CounterStore
	switch cfg.RateLimitBackend {
	case config.RateLimitBackendMongo:
		store := mongodoc.NewRateLimitStore(database, cfg.RateLimitCollection)
		srv.rateStore = store
		counter = store
	default:
		counter = ratelimit.NewMemoryStore()
	}
	srv.limiter = ratelimit.New(counter, authRateLimit, authRateWindow)

	srv.adminRestaurants = adminapp.NewRestaurantService(repo)
	srv.adminProfiles = adminapp.NewProfileService(repo)
	srv.publicQueries = publicapp.NewCatalogQueryService(repo)

	return srv
}
