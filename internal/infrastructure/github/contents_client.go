package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sngm3741/meshi-wheel/api/internal/catalog"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 1 << 16
	acceptHeader   = "application/vnd.github+json"
	apiVersion     = "2022-11-28"
)

// StatusError は GitHub API の非 2xx 応答。上流のステータスと本文を保持し、
// ハンドラ層がそのまま診断メッセージとして利用する。
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github contents api: status=%d body=%s", e.Status, e.Body)
}

// Conflict reports whether the write lost a compare-and-swap race.
func (e *StatusError) Conflict() bool {
	return e.Status == http.StatusConflict || e.Status == http.StatusUnprocessableEntity
}

// NotFound reports whether the document does not exist yet.
func (e *StatusError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// Config は ContentsClient の接続設定。
type Config struct {
	Token      string
	Repo       string // "owner/name"
	Branch     string
	FilePath   string
	BaseURL    string
	HTTPClient *http.Client
}

// ContentsClient は GitHub Contents API 上の単一 JSON ドキュメントを扱う
// アダプタ。blob SHA をバージョンタグとして往復させ、古い SHA での PUT は
// GitHub 側で原子的に拒否される。
type ContentsClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	repo       string
	branch     string
	filePath   string
}

func NewContentsClient(cfg Config) *ContentsClient {
	client := cfg.HTTPClient
	if client == nil {
		// ハングしないよう必ずタイムアウト付きクライアントを使う。
		client = &http.Client{Timeout: defaultTimeout}
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &ContentsClient{
		httpClient: client,
		baseURL:    baseURL,
		token:      cfg.Token,
		repo:       strings.Trim(cfg.Repo, "/"),
		branch:     cfg.Branch,
		filePath:   strings.TrimLeft(cfg.FilePath, "/"),
	}
}

type contentsResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	SHA      string `json:"sha"`
}

type putContentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

// Fetch はドキュメントと現在の blob SHA を返す。
func (c *ContentsClient) Fetch(ctx context.Context) (catalog.Catalog, string, error) {
	endpoint := c.contentsURL()
	if c.branch != "" {
		endpoint += "?ref=" + url.QueryEscape(c.branch)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return catalog.Catalog{}, "", fmt.Errorf("カタログ取得リクエストの作成に失敗: %w", err)
	}
	c.setHeaders(req)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return catalog.Catalog{}, "", fmt.Errorf("カタログ取得リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return catalog.Catalog{}, "", newStatusError(res)
	}

	var payload contentsResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return catalog.Catalog{}, "", fmt.Errorf("カタログ応答の解析に失敗: %w", err)
	}
	raw, err := decodeContent(payload)
	if err != nil {
		return catalog.Catalog{}, "", err
	}

	var doc catalog.Catalog
	if err := json.Unmarshal(raw, &doc); err != nil {
		return catalog.Catalog{}, "", fmt.Errorf("カタログ JSON の解析に失敗: %w", err)
	}
	doc.Normalize()
	return doc, payload.SHA, nil
}

// CompareAndSwap はドキュメント全体を書き戻す。versionTag が空の場合は
// 新規作成としてコミットする。
func (c *ContentsClient) CompareAndSwap(ctx context.Context, doc catalog.Catalog, versionTag, message string) error {
	var content bytes.Buffer
	encoder := json.NewEncoder(&content)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("カタログ JSON の生成に失敗: %w", err)
	}

	body, err := json.Marshal(putContentsRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content.Bytes()),
		SHA:     versionTag,
		Branch:  c.branch,
	})
	if err != nil {
		return fmt.Errorf("カタログ更新ペイロードの作成に失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("カタログ更新リクエストの作成に失敗: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("カタログ更新リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return newStatusError(res)
	}
	return nil
}

func (c *ContentsClient) contentsURL() string {
	return fmt.Sprintf("%s/repos/%s/contents/%s", c.baseURL, c.repo, c.filePath)
}

func (c *ContentsClient) setHeaders(req *http.Request) {
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func decodeContent(payload contentsResponse) ([]byte, error) {
	if payload.Encoding != "" && payload.Encoding != "base64" {
		return nil, fmt.Errorf("サポートしない content encoding です: %q", payload.Encoding)
	}
	normalized := strings.ReplaceAll(strings.TrimSpace(payload.Content), "\n", "")
	raw, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil {
		return nil, fmt.Errorf("カタログ本文の base64 復号に失敗: %w", err)
	}
	return raw, nil
}

func newStatusError(res *http.Response) error {
	message, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	return &StatusError{Status: res.StatusCode, Body: strings.TrimSpace(string(message))}
}
