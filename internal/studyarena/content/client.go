// Package content: 학습 콘텐츠 서비스 HTTP 클라이언트.
// 스터디 세트의 문제/복습 아이템을 조회한다. 세트 편집은 콘텐츠 서비스가 담당한다.
package content

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.opentelemetry.io/otel/propagation"

	"github.com/park285/study-arena-go/internal/common/cache"
	cerrors "github.com/park285/study-arena-go/internal/common/errors"
	"github.com/park285/study-arena-go/internal/common/httpclient"
	"github.com/park285/study-arena-go/internal/common/httputil"
	"github.com/park285/study-arena-go/internal/common/telemetry"
	"github.com/park285/study-arena-go/internal/domain/models"
	aconfig "github.com/park285/study-arena-go/internal/studyarena/config"
)

const (
	maxResponseBytes = 4 << 20

	itemCacheEntries = 128
	itemCacheTTL     = 5 * time.Minute
)

// Client: 학습 콘텐츠 서비스와 HTTP로 통신하는 클라이언트입니다.
// 복습 아이템 목록은 세트 단위로 짧게 캐싱한다. (문제 조회는 서버 측 셔플이 있어 캐싱하지 않음)
type Client struct {
	http      *http.Client
	baseURL   string
	apiKey    string
	itemCache *cache.TTLLRUCache[[]models.ReviewableItem]
	logger    *slog.Logger
}

// New: 새로운 Client 인스턴스를 생성합니다.
// BaseURL 스킴은 http:// 또는 https://이어야 합니다.
func New(cfg aconfig.ContentConfig, logger *slog.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("content base url is required")
	}
	lowerURL := strings.ToLower(baseURL)
	if !strings.HasPrefix(lowerURL, "http://") && !strings.HasPrefix(lowerURL, "https://") {
		return nil, fmt.Errorf("unsupported scheme: content base url must start with http:// or https://, got %q", cfg.BaseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := httpclient.New(httpclient.Config{
		Timeout:        cfg.Timeout,
		ConnectTimeout: cfg.ConnectTimeout,
		HTTP2Enabled:   cfg.HTTP2Enabled,
	})

	return &Client{
		http:      httpClient,
		baseURL:   baseURL,
		apiKey:    strings.TrimSpace(cfg.APIKey),
		itemCache: cache.NewTTLLRUCache[[]models.ReviewableItem](itemCacheEntries, itemCacheTTL),
		logger:    logger,
	}, nil
}

// NewWithHTTPClient: 주입된 http.Client로 Client를 생성합니다. (테스트용)
func NewWithHTTPClient(baseURL string, apiKey string, httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:      httpClient,
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		itemCache: cache.NewTTLLRUCache[[]models.ReviewableItem](itemCacheEntries, itemCacheTTL),
		logger:    logger,
	}
}

type questionsResponse struct {
	Questions []models.Question `json:"questions"`
}

type itemsResponse struct {
	Items []models.ReviewableItem `json:"items"`
}

// QuestionsForSet: 스터디 세트의 객관식 문제를 최대 count개 조회합니다.
func (c *Client) QuestionsForSet(ctx context.Context, studySetID string, count int) ([]models.Question, error) {
	endpoint := fmt.Sprintf(
		"%s/api/study-sets/%s/questions?count=%s",
		c.baseURL,
		url.PathEscape(studySetID),
		strconv.Itoa(count),
	)

	var out questionsResponse
	if err := c.getJSON(ctx, endpoint, studySetID, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

// ItemsForSet: 스터디 세트의 복습 아이템 전체를 조회합니다. (복습 시드용)
func (c *Client) ItemsForSet(ctx context.Context, studySetID string) ([]models.ReviewableItem, error) {
	if cached, ok := c.itemCache.Get(studySetID); ok {
		return cached, nil
	}

	endpoint := fmt.Sprintf(
		"%s/api/study-sets/%s/items",
		c.baseURL,
		url.PathEscape(studySetID),
	)

	var out itemsResponse
	if err := c.getJSON(ctx, endpoint, studySetID, &out); err != nil {
		return nil, err
	}

	c.itemCache.Set(studySetID, out.Items)
	return out.Items, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, studySetID string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set(httputil.HeaderAPIKey, c.apiKey)
	}
	telemetry.InjectContext(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("content request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return cerrors.NotFoundError{Resource: "study_set", ID: studySetID}
	case resp.StatusCode != http.StatusOK:
		c.logger.Warn("content_unexpected_status", "status", resp.StatusCode, "study_set_id", studySetID)
		return fmt.Errorf("content service returned status %d", resp.StatusCode)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode content response failed: %w", err)
	}
	return nil
}
