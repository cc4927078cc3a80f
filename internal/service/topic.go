package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"debate_room/internal/repository"
	repomodels "debate_room/internal/repository/models"
)

// DefaultTopics 是題庫為空時使用的內建主題
var DefaultTopics = []string{
	"Does AI threaten human jobs?",
	"Does remote work improve productivity?",
	"Is space exploration essential?",
	"Should smartphones be banned for teenagers?",
	"Should eating meat be banned for animal welfare?",
}

const topicPrompt = "Generate a single, neutral, and thought-provoking debate topic suitable for a structured " +
	"discussion between two sides (for and against). The topic should be a question. For example: " +
	"'Should all schools offer free lunch to students?'. Do not include any introductory or concluding " +
	"phrases, just the question."

// TopicSource 提供新房間使用的辯論主題
type TopicSource interface {
	Topic(ctx context.Context) (string, error)
}

// TopicSourceFunc 讓普通函數實作 TopicSource
type TopicSourceFunc func(ctx context.Context) (string, error)

func (f TopicSourceFunc) Topic(ctx context.Context) (string, error) { return f(ctx) }

// randomPicker 是可並發使用的隨機數來源
type randomPicker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newRandomPicker() *randomPicker {
	return &randomPicker{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (p *randomPicker) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.Intn(n)
}

// StaticTopicSource 從固定列表中隨機選擇主題
type StaticTopicSource struct {
	titles []string
	rnd    *randomPicker
}

func NewStaticTopicSource(titles []string) *StaticTopicSource {
	return &StaticTopicSource{titles: titles, rnd: newRandomPicker()}
}

func (s *StaticTopicSource) Topic(ctx context.Context) (string, error) {
	if len(s.titles) == 0 {
		return "", ErrTopicUnavailable
	}
	return s.titles[s.rnd.Intn(len(s.titles))], nil
}

// CatalogTopicSource 從資料庫題庫中隨機選擇主題
type CatalogTopicSource struct {
	repo repository.TopicRepository
	rnd  *randomPicker
}

func NewCatalogTopicSource(repo repository.TopicRepository) *CatalogTopicSource {
	return &CatalogTopicSource{repo: repo, rnd: newRandomPicker()}
}

// Seed 在題庫為空時寫入預設主題
func (s *CatalogTopicSource) Seed(ctx context.Context, titles []string) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, title := range titles {
		if err := s.repo.Create(ctx, &repomodels.Topic{Title: title}); err != nil {
			return err
		}
	}
	log.Info().Str("module", "service.topic").Int("count", len(titles)).Msg("initialized default topics")
	return nil
}

func (s *CatalogTopicSource) Topic(ctx context.Context) (string, error) {
	topics, err := s.repo.FindAll(ctx)
	if err != nil {
		return "", err
	}
	if len(topics) == 0 {
		return "", ErrTopicUnavailable
	}
	return topics[s.rnd.Intn(len(topics))].Title, nil
}

// GeminiTopicSource 透過 Gemini generateContent API 生成主題，新主題會存入題庫
type GeminiTopicSource struct {
	client  *http.Client
	apiURL  string
	apiKey  string
	catalog repository.TopicRepository // 可以為 nil
}

func NewGeminiTopicSource(client *http.Client, apiURL, apiKey string, catalog repository.TopicRepository) *GeminiTopicSource {
	return &GeminiTopicSource{client: client, apiURL: apiURL, apiKey: apiKey, catalog: catalog}
}

const geminiKeyHeader = "x-goog-api-key"

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (s *GeminiTopicSource) Topic(ctx context.Context) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: topicPrompt}}}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	// 金鑰放在 header，不能出現在 URL（url.Error 會帶上完整 URL）
	req.Header.Set(geminiKeyHeader, s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini request: unexpected status %d", resp.StatusCode)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("gemini response: %w", err)
	}

	title := parseGeminiTopic(out)
	if title == "" {
		return "", fmt.Errorf("gemini response: %w", ErrTopicUnavailable)
	}
	if !strings.HasSuffix(title, "?") {
		title += "?"
	}

	if s.catalog != nil {
		if err := s.catalog.Create(ctx, &repomodels.Topic{Title: title}); err != nil {
			// 存入題庫失敗不影響本次使用
			log.Warn().Err(err).Str("module", "service.topic").Msg("failed to save generated topic")
		}
	}
	return title, nil
}

func parseGeminiTopic(resp geminiResponse) string {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
}

// FallbackTopicSource 依序嘗試每個來源，返回第一個成功的主題
type FallbackTopicSource struct {
	sources []TopicSource
}

func NewFallbackTopicSource(sources ...TopicSource) *FallbackTopicSource {
	return &FallbackTopicSource{sources: lo.Filter(sources, func(s TopicSource, _ int) bool { return s != nil })}
}

func (s *FallbackTopicSource) Topic(ctx context.Context) (string, error) {
	var errs []error
	for _, src := range s.sources {
		title, err := src.Topic(ctx)
		if err == nil && strings.TrimSpace(title) != "" {
			return title, nil
		}
		if err != nil {
			log.Warn().Err(err).Str("module", "service.topic").Msg("topic source failed, trying next")
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return "", ErrTopicUnavailable
	}
	return "", fmt.Errorf("%w: %w", ErrTopicUnavailable, errors.Join(errs...))
}
