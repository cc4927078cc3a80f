package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debate_room/pkg/config"
)

func TestStaticTopicSource(t *testing.T) {
	req := require.New(t)

	title, err := NewStaticTopicSource(DefaultTopics).Topic(context.Background())
	req.NoError(err)
	req.Contains(DefaultTopics, title)

	_, err = NewStaticTopicSource(nil).Topic(context.Background())
	req.ErrorIs(err, ErrTopicUnavailable)
}

func TestCatalogTopicSource_SeedOnlyWhenEmpty(t *testing.T) {
	req := require.New(t)
	repo := &fakeTopicRepo{}
	source := NewCatalogTopicSource(repo)

	req.NoError(source.Seed(context.Background(), DefaultTopics))
	req.Equal(DefaultTopics, repo.Titles())

	// second seed is a no-op
	req.NoError(source.Seed(context.Background(), []string{"Other?"}))
	req.Len(repo.Titles(), len(DefaultTopics))

	title, err := source.Topic(context.Background())
	req.NoError(err)
	req.Contains(DefaultTopics, title)
}

func TestCatalogTopicSource_EmptyOrBroken(t *testing.T) {
	req := require.New(t)

	_, err := NewCatalogTopicSource(&fakeTopicRepo{}).Topic(context.Background())
	req.ErrorIs(err, ErrTopicUnavailable)

	_, err = NewCatalogTopicSource(&fakeTopicRepo{err: errStoreDown}).Topic(context.Background())
	req.ErrorIs(err, errStoreDown)
}

func geminiServer(t *testing.T, status int, text string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get(geminiKeyHeader))
		assert.Empty(t, r.URL.RawQuery)

		var body geminiRequest
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			assert.Equal(t, topicPrompt, body.Contents[0].Parts[0].Text)
		}

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeminiTopicSource_SavesGeneratedTopic(t *testing.T) {
	req := require.New(t)
	srv := geminiServer(t, http.StatusOK, "  Should cities ban cars  \n")
	catalog := &fakeTopicRepo{}
	source := NewGeminiTopicSource(srv.Client(), srv.URL, "secret", catalog)

	title, err := source.Topic(context.Background())

	req.NoError(err)
	req.Equal("Should cities ban cars?", title)
	req.Equal([]string{"Should cities ban cars?"}, catalog.Titles())
}

func TestGeminiTopicSource_CatalogFailureDoesNotFailTopic(t *testing.T) {
	req := require.New(t)
	srv := geminiServer(t, http.StatusOK, "Is homework useful?")
	source := NewGeminiTopicSource(srv.Client(), srv.URL, "secret", &fakeTopicRepo{err: errStoreDown})

	title, err := source.Topic(context.Background())

	req.NoError(err)
	req.Equal("Is homework useful?", title)
}

func TestGeminiTopicSource_Errors(t *testing.T) {
	req := require.New(t)

	srv := geminiServer(t, http.StatusInternalServerError, "ignored")
	_, err := NewGeminiTopicSource(srv.Client(), srv.URL, "secret", nil).Topic(context.Background())
	req.Error(err)

	empty := geminiServer(t, http.StatusOK, "   ")
	_, err = NewGeminiTopicSource(empty.Client(), empty.URL, "secret", nil).Topic(context.Background())
	req.ErrorIs(err, ErrTopicUnavailable)
}

func TestGeminiTopicSource_KeyNeverInErrors(t *testing.T) {
	req := require.New(t)
	// nothing listens on port 1
	source := NewGeminiTopicSource(&http.Client{Timeout: time.Second}, "http://127.0.0.1:1/generate", "SUPERSECRET", nil)

	_, err := source.Topic(context.Background())
	req.Error(err)
	req.NotContains(err.Error(), "SUPERSECRET")

	_, err = NewFallbackTopicSource(source).Topic(context.Background())
	req.ErrorIs(err, ErrTopicUnavailable)
	req.NotContains(err.Error(), "SUPERSECRET")
}

func TestGeminiTopicSource_RespectsContext(t *testing.T) {
	req := require.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewGeminiTopicSource(srv.Client(), srv.URL, "secret", nil).Topic(ctx)

	req.ErrorIs(err, context.DeadlineExceeded)
}

func TestFallbackTopicSource(t *testing.T) {
	req := require.New(t)
	boom := errors.New("boom")
	failing := TopicSourceFunc(func(context.Context) (string, error) { return "", boom })
	blank := TopicSourceFunc(func(context.Context) (string, error) { return "  ", nil })

	title, err := NewFallbackTopicSource(nil, failing, blank, fixedTopic("Last?")).Topic(context.Background())
	req.NoError(err)
	req.Equal("Last?", title)

	_, err = NewFallbackTopicSource(failing).Topic(context.Background())
	req.ErrorIs(err, ErrTopicUnavailable)
	req.ErrorIs(err, boom)

	_, err = NewFallbackTopicSource(blank).Topic(context.Background())
	req.ErrorIs(err, ErrTopicUnavailable)
}

func TestNewTopicSource_SeedsCatalog(t *testing.T) {
	req := require.New(t)
	repos := newFakeRepos()

	source := newTopicSource(context.Background(), config.TopicConfig{AIEnabled: true}, repos.Repositories())
	title, err := source.Topic(context.Background())

	req.NoError(err)
	req.Contains(DefaultTopics, title)
	req.Equal(DefaultTopics, repos.topics.Titles())
}
