package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/pkg/entities"
)

const sessionMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "long" },
			"round_id": { "type": "keyword" },
			"player_id": { "type": "long" },
			"player_name": { "type": "keyword" },
			"dealer_value": { "type": "integer" },
			"player_value": { "type": "integer" },
			"outcome": { "type": "keyword" },
			"blackjack": { "type": "boolean" },
			"bet": { "type": "long" },
			"payout": { "type": "long" },
			"balance_after": { "type": "long" },
			"timestamp": { "type": "date" }
		}
	}
}`

const (
	searchPageSize  = 500
	maxResultWindow = 10000 // index.max_result_window default, the deepest from+size allows
)

// ElasticsearchConfig holds connection settings for the search mirror
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
	Transport   http.RoundTripper // optional, for tests
}

// ElasticsearchRepository mirrors every session into an Elasticsearch index.
// The base repository stays the source of truth: writes go there first and
// reads are served from it. Only SearchPlayerSessions queries the index.
type ElasticsearchRepository struct {
	baseRepo Repository
	client   *elasticsearch.Client
	index    string
	pageSize int
	logger   *logging.Logger
}

// NewElasticsearchRepository wraps baseRepo and creates the session index if missing
func NewElasticsearchRepository(ctx context.Context, baseRepo Repository, config ElasticsearchConfig, logger *logging.Logger) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
		Transport: config.Transport,
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	prefix := config.IndexPrefix
	if prefix == "" {
		prefix = "blackjack"
	}
	if logger == nil {
		logger = logging.Discard()
	}

	repo := &ElasticsearchRepository{
		baseRepo: baseRepo,
		client:   client,
		index:    prefix + "_sessions",
		pageSize: searchPageSize,
		logger:   logger,
	}
	if err := repo.initIndex(ctx); err != nil {
		return nil, fmt.Errorf("error initializing index: %w", err)
	}
	return repo, nil
}

// Index returns the name of the session index
func (r *ElasticsearchRepository) Index() string {
	return r.index
}

func (r *ElasticsearchRepository) initIndex(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.index}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking if session index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		return nil
	}

	req := esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  bytes.NewReader([]byte(sessionMapping)),
	}
	res, err = req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error creating session index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating session index: %s", res.String())
	}
	r.logger.Info("[ES] Created index %s", r.index)
	return nil
}

// AppendSession writes to the base repository, then indexes the stored session.
// An indexing failure is logged and does not fail the write.
func (r *ElasticsearchRepository) AppendSession(ctx context.Context, session *entities.GameSession) error {
	if err := r.baseRepo.AppendSession(ctx, session); err != nil {
		return err
	}

	if err := r.IndexSession(ctx, session); err != nil {
		r.logger.Warn("[ES] Could not index session %d: %v", session.ID, err)
	}
	return nil
}

// IndexSession puts one session document into the index, keyed by session ID
func (r *ElasticsearchRepository) IndexSession(ctx context.Context, session *entities.GameSession) error {
	body, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("error marshaling session: %w", err)
	}

	res, err := r.client.Index(
		r.index,
		bytes.NewReader(body),
		r.client.Index.WithContext(ctx),
		r.client.Index.WithDocumentID(strconv.FormatInt(session.ID, 10)),
		r.client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("error indexing session: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing session: %s", res.String())
	}
	return nil
}

// Reindex re-puts the latest limit sessions from the base repository into the index.
// Documents are keyed by session ID, so sessions already indexed are overwritten unchanged.
func (r *ElasticsearchRepository) Reindex(ctx context.Context, limit int) (int, error) {
	sessions, err := r.baseRepo.ListSessions(ctx, limit)
	if err != nil {
		return 0, err
	}

	indexed := 0
	var errs []error
	for _, session := range sessions {
		if err := r.IndexSession(ctx, session); err != nil {
			errs = append(errs, fmt.Errorf("session %d: %w", session.ID, err))
			continue
		}
		indexed++
	}
	r.logger.Debug("[ES] Reindexed %d of %d sessions", indexed, len(sessions))
	return indexed, errors.Join(errs...)
}

// ListSessions reads from the base repository
func (r *ElasticsearchRepository) ListSessions(ctx context.Context, limit int) ([]*entities.GameSession, error) {
	return r.baseRepo.ListSessions(ctx, limit)
}

// ListPlayerSessions reads from the base repository
func (r *ElasticsearchRepository) ListPlayerSessions(ctx context.Context, playerID int64, limit int) ([]*entities.GameSession, error) {
	return r.baseRepo.ListPlayerSessions(ctx, playerID, limit)
}

// SearchPlayerSessions finds a player's sessions in the index by name, optionally
// filtered to one outcome, newest first. A limit <= 0 pages through every match.
func (r *ElasticsearchRepository) SearchPlayerSessions(ctx context.Context, playerName string, outcome entities.Outcome, limit int) ([]*entities.GameSession, error) {
	filters := []map[string]interface{}{
		{"term": map[string]interface{}{"player_name": playerName}},
	}
	if outcome != "" {
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"outcome": string(outcome)}})
	}
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filters},
		},
		"sort": []map[string]interface{}{
			{"timestamp": map[string]interface{}{"order": "desc"}},
			{"id": map[string]interface{}{"order": "desc"}},
		},
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("error building session query: %w", err)
	}

	if limit > 0 {
		return r.searchPage(ctx, body, 0, limit)
	}

	sessions := make([]*entities.GameSession, 0)
	for from := 0; from < maxResultWindow; from += r.pageSize {
		size := min(r.pageSize, maxResultWindow-from)
		page, err := r.searchPage(ctx, body, from, size)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, page...)
		if len(page) < size {
			return sessions, nil
		}
	}
	r.logger.Warn("[ES] Search for %s stopped at %d sessions", playerName, len(sessions))
	return sessions, nil
}

func (r *ElasticsearchRepository) searchPage(ctx context.Context, query []byte, from, size int) ([]*entities.GameSession, error) {
	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(query)),
		r.client.Search.WithFrom(from),
		r.client.Search.WithSize(size),
	)
	if err != nil {
		return nil, fmt.Errorf("error searching sessions: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching sessions: %s", res.String())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source entities.GameSession `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing session results: %w", err)
	}

	sessions := make([]*entities.GameSession, 0, len(result.Hits.Hits))
	for i := range result.Hits.Hits {
		sessions = append(sessions, &result.Hits.Hits[i].Source)
	}
	return sessions, nil
}
