// Package indexer stores call documents in OpenSearch, one index per day.
package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	opensearch "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/trunk-indexer/internal/call"
)

// callMapping indexes the detected location as a geo_point so documents can
// be queried by distance.
const callMapping = `{
	"mappings": {
		"properties": {
			"location": {"type": "geo_point"}
		}
	}
}`

// Options configures the indexer.
type Options struct {
	Addresses []string
	Username  string
	Password  string
	// IndexPattern is a Go time layout applied to each call's creation
	// time, such as "trunk-calls-2006.01.02".
	IndexPattern string
	// RatePerSec and RateBurst bound write throughput. Zero means 20/s.
	RatePerSec float64
	RateBurst  int
}

// Indexer writes call documents to OpenSearch. Safe for concurrent use.
type Indexer struct {
	client  *opensearch.Client
	pattern string
	limiter *rate.Limiter

	mu      sync.Mutex
	created map[string]bool
}

// New connects to OpenSearch and verifies the cluster is reachable.
func New(ctx context.Context, opts Options) (*Indexer, error) {
	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: opts.Addresses,
		Username:  opts.Username,
		Password:  opts.Password,
	})
	if err != nil {
		return nil, eris.Wrap(err, "indexer: create client")
	}

	resp, err := opensearchapi.InfoRequest{}.Do(ctx, client)
	if err != nil {
		return nil, eris.Wrap(err, "indexer: cannot connect to opensearch")
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.IsError() {
		return nil, eris.Errorf("indexer: opensearch info: %s", resp.String())
	}

	perSec := opts.RatePerSec
	if perSec <= 0 {
		perSec = 20
	}
	burst := opts.RateBurst
	if burst <= 0 {
		burst = int(perSec) * 2
	}

	pattern := opts.IndexPattern
	if pattern == "" {
		pattern = "trunk-calls-2006.01.02"
	}

	return &Indexer{
		client:  client,
		pattern: pattern,
		limiter: rate.NewLimiter(rate.Limit(perSec), burst),
		created: make(map[string]bool),
	}, nil
}

// Put stores one call and returns the index it landed in. Calls without a
// key get a generated document id.
func (i *Indexer) Put(ctx context.Context, c *call.Call) (string, error) {
	if err := i.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "indexer: rate limit")
	}

	index := c.Created().Format(i.pattern)
	if err := i.ensureIndex(ctx, index); err != nil {
		return "", err
	}

	doc, err := json.Marshal(c.Document())
	if err != nil {
		return "", eris.Wrapf(err, "indexer: encode call %s", c.Key)
	}

	id := c.Key
	if id == "" {
		id = uuid.NewString()
	}

	resp, err := opensearchapi.IndexRequest{
		Index:      index,
		DocumentID: id,
		Body:       bytes.NewReader(doc),
	}.Do(ctx, i.client)
	if err != nil {
		return "", eris.Wrapf(err, "indexer: store call %s", id)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.IsError() {
		return "", eris.Errorf("indexer: store call %s: %s", id, resp.String())
	}

	zap.L().Debug("call indexed", zap.String("index", index), zap.String("id", id))
	return index, nil
}

// ensureIndex creates the daily index with the call mapping. Racing another
// writer is fine; resource_already_exists_exception reads as success.
func (i *Indexer) ensureIndex(ctx context.Context, index string) error {
	i.mu.Lock()
	done := i.created[index]
	i.mu.Unlock()
	if done {
		return nil
	}

	resp, err := opensearchapi.IndicesCreateRequest{
		Index: index,
		Body:  strings.NewReader(callMapping),
	}.Do(ctx, i.client)
	if err != nil {
		return eris.Wrapf(err, "indexer: create index %s", index)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.IsError() {
		body, _ := io.ReadAll(resp.Body)
		if !strings.Contains(string(body), "resource_already_exists_exception") {
			return eris.Errorf("indexer: create index %s: %s", index, string(body))
		}
	}

	i.mu.Lock()
	i.created[index] = true
	i.mu.Unlock()
	return nil
}
