package elastic

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	es8 "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

var DebugLog func(string, ...interface{})

type Config struct {
	URL      string
	Username string
	Password string
	Index    string
}

type Client struct {
	es    *es8.Client
	index string
}

func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("elasticsearch url is required")
	}
	index := cfg.Index
	if index == "" {
		index = "armorytune_eval"
	}

	es, err := es8.NewClient(es8.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	res, err := es.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch info request failed: %s", res.String())
	}

	return &Client{es: es, index: index}, nil
}

// IndexJSONLinesFile bulk-indexes a JSONL file of evaluation results,
// one document per line.
func (c *Client) IndexJSONLinesFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         c.index,
		Client:        c.es,
		NumWorkers:    4,
		FlushInterval: 5 * time.Second,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		doc := make([]byte, len(line))
		copy(doc, line)

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action: "index",
			Body:   bytes.NewReader(doc),
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if DebugLog != nil {
					if err != nil {
						DebugLog("bulk index error: %v", err)
					} else {
						DebugLog("bulk index failure: %s: %s", res.Error.Type, res.Error.Reason)
					}
				}
			},
		})
		if err != nil {
			return count, fmt.Errorf("failed to add document: %w", err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := bi.Close(ctx); err != nil {
		return count, fmt.Errorf("failed to flush bulk indexer: %w", err)
	}

	stats := bi.Stats()
	if stats.NumFailed > 0 {
		return count, fmt.Errorf("indexed %d documents with %d failures", stats.NumFlushed, stats.NumFailed)
	}

	return count, nil
}
