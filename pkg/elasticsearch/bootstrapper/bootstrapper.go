package bootstrapper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

const retries = 30
const waitTime = 5

type Bootstrapper struct {
	esClient *elasticsearch.Client
	logger   *zap.Logger
}

func NewBootstrapper(esClient *elasticsearch.Client, logger *zap.Logger) *Bootstrapper {
	return &Bootstrapper{
		esClient: esClient,
		logger:   logger,
	}
}

func (bs *Bootstrapper) BootstrapElasticsearch() error {
	if err := bs.waitForElasticsearch(retries, waitTime*time.Second); err != nil {
		return fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}

	if err := bs.createIndex(TraceIndexName, traceIndex); err != nil {
		return fmt.Errorf("error creating transaction trace index: %w", err)
	}

	if err := bs.createIndex(EventIndexName, eventIndex); err != nil {
		return fmt.Errorf("error creating transaction event index: %w", err)
	}

	if err := bs.createIndex(ErrorIndexName, errorIndex); err != nil {
		return fmt.Errorf("error creating error index: %w", err)
	}

	return nil
}

func (bs *Bootstrapper) waitForElasticsearch(maxRetries int, delay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		res, err := bs.esClient.Info()
		if err == nil && res.StatusCode == 200 {
			bs.logger.Info("Elasticsearch is available")
			return nil
		}
		bs.logger.Warn(fmt.Sprintf("Elasticsearch not available (attempt %d/%d), retrying...", i+1, maxRetries))

		time.Sleep(delay)
	}

	return fmt.Errorf("Elasticsearch is not available after %d attempts", maxRetries)
}

func (bs *Bootstrapper) createIndex(indexName string, mapping map[string]interface{}) error {
	exists, err := bs.esClient.Indices.Exists([]string{indexName})
	if err != nil {
		return fmt.Errorf("error checking whether index %s exists: %w", indexName, err)
	}
	defer exists.Body.Close()
	if exists.StatusCode == 200 {
		bs.logger.Info("Index already exists", zap.String("index", indexName))
		return nil
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("error marshaling mapping for index %s: %w", indexName, err)
	}
	res, err := bs.esClient.Indices.Create(
		indexName,
		bs.esClient.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return fmt.Errorf("error creating index %s: %w", indexName, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("error response creating index %s: %s", indexName, res.String())
	}
	bs.logger.Info("Created index", zap.String("index", indexName))
	return nil
}
