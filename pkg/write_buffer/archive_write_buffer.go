package write_buffer

import (
	"context"
	"fmt"
	"sync"
	"time"

	finchElasticsearch "github.com/finchapm/finch/pkg/elasticsearch/client"
	"go.uber.org/zap"
)

const WriteQueueSize = 30
const flushTimeOut = 10 * time.Second

// ArchiveWriteBuffer batches finalized telemetry documents and bulk-indexes
// them once the queue grows past WriteQueueSize.
type ArchiveWriteBuffer[ValueType any] interface {
	WriteToBuffer(value []ValueType)
}

type ArchiveWriteBufferImpl[ValueType interface{}] struct {
	writeQueue  []ValueType
	ac          finchElasticsearch.ArchiveClient
	esIndexName string
	logger      *zap.Logger
	mu          sync.Mutex
}

func NewArchiveWriteBufferImpl[ValueType interface{}](
	ac finchElasticsearch.ArchiveClient,
	esIndexName string,
	logger *zap.Logger,
) *ArchiveWriteBufferImpl[ValueType] {
	return &ArchiveWriteBufferImpl[ValueType]{
		writeQueue:  []ValueType{},
		ac:          ac,
		esIndexName: esIndexName,
		logger:      logger,
	}
}

func (wb *ArchiveWriteBufferImpl[ValueType]) WriteToBuffer(
	value []ValueType,
) {
	wb.mu.Lock()
	wb.writeQueue = append(wb.writeQueue, value...)
	size := len(wb.writeQueue)
	wb.mu.Unlock()
	if size > WriteQueueSize {
		go func() {
			err := wb.flushToElasticsearch()
			if err != nil {
				wb.logger.Error("Failed to flush to Elasticsearch", zap.Error(err))
			}
		}()
	}
}

func (wb *ArchiveWriteBufferImpl[ValueType]) flushToElasticsearch() error {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	ctx := context.Background()
	bulkCtx, cancel := context.WithTimeout(ctx, flushTimeOut)
	defer cancel()
	metaMap, dataMap, err := finchElasticsearch.ToMetaAndDataMap(wb.writeQueue)
	if err != nil {
		return fmt.Errorf("error converting write queue to meta and data map: %w", err)
	}
	if len(metaMap) == 0 {
		wb.writeQueue = []ValueType{}
		return nil
	}
	err = wb.ac.BulkIndex(
		bulkCtx,
		metaMap,
		dataMap,
		wb.esIndexName,
	)
	wb.writeQueue = []ValueType{}
	if err != nil {
		return fmt.Errorf("error bulk indexing to Elasticsearch: %w", err)
	}
	return nil
}
