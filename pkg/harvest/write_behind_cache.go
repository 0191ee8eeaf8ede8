package harvest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/ristretto"
	"github.com/finchapm/finch/pkg/transaction/model"
)

// SpanWriteBehindCache buffers derived span events per trace id ahead of
// export. The ristretto cache keeps recently seen traces queryable while the
// write queue holds everything not yet drained to the exporter.
type SpanWriteBehindCache interface {
	Get(traceID string) ([]model.SpanEvent, error)
	Put(traceID string, spans []model.SpanEvent) error
	Drain() map[string][]model.SpanEvent
}

type SpanWriteBehindCacheImpl struct {
	cache      *ristretto.Cache
	writeQueue map[string][]model.SpanEvent
	mu         sync.Mutex
}

func NewSpanWriteBehindCacheImpl(cache *ristretto.Cache) *SpanWriteBehindCacheImpl {
	return &SpanWriteBehindCacheImpl{
		cache:      cache,
		writeQueue: make(map[string][]model.SpanEvent),
	}
}

func (wbc *SpanWriteBehindCacheImpl) Get(traceID string) ([]model.SpanEvent, error) {
	value, found := wbc.cache.Get(traceID)
	if !found {
		return nil, ErrKeyNotFound
	}
	typedValue, ok := value.([]model.SpanEvent)
	if !ok {
		return nil, fmt.Errorf("value not of expected type %T returned from cache when getting", value)
	}
	return typedValue, nil
}

func (wbc *SpanWriteBehindCacheImpl) Put(traceID string, spans []model.SpanEvent) error {
	wbc.mu.Lock()
	wbc.writeQueue[traceID] = append(wbc.writeQueue[traceID], spans...)
	wbc.mu.Unlock()

	oldValue, found := wbc.cache.Get(traceID)
	if found {
		typedOldValue, ok := oldValue.([]model.SpanEvent)
		if !ok {
			return fmt.Errorf("value not of expected type %T returned from cache when putting", oldValue)
		}
		totalValue := append(typedOldValue, spans...)
		set := wbc.cache.Set(traceID, totalValue, int64(len(totalValue)))
		if !set {
			return ErrSetFailed
		}
	} else {
		set := wbc.cache.Set(traceID, spans, int64(len(spans)))
		if !set {
			return ErrSetFailed
		}
	}
	return nil
}

// Drain hands the buffered spans to the caller and resets the write queue.
// The cache itself keeps its entries for lookup.
func (wbc *SpanWriteBehindCacheImpl) Drain() map[string][]model.SpanEvent {
	wbc.mu.Lock()
	defer wbc.mu.Unlock()
	drained := wbc.writeQueue
	wbc.writeQueue = make(map[string][]model.SpanEvent)
	return drained
}

var (
	ErrKeyNotFound = errors.New("key not found within the cache")
	ErrSetFailed   = errors.New("failed to set value in cache")
)
