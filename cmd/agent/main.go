package main

import (
	"net/http"
	"os"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/dgraph-io/ristretto"
	"github.com/elastic/go-elasticsearch/v8"
	finchConfig "github.com/finchapm/finch/config"
	esBootstrapper "github.com/finchapm/finch/pkg/elasticsearch/bootstrapper"
	esClient "github.com/finchapm/finch/pkg/elasticsearch/client"
	"github.com/finchapm/finch/pkg/harvest"
	"github.com/finchapm/finch/pkg/idgen"
	"github.com/finchapm/finch/pkg/metrics"
	"github.com/finchapm/finch/pkg/server/router"
	txModel "github.com/finchapm/finch/pkg/transaction/model"
	"github.com/finchapm/finch/pkg/transaction/service"
	"github.com/finchapm/finch/pkg/write_buffer"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	protoTrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := finchConfig.LoadConfig(os.Getenv("FINCH_CONFIG_PATH"))
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	bus := EventBus.New()
	aggregator := metrics.NewPrometheusAggregator(metrics.NewMemoryAggregator())

	busHarvester := harvest.NewBusHarvester(bus, logger)
	completeService := service.NewCompleteService(
		service.NewTimeNormalizerService(logger),
		service.NewTreeBuilderService(logger),
		service.NewSpanService(idgen.NewHashGenerator(), logger),
		service.NewApdexService(service.StaticThreshold(cfg.ApdexT)),
		service.NewErrorService(service.DefaultErrorNormalizer{}, aggregator, logger),
		busHarvester.Harvesters(),
		aggregator,
		logger,
	)

	if cfg.Elasticsearch.Enabled {
		es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: cfg.Elasticsearch.Addresses})
		if err != nil {
			logger.Fatal("Failed to create elasticsearch client", zap.Error(err))
		}
		bs := esBootstrapper.NewBootstrapper(es, logger)
		if err := bs.BootstrapElasticsearch(); err != nil {
			logger.Fatal("Failed to bootstrap elasticsearch", zap.Error(err))
		}

		ac := esClient.NewArchiveClientImpl(es, esClient.Async)
		buffers := harvest.ArchiveBuffers{
			Events: write_buffer.NewArchiveWriteBufferImpl[txModel.TransactionEvent](
				ac, esBootstrapper.EventIndexName, logger),
			Traces: write_buffer.NewArchiveWriteBufferImpl[txModel.TransactionTrace](
				ac, esBootstrapper.TraceIndexName, logger),
			ErrorTraces: write_buffer.NewArchiveWriteBufferImpl[txModel.ErrorTrace](
				ac, esBootstrapper.ErrorIndexName, logger),
			ErrorEvents: write_buffer.NewArchiveWriteBufferImpl[txModel.ErrorEvent](
				ac, esBootstrapper.ErrorIndexName, logger),
		}
		if err := harvest.SubscribeArchive(bus, buffers, logger); err != nil {
			logger.Fatal("Failed to subscribe trace archive", zap.Error(err))
		}
	}

	conn, err := grpc.NewClient(cfg.Collector.Endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Fatal("Failed to connect to collector", zap.Error(err))
	}
	defer conn.Close()

	spanCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: (1 << 20) * 10,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		logger.Fatal("Failed to create span cache", zap.Error(err))
	}
	exporter := harvest.NewSpanExporter(
		protoTrace.NewTraceServiceClient(conn),
		harvest.NewSpanWriteBehindCacheImpl(spanCache),
		cfg.Collector.ServiceName,
		logger,
	)
	exporterCleanup, err := harvest.SubscribeSpanExporter(
		bus,
		exporter,
		time.Duration(cfg.Collector.FlushSecs)*time.Second,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to subscribe span exporter", zap.Error(err))
	}
	defer exporterCleanup()

	go func() {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(cfg.MetricsAddr, metricsMux); err != nil {
			logger.Error("Metrics server stopped", zap.Error(err))
		}
	}()

	r := router.CreateRouter(completeService, logger)
	logger.Info("Finalization ingest started", zap.String("addr", cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		logger.Fatal("Failed to serve", zap.Error(err))
	}
}
