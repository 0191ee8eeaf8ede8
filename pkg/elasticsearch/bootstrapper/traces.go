package bootstrapper

const TraceIndexName = "transaction_trace_index"

var traceIndex = map[string]interface{}{
	"settings": map[string]interface{}{
		"number_of_shards":   1,
		"number_of_replicas": 1,
	},
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"metric_name": map[string]interface{}{
				"type": "keyword",
			},
			"request_url": map[string]interface{}{
				"type": "keyword",
			},
			"duration": map[string]interface{}{
				"type": "double",
			},
			"start_time": map[string]interface{}{
				"type": "date",
				"format": "epoch_millis",
			},
			"root": map[string]interface{}{
				"type":    "object",
				"enabled": false,
			},
		},
	},
}
