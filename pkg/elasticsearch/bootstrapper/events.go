package bootstrapper

const EventIndexName = "transaction_event_index"

var eventIndex = map[string]interface{}{
	"settings": map[string]interface{}{
		"number_of_shards":   1,
		"number_of_replicas": 1,
	},
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"timestamp": map[string]interface{}{
				"type":   "date",
				"format": "epoch_millis",
			},
			"name": map[string]interface{}{
				"type": "keyword",
			},
			"duration": map[string]interface{}{
				"type": "double",
			},
			"attributes": map[string]interface{}{
				"type":    "object",
				"enabled": false,
			},
		},
	},
}
