package bootstrapper

const ErrorIndexName = "transaction_error_index"

var errorIndex = map[string]interface{}{
	"settings": map[string]interface{}{
		"number_of_shards":   1,
		"number_of_replicas": 1,
	},
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"timestamp": map[string]interface{}{
				"type": "double",
			},
			"transaction_name": map[string]interface{}{
				"type": "keyword",
			},
			"type": map[string]interface{}{
				"type": "keyword",
			},
			"error_type": map[string]interface{}{
				"type": "keyword",
			},
			"message": map[string]interface{}{
				"type": "text",
			},
			"error_message": map[string]interface{}{
				"type": "text",
			},
			"expected": map[string]interface{}{
				"type": "boolean",
			},
			"stack_trace": map[string]interface{}{
				"type":  "text",
				"index": false,
			},
			"agent_attributes": map[string]interface{}{
				"type":    "object",
				"enabled": false,
			},
			"user_attributes": map[string]interface{}{
				"type":    "object",
				"enabled": false,
			},
		},
	},
}
