package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hachiko_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// MessagesIngested counts chat messages accepted and persisted.
	MessagesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hachiko_chat_messages_ingested_total",
		Help: "Total number of chat messages accepted and persisted",
	})

	// MessagesRejected counts chat submissions rejected by pipeline stage.
	MessagesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hachiko_chat_messages_rejected_total",
		Help: "Total number of chat submissions rejected, by reason",
	}, []string{"reason"})
)
