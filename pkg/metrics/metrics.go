package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Server Metrics

	// APIRequestsTotal API请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// APIRequestDuration API请求处理时长
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Workflow Metrics

	// WorkflowTransitionsTotal 提案流转次数，result=applied/denied
	WorkflowTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_transitions_total",
			Help: "Total number of proposal workflow transitions",
		},
		[]string{"operation", "result"},
	)

	// ProposalsFinalizedTotal 进入终态的提案数
	ProposalsFinalizedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proposals_finalized_total",
			Help: "Total number of proposals reaching a terminal status",
		},
		[]string{"status"},
	)
)
