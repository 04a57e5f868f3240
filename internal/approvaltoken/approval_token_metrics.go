package approvaltoken

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tokensMinted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "approval_tokens_minted_total",
		Help: "Approval tokens minted, by action.",
	}, []string{"action"})

	tokensConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "approval_tokens_consumed_total",
		Help: "Consume attempts, by result (won, lost).",
	}, []string{"result"})

	tokensRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "approval_tokens_revoked_total",
		Help: "Approval tokens revoked after a leave was resolved.",
	})

	tokensSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "approval_tokens_swept_total",
		Help: "Expired approval tokens deleted by the sweeper.",
	})
)
