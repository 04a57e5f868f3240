package leave

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	leavesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leave_submitted_total",
		Help: "Leave requests created.",
	})

	leaveActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_actions_total",
		Help: "Approve/reject attempts by channel, target status and outcome code.",
	}, []string{"channel", "status", "result"})
)
