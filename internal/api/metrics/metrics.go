// Package metrics defines and registers the custom Prometheus metrics of the
// HR service. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default registry on package init via
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hr"

// ── Attendance ────────────────────────────────────────────────────────────────

// AttendanceMarksTotal counts successful attendance marks.
// Label:
//   - status: "Present" or "Absent"
var AttendanceMarksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_marks_total",
		Help:      "Total number of attendance entries recorded, by status.",
	},
	[]string{"status"},
)

// ── Leaves ────────────────────────────────────────────────────────────────────

var LeavesAppliedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leaves_applied_total",
		Help:      "Total number of leave requests filed.",
	},
)

// LeaveApplyRejectedTotal counts leave applications refused by the service.
// Label:
//   - reason: the error kind (e.g. "precondition_failed", "not_found")
var LeaveApplyRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leave_apply_rejected_total",
		Help:      "Total number of leave applications rejected, by reason.",
	},
	[]string{"reason"},
)

// LeaveTransitionsTotal counts applied status transitions.
// Label:
//   - status: the new status ("Approved" or "Rejected")
var LeaveTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leave_transitions_total",
		Help:      "Total number of leave status transitions, by resulting status.",
	},
	[]string{"status"},
)

// ── Blob storage ──────────────────────────────────────────────────────────────

// BlobOperationsTotal counts calls to the document store.
// Labels:
//   - op: "upload", "release" or "presign"
//   - result: "ok" or "error"
var BlobOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blob_operations_total",
		Help:      "Total number of document store operations, by operation and result.",
	},
	[]string{"op", "result"},
)

// ReleaseQueueDroppedTotal counts orphaned objects that could not be queued
// for release because the worker channel was full.
var ReleaseQueueDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "release_queue_dropped_total",
		Help:      "Total number of deferred blob releases dropped on a full queue.",
	},
)

// ReleaseQueueDepth tracks pending deferred releases per worker.
// Label:
//   - worker_id: numeric worker index
var ReleaseQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "release_queue_depth",
		Help:      "Current number of deferred releases pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// BlobOpResult returns the result label for err.
func BlobOpResult(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
