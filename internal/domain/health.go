package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	LatencyMs int64  `json:"latencyMs"`
}

// AccessMetrics is returned by GET /v1/admin/metrics/access.
type AccessMetrics struct {
	Render          int64            `json:"render"`
	Loading         int64            `json:"loading"`
	RedirectLogin   int64            `json:"redirectLogin"`
	RedirectHome    int64            `json:"redirectHome"`
	ScheduleChanges map[string]int64 `json:"scheduleChanges"`
	CacheHitRate    float64          `json:"cacheHitRate"`
	Period          string           `json:"period"`
}

// SuccessResponse wraps a successful single-entity response.
type SuccessResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
