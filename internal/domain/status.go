package domain

// ExcludedOrderStatuses is the fixed denylist of order statuses that are left out
// of every sales aggregation. Platforms report these in Arabic ("cancelled",
// "deleted"). Every query that sums sales must use this slice; duplicating the
// literal at call sites lets the metrics drift between endpoints.
var ExcludedOrderStatuses = []string{"ملغي", "محذوف"}
