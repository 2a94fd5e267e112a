package entity

// Plan identifiers. Free accounts are capped on snapshot generation;
// paid plans are not.
const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

// User is the owning account for stores, reports and snapshots.
// Authentication (OTP, sessions) lives in an external service; this core only
// needs the plan and the free-usage counter for quota enforcement.
type User struct {
	ID                string
	Email             string
	Plan              string
	PlanExpiresAt     *int64 // epoch ms, nil for free plan
	FreeSnapshotsUsed int
	CreatedAt         int64 // epoch ms
}

// IsFree reports whether the user is on the capped free plan.
func (u *User) IsFree() bool {
	return u.Plan == PlanFree
}
