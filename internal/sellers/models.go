package sellers

import (
	"time"

	"github.com/rasoisetu/marketplace/internal/lifecycle"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Transitions is the authoritative seller-application table. An admin may
// flip a decision in either direction; nothing returns to pending.
var Transitions = lifecycle.Table[Status]{
	StatusPending:  {StatusApproved: true, StatusRejected: true},
	StatusApproved: {StatusRejected: true},
	StatusRejected: {StatusApproved: true},
}

// ParseStatus accepts exactly the three known statuses.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), nil
	}
	return "", lifecycle.Invalid("status", "must be one of pending, approved, rejected")
}

// Application is a seller's registration. Append-only in spirit: it is
// never deleted, only its status and rating move.
type Application struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Products  []string          `json:"products"`
	Documents map[string]string `json:"documents,omitempty"` // opaque refs, content lives elsewhere
	Status    Status            `json:"status"`
	Rating    int               `json:"rating"` // 0..10, seller-level
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Stats is derived on demand from the full registry, never from cached
// counters, so it cannot drift.
type Stats struct {
	TotalSellers         int     `json:"total_sellers"`
	PendingApplications  int     `json:"pending_applications"`
	ApprovedSellers      int     `json:"approved_sellers"`
	RejectedApplications int     `json:"rejected_applications"`
	ApprovalRate         float64 `json:"approval_rate"`
}
