package sellers

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/rasoisetu/marketplace/internal/events"
	"github.com/rasoisetu/marketplace/internal/lifecycle"
)

// Registry owns the seller-application lifecycle. All status movement goes
// through SetStatus; callers never write status fields directly.
type Registry struct {
	Store             Store
	SubmittedProducer events.Publisher // publishes seller.submitted, optional
	StatusProducer    events.Publisher // publishes seller.status, optional
	ServiceName       string
}

type SubmitInput struct {
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Products  []string          `json:"products"`
	Documents map[string]string `json:"documents"`
	// Status is deliberately absent: submissions always start pending,
	// whatever the payload claims.
}

func (r *Registry) Submit(ctx context.Context, in SubmitInput) (Application, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Application{}, lifecycle.Invalid("name", "must not be empty")
	}
	if strings.TrimSpace(in.Email) == "" {
		return Application{}, lifecycle.Invalid("email", "must not be empty")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return Application{}, lifecycle.Invalid("phone", "must not be empty")
	}
	if len(in.Products) == 0 {
		return Application{}, lifecycle.Invalid("products", "must not be empty")
	}

	app, err := r.Store.Create(ctx, Application{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Products:  in.Products,
		Documents: in.Documents,
		Status:    StatusPending,
		Rating:    0,
	})
	if err != nil {
		return Application{}, err
	}
	events.Emit(r.SubmittedProducer, events.EventSellerSubmitted, r.ServiceName, "", app.ID,
		events.SellerSubmittedPayload{SellerID: app.ID, Name: app.Name})
	return app, nil
}

func (r *Registry) Get(ctx context.Context, id string) (Application, error) {
	return r.Store.Get(ctx, id)
}

func (r *Registry) GetByEmail(ctx context.Context, email string) (Application, error) {
	if strings.TrimSpace(email) == "" {
		return Application{}, lifecycle.Invalid("email", "must not be empty")
	}
	return r.Store.GetByEmail(ctx, email)
}

// ListByStatus returns applications in submission order. status "all" or
// "" lists everything.
func (r *Registry) ListByStatus(ctx context.Context, status string) ([]Application, error) {
	if status == "" || status == "all" {
		return r.Store.List(ctx, "")
	}
	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return r.Store.List(ctx, st)
}

// SetStatus applies an admin decision. Only approved and rejected are
// reachable targets; pending is not, so nobody can be reset. Re-applying
// the current status is a no-op success so gateway retries stay safe.
func (r *Registry) SetStatus(ctx context.Context, id, target string) (Application, error) {
	to, err := ParseStatus(target)
	if err != nil {
		return Application{}, err
	}
	if to == StatusPending {
		return Application{}, lifecycle.Invalid("status", "target must be approved or rejected")
	}
	cur, err := r.Store.Get(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if cur.Status == to {
		return cur, nil
	}
	if err := Transitions.Check(cur.Status, to); err != nil {
		return Application{}, err
	}
	app, err := r.Store.UpdateStatus(ctx, id, to)
	if err != nil {
		return Application{}, err
	}
	events.Emit(r.StatusProducer, events.EventSellerStatusChanged, r.ServiceName, "", app.ID,
		events.SellerStatusPayload{SellerID: app.ID, From: string(cur.Status), To: string(to)})
	return app, nil
}

func (r *Registry) SetRating(ctx context.Context, id string, rating int) (Application, error) {
	if rating < 0 || rating > 10 {
		return Application{}, lifecycle.Invalid("rating", "must be between 0 and 10")
	}
	return r.Store.UpdateRating(ctx, id, rating)
}

// Stats recomputes from the full registry on every call. O(n) and cheap
// at admin frequency; no counters to drift.
func (r *Registry) Stats(ctx context.Context) (Stats, error) {
	counts, err := r.Store.CountByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{
		PendingApplications:  counts[StatusPending],
		ApprovedSellers:      counts[StatusApproved],
		RejectedApplications: counts[StatusRejected],
	}
	st.TotalSellers = st.PendingApplications + st.ApprovedSellers + st.RejectedApplications
	if d := st.ApprovedSellers + st.RejectedApplications; d > 0 {
		st.ApprovalRate = float64(st.ApprovedSellers) / float64(d)
	}
	return st, nil
}
