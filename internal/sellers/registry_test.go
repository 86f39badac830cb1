package sellers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoisetu/marketplace/internal/lifecycle"
)

type recordingPublisher struct {
	keys []string
}

func (p *recordingPublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	p.keys = append(p.keys, string(key))
}

func newRegistry() (*Registry, *recordingPublisher) {
	pub := &recordingPublisher{}
	return &Registry{
		Store:             NewMemoryStore(),
		SubmittedProducer: pub,
		StatusProducer:    pub,
		ServiceName:       "test",
	}, pub
}

func submitN(t *testing.T, r *Registry, n int) []Application {
	t.Helper()
	out := make([]Application, 0, n)
	for i := 0; i < n; i++ {
		app, err := r.Submit(context.Background(), SubmitInput{
			Name:     fmt.Sprintf("Seller %d", i),
			Email:    fmt.Sprintf("seller%d@example.com", i),
			Phone:    fmt.Sprintf("99999%05d", i),
			Products: []string{"potato", "onion"},
		})
		require.NoError(t, err)
		out = append(out, app)
	}
	return out
}

func TestSubmitForcesPending(t *testing.T) {
	r, pub := newRegistry()
	app, err := r.Submit(context.Background(), SubmitInput{
		Name:      "Asha Traders",
		Email:     "asha@example.com",
		Phone:     "9876543210",
		Products:  []string{"rice"},
		Documents: map[string]string{"pan": "doc-123"},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, app.Status)
	assert.Equal(t, 0, app.Rating)
	assert.NotEmpty(t, app.ID)
	assert.Len(t, pub.keys, 1)
}

func TestSubmitValidation(t *testing.T) {
	r, _ := newRegistry()
	base := SubmitInput{Name: "A", Email: "a@b.c", Phone: "1", Products: []string{"x"}}

	tests := []struct {
		name   string
		mutate func(*SubmitInput)
	}{
		{"empty name", func(in *SubmitInput) { in.Name = " " }},
		{"empty email", func(in *SubmitInput) { in.Email = "" }},
		{"empty phone", func(in *SubmitInput) { in.Phone = "" }},
		{"no products", func(in *SubmitInput) { in.Products = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			_, err := r.Submit(context.Background(), in)
			var ve *lifecycle.ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("approve then idempotent re-approve", func(t *testing.T) {
		r, _ := newRegistry()
		app := submitN(t, r, 1)[0]

		got, err := r.SetStatus(ctx, app.ID, "approved")
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, got.Status)

		// repeating the applied target is a no-op success
		got, err = r.SetStatus(ctx, app.ID, "approved")
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, got.Status)
	})

	t.Run("decision flips both ways", func(t *testing.T) {
		r, _ := newRegistry()
		app := submitN(t, r, 1)[0]

		_, err := r.SetStatus(ctx, app.ID, "rejected")
		require.NoError(t, err)
		got, err := r.SetStatus(ctx, app.ID, "approved")
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, got.Status)
		got, err = r.SetStatus(ctx, app.ID, "rejected")
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, got.Status)
	})

	t.Run("pending is not a reachable target", func(t *testing.T) {
		r, _ := newRegistry()
		app := submitN(t, r, 1)[0]
		_, err := r.SetStatus(ctx, app.ID, "pending")
		var ve *lifecycle.ValidationError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("unknown target", func(t *testing.T) {
		r, _ := newRegistry()
		app := submitN(t, r, 1)[0]
		_, err := r.SetStatus(ctx, app.ID, "banana")
		var ve *lifecycle.ValidationError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("missing id", func(t *testing.T) {
		r, _ := newRegistry()
		_, err := r.SetStatus(ctx, "nope", "approved")
		assert.ErrorIs(t, err, lifecycle.ErrNotFound)
	})
}

func TestListByStatusKeepsSubmissionOrder(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry()
	apps := submitN(t, r, 4)

	_, err := r.SetStatus(ctx, apps[1].ID, "approved")
	require.NoError(t, err)
	_, err = r.SetStatus(ctx, apps[3].ID, "approved")
	require.NoError(t, err)

	approved, err := r.ListByStatus(ctx, "approved")
	require.NoError(t, err)
	require.Len(t, approved, 2)
	assert.Equal(t, apps[1].ID, approved[0].ID)
	assert.Equal(t, apps[3].ID, approved[1].ID)

	all, err := r.ListByStatus(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = r.ListByStatus(ctx, "frozen")
	var ve *lifecycle.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry()

	st, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, st) // zero denominator -> rate 0

	apps := submitN(t, r, 5)
	for _, a := range apps[:3] {
		_, err := r.SetStatus(ctx, a.ID, "approved")
		require.NoError(t, err)
	}
	_, err = r.SetStatus(ctx, apps[3].ID, "rejected")
	require.NoError(t, err)

	st, err = r.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, st.TotalSellers)
	assert.Equal(t, 1, st.PendingApplications)
	assert.Equal(t, 3, st.ApprovedSellers)
	assert.Equal(t, 1, st.RejectedApplications)
	assert.InDelta(t, 0.75, st.ApprovalRate, 1e-9)

	// flipping a decision is reflected on the next recompute
	_, err = r.SetStatus(ctx, apps[3].ID, "approved")
	require.NoError(t, err)
	st, err = r.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, st.ApprovedSellers)
	assert.Equal(t, 0, st.RejectedApplications)
	assert.InDelta(t, 1.0, st.ApprovalRate, 1e-9)
}

func TestGetByEmail(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry()
	app := submitN(t, r, 1)[0]

	got, err := r.GetByEmail(ctx, "SELLER0@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, app.ID, got.ID)

	_, err = r.GetByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)

	_, err = r.GetByEmail(ctx, "  ")
	var ve *lifecycle.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestSetRating(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry()
	app := submitN(t, r, 1)[0]

	got, err := r.SetRating(ctx, app.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Rating)

	_, err = r.SetRating(ctx, app.ID, 11)
	var ve *lifecycle.ValidationError
	assert.True(t, errors.As(err, &ve))
}
