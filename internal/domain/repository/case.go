package repository

import (
	"context"
	"time"

	"github.com/ezla-online/portal/internal/domain/model"
)

// CaseRepository is the keyed read/update interface over sick-leave cases.
type CaseRepository interface {
	Create(ctx context.Context, c *model.Case) error
	GetByID(ctx context.Context, id string) (*model.Case, error)
	GetByNumber(ctx context.Context, number string) (*model.Case, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Case, error)

	// UpdatePayment records the gateway outcome. A terminal status is never
	// replaced by a different one: such attempts return ErrPaymentFinalized.
	UpdatePayment(ctx context.Context, id string, status model.PaymentStatus, pspRef string) (*model.Case, error)
	// MarkSubmitted moves a paid draft to submitted in one conditional update
	// and reports whether this call performed the transition. The visit
	// booking lease is set in the same statement.
	MarkSubmitted(ctx context.Context, id string, lease time.Duration) (bool, error)

	SelectBatchForVisitBooking(ctx context.Context, limit int, lease time.Duration) ([]model.Case, error)
	// ClaimVisit locks a submitted case without a visit for one booking
	// attempt. It reports false while another attempt holds the lock.
	ClaimVisit(ctx context.Context, id string, lease time.Duration) (bool, error)
	SetVisit(ctx context.Context, id string, visit model.Visit) error
	MarkVisitFailed(ctx context.Context, id string, reason string, retryAt *time.Time) error
}
