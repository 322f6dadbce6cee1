package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/ezla-online/portal/internal/domain/errors"
	"github.com/ezla-online/portal/internal/domain/model"
	"github.com/ezla-online/portal/internal/domain/repository"
	"github.com/ezla-online/portal/internal/pkg/autopay"
)

// HashVerifier authenticates gateway messages.
type HashVerifier interface {
	VerifyReturnHash(serviceID, orderID, hash string) error
	VerifyWebhookHash(n model.PaymentNotification) error
}

// VisitScheduler queues a visit booking without waiting for it.
// It reports false when the job could not be queued.
type VisitScheduler interface {
	Schedule(caseID string) bool
}

// PaymentUseCase applies gateway outcomes to cases.
type PaymentUseCase struct {
	verifier  HashVerifier
	cases     repository.CaseRepository
	scheduler VisitScheduler
	lease     time.Duration
	logger    *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase. lease is the delay before the
// poller may retry a booking that the scheduled job did not finish.
func NewPaymentUseCase(verifier HashVerifier, cases repository.CaseRepository, scheduler VisitScheduler, lease time.Duration, logger *slog.Logger) *PaymentUseCase {
	return &PaymentUseCase{verifier: verifier, cases: cases, scheduler: scheduler, lease: lease, logger: logger}
}

// HandleNotification verifies an ITN message and records its outcome. A
// successful payment submits the draft and schedules the visit booking exactly
// once, no matter how often the gateway repeats the notification.
func (u *PaymentUseCase) HandleNotification(ctx context.Context, n model.PaymentNotification) (*model.Case, error) {
	if err := u.verifier.VerifyWebhookHash(n); err != nil {
		if errors.Is(err, domainErrors.ErrHashMismatch) {
			u.logger.Warn("notification rejected", slog.String("order_id", n.OrderID), slog.Any("error", err))
		}
		return nil, err
	}

	caseID := model.ExpandID(n.OrderID)
	status := autopay.MapStatus(n.PaymentStatus)
	logger := u.logger.With(slog.String("case_id", caseID), slog.String("order_id", n.OrderID))

	c, err := u.cases.UpdatePayment(ctx, caseID, status, n.RemoteID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrPaymentFinalized) {
			logger.Warn("payment already finalized, notification ignored", slog.String("status", string(status)))
		}
		return nil, err
	}
	logger.Info("payment status updated", slog.String("status", string(status)))

	if status != model.PaymentStatusSuccess {
		return c, nil
	}

	transitioned, err := u.cases.MarkSubmitted(ctx, caseID, u.lease)
	if err != nil {
		return nil, fmt.Errorf("submit case: %w", err)
	}
	if !transitioned {
		return c, nil
	}
	c.Status = model.CaseStatusSubmitted
	logger.Info("case submitted")

	if !u.scheduler.Schedule(caseID) {
		logger.Warn("visit queue is full, booking deferred to poller")
	}
	return c, nil
}

// ResolveReturn reports the payment state for the confirmation page. Only a
// valid hash yields a verified result; the fallbacks are read-only lookups.
func (u *PaymentUseCase) ResolveReturn(ctx context.Context, p model.ReturnParams) (*model.ReturnResult, error) {
	present := 0
	for _, v := range []string{p.ServiceID, p.OrderID, p.Hash} {
		if v != "" {
			present++
		}
	}

	switch {
	case present == 3:
		if err := u.verifier.VerifyReturnHash(p.ServiceID, p.OrderID, p.Hash); err != nil {
			if errors.Is(err, domainErrors.ErrHashMismatch) {
				u.logger.Warn("return redirect rejected", slog.String("order_id", p.OrderID))
			}
			return nil, err
		}
		return u.lookup(ctx, model.ExpandID(p.OrderID), model.ReturnSourceHash, true)
	case present > 0:
		return nil, domainErrors.ErrMissingParameters
	case p.CaseNumber != "":
		return &model.ReturnResult{Source: model.ReturnSourceCaseNumber, CaseNumber: p.CaseNumber}, nil
	case p.CompactID != "":
		return u.lookup(ctx, model.ExpandID(p.CompactID), model.ReturnSourceCompactID, false)
	case p.CachedCaseID != "":
		return u.lookup(ctx, model.ExpandID(p.CachedCaseID), model.ReturnSourceCachedID, false)
	default:
		return nil, domainErrors.ErrMissingParameters
	}
}

func (u *PaymentUseCase) lookup(ctx context.Context, caseID string, source model.ReturnSource, verified bool) (*model.ReturnResult, error) {
	c, err := u.cases.GetByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("lookup case %s: %w", caseID, err)
	}
	return &model.ReturnResult{
		Verified:      verified,
		Source:        source,
		CaseNumber:    c.CaseNumber,
		PaymentStatus: c.PaymentStatus,
		CaseStatus:    c.Status,
		ClearCache:    c.PaymentStatus == model.PaymentStatusSuccess,
	}, nil
}
