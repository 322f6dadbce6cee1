package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ezla-online/portal/internal/adapter/archive"
	"github.com/ezla-online/portal/internal/adapter/mailer"
	"github.com/ezla-online/portal/internal/adapter/med24"
	"github.com/ezla-online/portal/internal/config"
	"github.com/ezla-online/portal/internal/domain/model"
	"github.com/ezla-online/portal/internal/domain/repository"
	"github.com/ezla-online/portal/internal/pkg/summary"
)

const maxRetryDelay = time.Hour

// VisitUseCase forwards submitted cases to the telemedicine platform.
type VisitUseCase struct {
	cases    repository.CaseRepository
	profiles repository.ProfileRepository
	client   med24.Client
	archive  archive.Archive
	mailer   mailer.Mailer
	cfg      config.VisitConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewVisitUseCase constructs VisitUseCase.
func NewVisitUseCase(
	cases repository.CaseRepository,
	profiles repository.ProfileRepository,
	client med24.Client,
	store archive.Archive,
	sender mailer.Mailer,
	cfg config.VisitConfig,
	logger *slog.Logger,
) *VisitUseCase {
	return &VisitUseCase{
		cases:    cases,
		profiles: profiles,
		client:   client,
		archive:  store,
		mailer:   sender,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Book registers the visit for a submitted case. Cases that already have a
// visit, were not submitted or are held by another booking attempt are
// skipped. A failed attempt is recorded with its retry schedule and returned;
// its lock is kept until the lease runs out.
func (u *VisitUseCase) Book(ctx context.Context, caseID string) error {
	c, err := u.cases.GetByID(ctx, caseID)
	if err != nil {
		return fmt.Errorf("load case: %w", err)
	}
	if c.VisitID != nil || c.Status != model.CaseStatusSubmitted {
		return nil
	}
	claimed, err := u.cases.ClaimVisit(ctx, c.ID, u.cfg.Lease)
	if err != nil {
		return fmt.Errorf("claim case: %w", err)
	}
	if !claimed {
		u.logger.Debug("visit booking already in progress", slog.String("case_id", c.ID))
		return nil
	}

	p, err := u.profiles.GetByID(ctx, c.ProfileID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	visit, err := u.client.CreateVisit(ctx, model.VisitRequest{ExternalTag: c.CaseNumber, Patient: *p})
	if err != nil {
		return u.recordFailure(ctx, c, err)
	}
	if err := u.cases.SetVisit(ctx, c.ID, *visit); err != nil {
		return fmt.Errorf("store visit: %w", err)
	}
	u.logger.Info("visit booked", slog.String("case_id", c.ID), slog.String("visit_id", visit.ID))

	u.afterBooking(ctx, c, p)
	return nil
}

func (u *VisitUseCase) recordFailure(ctx context.Context, c *model.Case, cause error) error {
	attempt := c.VisitAttempts + 1
	var retryAt *time.Time
	if u.cfg.MaxAttempts <= 0 || attempt < u.cfg.MaxAttempts {
		delay := u.RetryDelay(attempt)
		var tm med24.TooManyRequestsError
		if errors.As(cause, &tm) && tm.RetryAfter > delay {
			delay = tm.RetryAfter
		}
		at := u.now().Add(delay)
		retryAt = &at
	}

	if err := u.cases.MarkVisitFailed(ctx, c.ID, cause.Error(), retryAt); err != nil {
		u.logger.Error("failed to record visit failure", slog.String("case_id", c.ID), slog.Any("error", err))
	}
	if retryAt == nil {
		u.logger.Error("visit booking abandoned", slog.String("case_id", c.ID), slog.Int("attempts", attempt), slog.Any("error", cause))
	}
	return fmt.Errorf("book visit: %w", cause)
}

// RetryDelay grows linearly with the attempt number up to one hour.
func (u *VisitUseCase) RetryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := time.Duration(attempt) * u.cfg.RetryBase
	if delay <= 0 || delay > maxRetryDelay {
		return maxRetryDelay
	}
	return delay
}

func (u *VisitUseCase) afterBooking(ctx context.Context, c *model.Case, p *model.Profile) {
	logger := u.logger.With(slog.String("case_id", c.ID))

	pdf, err := summary.Render(c, p, u.now())
	if err != nil {
		logger.Warn("summary render failed", slog.Any("error", err))
	} else if err := u.archive.Put(ctx, c.ID, pdf); err != nil {
		logger.Warn("summary archive failed", slog.Any("error", err))
	}

	subject := "e-ZLA: zgłoszenie " + c.CaseNumber + " przyjęte"
	body := fmt.Sprintf(
		"Dzień dobry %s,\n\nTwoje zgłoszenie %s zostało opłacone i przekazane lekarzowi.\n"+
			"Okres zwolnienia: %s - %s.\n\nLekarz skontaktuje się z Tobą telefonicznie.",
		p.FirstName, c.CaseNumber, c.IllnessFrom.Format(time.DateOnly), c.IllnessTo.Format(time.DateOnly))
	if err := u.mailer.Send(ctx, p.Email, subject, body); err != nil {
		logger.Warn("confirmation mail failed", slog.Any("error", err))
	}
}

// PendingVisits claims due cases for booking.
func (u *VisitUseCase) PendingVisits(ctx context.Context, limit int) ([]model.Case, error) {
	return u.cases.SelectBatchForVisitBooking(ctx, limit, u.cfg.Lease)
}
