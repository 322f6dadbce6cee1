package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/ezla-online/portal/internal/domain/errors"
	"github.com/ezla-online/portal/internal/domain/model"
)

const caseColumns = `id, case_number, profile_id, user_id, illness_from, illness_to, leave_type, interview,
                     symptoms, amount, currency, payment_status, payment_psp_ref, payment_updated_at, status,
                     submitted_at, visit_id, visit_status, visit_attempts, visit_last_error,
                     visit_next_attempt_at, created_at, updated_at`

func (r *caseRepository) Create(ctx context.Context, c *model.Case) error {
	interview, err := json.Marshal(c.Interview)
	if err != nil {
		return fmt.Errorf("encode interview: %w", err)
	}
	symptoms := c.Symptoms
	if symptoms == nil {
		symptoms = []string{}
	}

	const query = `INSERT INTO cases (id, case_number, profile_id, user_id, illness_from, illness_to, leave_type,
                       interview, symptoms, amount, currency, payment_status, status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
                   RETURNING created_at, updated_at`
	err = r.storage.pool.QueryRow(ctx, query,
		c.ID, c.CaseNumber, c.ProfileID, c.UserID, c.IllnessFrom, c.IllnessTo, string(c.LeaveType),
		interview, symptoms, c.Amount, c.Currency, string(c.PaymentStatus), string(c.Status),
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *caseRepository) GetByID(ctx context.Context, id string) (*model.Case, error) {
	return r.get(ctx, `SELECT `+caseColumns+` FROM cases WHERE id=$1`, id)
}

func (r *caseRepository) GetByNumber(ctx context.Context, number string) (*model.Case, error) {
	return r.get(ctx, `SELECT `+caseColumns+` FROM cases WHERE case_number=$1`, number)
}

func (r *caseRepository) ListByUser(ctx context.Context, userID int64) ([]model.Case, error) {
	const query = `SELECT ` + caseColumns + ` FROM cases WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCases(rows)
}

func (r *caseRepository) UpdatePayment(ctx context.Context, id string, status model.PaymentStatus, pspRef string) (*model.Case, error) {
	const query = `UPDATE cases
                   SET payment_status=$2,
                       payment_psp_ref=COALESCE(NULLIF($3, ''), payment_psp_ref),
                       payment_updated_at=NOW(),
                       updated_at=NOW()
                   WHERE id=$1 AND (payment_status='pending' OR payment_status=$2)
                   RETURNING ` + caseColumns
	c, err := r.get(ctx, query, id, string(status), pspRef)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, err
	}

	var current string
	err = r.storage.pool.QueryRow(ctx, `SELECT payment_status FROM cases WHERE id=$1`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return nil, domainErrors.ErrPaymentFinalized
}

func (r *caseRepository) MarkSubmitted(ctx context.Context, id string, lease time.Duration) (bool, error) {
	const query = `UPDATE cases
                   SET status='submitted',
                       submitted_at=NOW(),
                       visit_next_attempt_at=NOW() + ($2 * INTERVAL '1 second'),
                       updated_at=NOW()
                   WHERE id=$1 AND status='draft' AND payment_status='success'`
	tag, err := r.storage.pool.Exec(ctx, query, id, seconds(lease))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SelectBatchForVisitBooking claims due submitted cases without a visit and
// pushes their next attempt past the lease so concurrent pollers skip them.
func (r *caseRepository) SelectBatchForVisitBooking(ctx context.Context, limit int, lease time.Duration) ([]model.Case, error) {
	if limit <= 0 {
		return nil, nil
	}

	const (
		selectQuery = `SELECT ` + caseColumns + ` FROM cases
                       WHERE status='submitted' AND visit_id IS NULL
                         AND visit_next_attempt_at IS NOT NULL AND visit_next_attempt_at <= NOW()
                         AND (visit_locked_until IS NULL OR visit_locked_until <= NOW())
                       ORDER BY visit_next_attempt_at
                       LIMIT $1
                       FOR UPDATE SKIP LOCKED`
		leaseQuery = `UPDATE cases SET visit_next_attempt_at=NOW() + ($2 * INTERVAL '1 second') WHERE id = ANY($1)`
	)

	var batch []model.Case
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		batch, err = collectCases(rows)
		rows.Close()
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		ids := make([]string, 0, len(batch))
		for _, c := range batch {
			ids = append(ids, c.ID)
		}
		_, err = tx.Exec(ctx, leaseQuery, ids, seconds(lease))
		return err
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

func (r *caseRepository) ClaimVisit(ctx context.Context, id string, lease time.Duration) (bool, error) {
	const query = `UPDATE cases SET visit_locked_until=NOW() + ($2 * INTERVAL '1 second'), updated_at=NOW()
                   WHERE id=$1 AND status='submitted' AND visit_id IS NULL
                     AND (visit_locked_until IS NULL OR visit_locked_until <= NOW())`
	tag, err := r.storage.pool.Exec(ctx, query, id, seconds(lease))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *caseRepository) SetVisit(ctx context.Context, id string, visit model.Visit) error {
	const query = `UPDATE cases
                   SET visit_id=$2, visit_status=$3, visit_last_error=NULL, visit_next_attempt_at=NULL,
                       visit_locked_until=NULL, updated_at=NOW()
                   WHERE id=$1 AND visit_id IS NULL`
	var status []byte
	if len(visit.Status) > 0 {
		status = visit.Status
	}
	tag, err := r.storage.pool.Exec(ctx, query, id, visit.ID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *caseRepository) MarkVisitFailed(ctx context.Context, id string, reason string, retryAt *time.Time) error {
	const query = `UPDATE cases
                   SET visit_attempts=visit_attempts + 1, visit_last_error=$2, visit_next_attempt_at=$3, updated_at=NOW()
                   WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id, reason, retryAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *caseRepository) get(ctx context.Context, query string, args ...any) (*model.Case, error) {
	c, err := scanCase(r.storage.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func collectCases(rows pgx.Rows) ([]model.Case, error) {
	var list []model.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func scanCase(row pgx.Row) (*model.Case, error) {
	var (
		c             model.Case
		leaveType     string
		interview     []byte
		paymentStatus string
		status        string
		visitStatus   []byte
	)
	err := row.Scan(
		&c.ID, &c.CaseNumber, &c.ProfileID, &c.UserID, &c.IllnessFrom, &c.IllnessTo, &leaveType, &interview,
		&c.Symptoms, &c.Amount, &c.Currency, &paymentStatus, &c.PaymentPSPRef, &c.PaymentUpdatedAt, &status,
		&c.SubmittedAt, &c.VisitID, &visitStatus, &c.VisitAttempts, &c.VisitLastError,
		&c.VisitNextAttemptAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.LeaveType = model.LeaveType(leaveType)
	c.PaymentStatus = model.PaymentStatus(paymentStatus)
	c.Status = model.CaseStatus(status)
	if len(interview) > 0 {
		if err := json.Unmarshal(interview, &c.Interview); err != nil {
			return nil, fmt.Errorf("decode interview: %w", err)
		}
	}
	if len(visitStatus) > 0 {
		c.VisitStatus = json.RawMessage(visitStatus)
	}
	return &c, nil
}
