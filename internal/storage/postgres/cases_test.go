package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/ezla-online/portal/internal/domain/errors"
	"github.com/ezla-online/portal/internal/domain/model"
)

var caseColumnNames = []string{
	"id", "case_number", "profile_id", "user_id", "illness_from", "illness_to", "leave_type", "interview",
	"symptoms", "amount", "currency", "payment_status", "payment_psp_ref", "payment_updated_at", "status",
	"submitted_at", "visit_id", "visit_status", "visit_attempts", "visit_last_error",
	"visit_next_attempt_at", "created_at", "updated_at",
}

func addCaseRow(rows *pgxmockv3.Rows, id, paymentStatus, status string) *pgxmockv3.Rows {
	now := time.Now()
	return rows.AddRow(
		id, "EZ-261014-ABC123", "p1", nil, now, now.AddDate(0, 0, 3), "self", []byte(`{"fever":"yes"}`),
		[]string{"cough"}, "79.00", "PLN", paymentStatus, nil, nil, status,
		nil, nil, nil, 0, nil,
		nil, now, now,
	)
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmockv3.AnyArg()
	}
	return args
}

func caseRows(id, paymentStatus, status string) *pgxmockv3.Rows {
	return addCaseRow(pgxmockv3.NewRows(caseColumnNames), id, paymentStatus, status)
}

func TestCaseRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &caseRepository{storage: storage}

	now := time.Now()
	c := &model.Case{
		ID:            "c1",
		CaseNumber:    "EZ-261014-ABC123",
		ProfileID:     "p1",
		IllnessFrom:   now,
		IllnessTo:     now.AddDate(0, 0, 2),
		LeaveType:     model.LeaveTypeSelf,
		Interview:     map[string]string{"fever": "no"},
		Amount:        "79.00",
		Currency:      "PLN",
		PaymentStatus: model.PaymentStatusPending,
		Status:        model.CaseStatusDraft,
	}
	mock.ExpectQuery("INSERT INTO cases").WithArgs(
		"c1", "EZ-261014-ABC123", "p1", pgxmockv3.AnyArg(), c.IllnessFrom, c.IllnessTo, "self",
		[]byte(`{"fever":"no"}`), []string{}, "79.00", "PLN", "pending", "draft",
	).WillReturnRows(pgxmockv3.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectQuery("INSERT INTO cases").WithArgs(anyArgs(13)...).WillReturnError(&pgconn.PgError{Code: "23505"})
	if err := repo.Create(context.Background(), c); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestCaseRepositoryGet(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &caseRepository{storage: storage}

	mock.ExpectQuery("FROM cases WHERE id=").WithArgs("c1").WillReturnRows(caseRows("c1", "success", "submitted"))
	c, err := repo.GetByID(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.PaymentStatus != model.PaymentStatusSuccess || c.Status != model.CaseStatusSubmitted {
		t.Fatalf("unexpected statuses: %+v", c)
	}
	if c.Interview["fever"] != "yes" || len(c.Symptoms) != 1 || c.LeaveType != model.LeaveTypeSelf {
		t.Fatalf("unexpected payload: %+v", c)
	}
	if c.VisitStatus != nil {
		t.Fatalf("expected empty visit status, got %s", c.VisitStatus)
	}

	mock.ExpectQuery("FROM cases WHERE case_number=").WithArgs("EZ-1").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByNumber(context.Background(), "EZ-1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("FROM cases WHERE id=").WithArgs("c2").WillReturnError(errors.New("boom"))
	if _, err := repo.GetByID(context.Background(), "c2"); err == nil || errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected raw error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestCaseRepositoryListByUser(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &caseRepository{storage: storage}

	rows := caseRows("c1", "pending", "draft")
	addCaseRow(rows, "c2", "success", "submitted")
	mock.ExpectQuery("FROM cases WHERE user_id=").WithArgs(int64(1)).WillReturnRows(rows)
	list, err := repo.ListByUser(context.Background(), 1)
	if err != nil || len(list) != 2 || list[1].ID != "c2" {
		t.Fatalf("unexpected result: %v err=%v", list, err)
	}

	mock.ExpectQuery("FROM cases WHERE user_id=").WithArgs(int64(2)).WillReturnError(errors.New("query"))
	if _, err := repo.ListByUser(context.Background(), 2); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestCaseRepositoryListByUserRowsError(t *testing.T) {
	storage := &Storage{pool: &rowsErrorPool{rows: &errorRows{err: errors.New("rows err")}}}
	repo := &caseRepository{storage: storage}

	if _, err := repo.ListByUser(context.Background(), 1); err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
}

func TestCaseRepositoryUpdatePayment(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &caseRepository{storage: storage}

	mock.ExpectQuery("UPDATE cases").WithArgs("c1", "success", "PSP-1").WillReturnRows(caseRows("c1", "success", "draft"))
	c, err := repo.UpdatePayment(context.Background(), "c1", model.PaymentStatusSuccess, "PSP-1")
	if err != nil || c.PaymentStatus != model.PaymentStatusSuccess {
		t.Fatalf("unexpected result: %+v err=%v", c, err)
	}

	mock.ExpectQuery("UPDATE cases").WithArgs("c1", "fail", "").WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT payment_status FROM cases WHERE id=").WithArgs("c1").WillReturnRows(
		pgxmockv3.NewRows([]string{"payment_status"}).AddRow("success"))
	if _, err := repo.UpdatePayment(context.Background(), "c1", model.PaymentStatusFail, ""); !errors.Is(err, domainErrors.ErrPaymentFinalized) {
		t.Fatalf("expected finalized, got %v", err)
	}

	mock.ExpectQuery("UPDATE cases").WithArgs("missing", "success", "").WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT payment_status FROM cases WHERE id=").WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.UpdatePayment(context.Background(), "missing", model.PaymentStatusSuccess, ""); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("UPDATE cases").WithArgs("c1", "success", "").WillReturnError(errors.New("update"))
	if _, err := repo.UpdatePayment(context.Background(), "c1", model.PaymentStatusSuccess, ""); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestCaseRepositoryMarkSubmitted(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &caseRepository{storage: storage}

	mock.ExpectExec("UPDATE cases").WithArgs("c1", int64(60)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	ok, err := repo.MarkSubmitted(context.Background(), "c1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected transition, got ok=%v err=%v", ok, err)
	}

	mock.ExpectExec("UPDATE cases").WithArgs("c1", int64(60)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	ok, err = repo.MarkSubmitted(context.Background(), "c1", time.Minute)
	if err != nil || ok {
		t.Fatalf("expected no transition, got ok=%v err=%v", ok, err)
	}

	mock.ExpectExec("UPDATE cases").WithArgs("c1", int64(60)).WillReturnError(errors.New("exec"))
	if _, err := repo.MarkSubmitted(context.Background(), "c1", time.Minute); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestCaseRepositorySelectBatchForVisitBooking(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &caseRepository{storage: storage}

	rows := caseRows("c1", "success", "submitted")
	addCaseRow(rows, "c2", "success", "submitted")
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WithArgs(5).WillReturnRows(rows)
	mock.ExpectExec("UPDATE cases SET visit_next_attempt_at").WithArgs([]string{"c1", "c2"}, int64(30)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 2))
	mock.ExpectCommit()

	batch, err := repo.SelectBatchForVisitBooking(context.Background(), 5, 30*time.Second)
	if err != nil || len(batch) != 2 {
		t.Fatalf("unexpected result: %v err=%v", batch, err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WithArgs(1).WillReturnRows(pgxmockv3.NewRows(caseColumnNames))
	mock.ExpectCommit()
	batch, err = repo.SelectBatchForVisitBooking(context.Background(), 1, time.Second)
	if err != nil || len(batch) != 0 {
		t.Fatalf("expected empty batch: %v err=%v", batch, err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WithArgs(1).WillReturnError(errors.New("query"))
	mock.ExpectRollback()
	if _, err := repo.SelectBatchForVisitBooking(context.Background(), 1, time.Second); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WithArgs(1).WillReturnRows(caseRows("c1", "success", "submitted"))
	mock.ExpectExec("UPDATE cases SET visit_next_attempt_at").WithArgs([]string{"c1"}, int64(1)).WillReturnError(errors.New("lease"))
	mock.ExpectRollback()
	if _, err := repo.SelectBatchForVisitBooking(context.Background(), 1, time.Second); err == nil {
		t.Fatal("expected lease error")
	}

	if batch, err := repo.SelectBatchForVisitBooking(context.Background(), 0, time.Second); err != nil || batch != nil {
		t.Fatalf("expected no-op for zero limit: %v err=%v", batch, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestCaseRepositorySelectBatchRowsError(t *testing.T) {
	rows := &errorRows{err: errors.New("rows err")}
	tx := &rowsErrorTx{rows: rows}
	storage := &Storage{pool: &rowsErrorTxPool{tx: tx}}
	repo := &caseRepository{storage: storage}

	if _, err := repo.SelectBatchForVisitBooking(context.Background(), 1, time.Second); err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
}

func TestCaseRepositoryVisitUpdates(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &caseRepository{storage: storage}

	status := []byte(`{"state":"new"}`)
	mock.ExpectExec("SET visit_id=").WithArgs("c1", "v-1", status).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.SetVisit(context.Background(), "c1", model.Visit{ID: "v-1", Status: status}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("SET visit_id=").WithArgs("c1", "v-2", pgxmockv3.AnyArg()).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	if err := repo.SetVisit(context.Background(), "c1", model.Visit{ID: "v-2"}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	retryAt := time.Now().Add(time.Minute)
	mock.ExpectExec("SET visit_attempts=visit_attempts").WithArgs("c1", "timeout", &retryAt).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.MarkVisitFailed(context.Background(), "c1", "timeout", &retryAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("SET visit_attempts=visit_attempts").WithArgs("c9", "timeout", pgxmockv3.AnyArg()).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	if err := repo.MarkVisitFailed(context.Background(), "c9", "timeout", nil); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestCaseRepositoryClaimVisit(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &caseRepository{storage: storage}

	mock.ExpectExec("UPDATE cases SET visit_locked_until").WithArgs("c1", int64(300)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	claimed, err := repo.ClaimVisit(context.Background(), "c1", 5*time.Minute)
	if err != nil || !claimed {
		t.Fatalf("expected claim, got %v err=%v", claimed, err)
	}

	mock.ExpectExec("UPDATE cases SET visit_locked_until").WithArgs("c1", int64(300)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	claimed, err = repo.ClaimVisit(context.Background(), "c1", 5*time.Minute)
	if err != nil || claimed {
		t.Fatalf("expected held case to be skipped, got %v err=%v", claimed, err)
	}

	mock.ExpectExec("UPDATE cases SET visit_locked_until").WithArgs("c2", int64(300)).WillReturnError(errors.New("boom"))
	if _, err := repo.ClaimVisit(context.Background(), "c2", 5*time.Minute); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
