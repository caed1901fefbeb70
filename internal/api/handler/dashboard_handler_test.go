package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/moneymanager/money-api/internal/core/domain"
)

type stubDashboardService struct {
	summary    *domain.Summary
	err        error
	start, end domain.Date
}

func (s *stubDashboardService) Dashboard(context.Context, string) (*domain.Summary, error) {
	return s.summary, s.err
}

func (s *stubDashboardService) DashboardForRange(_ context.Context, _ string, start, end domain.Date) (*domain.Summary, error) {
	s.start, s.end = start, end
	if s.err != nil {
		return nil, s.err
	}
	if start.IsZero() || end.IsZero() {
		return nil, domain.ValidationError("startDate and endDate are required")
	}
	return s.summary, nil
}

func sampleSummary() *domain.Summary {
	return &domain.Summary{
		TotalIncome: 1000, TotalExpense: 250, Balance: 750,
		IncomeByCategory:  []domain.CategoryTotal{{Category: "Salary", Amount: 1000}},
		ExpenseByCategory: []domain.CategoryTotal{},
		RecentTransactions: []domain.TransactionView{
			{ID: "1", Type: domain.KindIncome, Amount: 1000, Category: "Salary", Date: domain.NewDate(2024, time.January, 2)},
		},
	}
}

func TestDashboardHandler_Get(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/dashboard", "", "alice")

	if err := NewDashboardHandler(&stubDashboardService{summary: sampleSummary()}).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)

	var resp map[string]any
	decode(t, rec, &resp)
	for _, key := range []string{"totalIncome", "totalExpense", "balance", "incomeByCategory", "expenseByCategory", "recentTransactions"} {
		if _, ok := resp[key]; !ok {
			t.Errorf("missing key %s", key)
		}
	}
	if got := resp["expenseByCategory"].([]any); len(got) != 0 {
		t.Errorf("expected empty expenseByCategory array, got %v", got)
	}
	recent := resp["recentTransactions"].([]any)[0].(map[string]any)
	if recent["type"] != "income" || recent["date"] != "2024-01-02" {
		t.Errorf("unexpected recent entry %+v", recent)
	}
}

func TestDashboardHandler_DateRange(t *testing.T) {
	stub := &stubDashboardService{summary: sampleSummary()}
	c, rec := newContext(http.MethodPost, "/dashboard/date-range", `{"startDate":"2024-01-01","endDate":"2024-01-31"}`, "alice")

	if err := NewDashboardHandler(stub).DateRange(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)
	if stub.start.String() != "2024-01-01" || stub.end.String() != "2024-01-31" {
		t.Fatalf("unexpected range %s..%s", stub.start, stub.end)
	}
}

func TestDashboardHandler_DateRange_MissingBound(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/dashboard/date-range", `{"startDate":"2024-01-01"}`, "alice")

	err := NewDashboardHandler(&stubDashboardService{summary: sampleSummary()}).DateRange(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDashboardHandler_Statement(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/dashboard/statement?startDate=2024-01-01&endDate=2024-01-31", "", "alice")

	if err := NewDashboardHandler(&stubDashboardService{summary: sampleSummary()}).Statement(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "statement-2024-01-01-to-2024-01-31.pdf") {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Errorf("body is not a PDF")
	}
}

func TestDashboardHandler_Statement_BadDate(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/dashboard/statement?startDate=yesterday&endDate=2024-01-31", "", "alice")

	err := NewDashboardHandler(&stubDashboardService{summary: sampleSummary()}).Statement(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
