package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseDate_Formats(t *testing.T) {
	cases := map[string]string{
		"2024-01-02":                "2024-01-02",
		" 2024-03-09 ":              "2024-03-09",
		"2024-01-02T15:04:05Z":      "2024-01-02",
		"2024-01-02T23:30:00-05:00": "2024-01-02",
	}
	for in, want := range cases {
		d, err := ParseDate(in)
		if err != nil {
			t.Fatalf("ParseDate(%q) returned error: %v", in, err)
		}
		if d.String() != want {
			t.Fatalf("ParseDate(%q) = %s, want %s", in, d, want)
		}
	}
}

func TestParseDate_Invalid(t *testing.T) {
	if _, err := ParseDate("01/02/2024"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDate_JSON(t *testing.T) {
	var payload struct {
		Date Date `json:"date"`
	}
	if err := json.Unmarshal([]byte(`{"date":"2024-05-06"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.Date.Equal(NewDate(2024, time.May, 6)) {
		t.Fatalf("unexpected date: %s", payload.Date)
	}

	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"date":"2024-05-06"}` {
		t.Fatalf("unexpected json: %s", out)
	}
}

func TestDate_Within(t *testing.T) {
	start := NewDate(2024, time.January, 1)
	end := NewDate(2024, time.January, 31)

	if !start.Within(start, end) || !end.Within(start, end) {
		t.Fatalf("range bounds must be inclusive")
	}
	if NewDate(2024, time.February, 1).Within(start, end) {
		t.Fatalf("date after end must be outside")
	}
}

func TestTransaction_Validate(t *testing.T) {
	valid := Transaction{Amount: 10, Category: "Food", Date: NewDate(2024, time.January, 1)}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid transaction, got %v", err)
	}

	zero := valid
	zero.Amount = 0
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount must be accepted, got %v", err)
	}

	cases := map[string]func(tx *Transaction){
		"negative amount":  func(tx *Transaction) { tx.Amount = -0.01 },
		"blank category":   func(tx *Transaction) { tx.Category = "   " },
		"long category":    func(tx *Transaction) { tx.Category = strings.Repeat("c", MaxCategoryLen+1) },
		"long description": func(tx *Transaction) { tx.Description = strings.Repeat("d", MaxDescriptionLen+1) },
		"missing date":     func(tx *Transaction) { tx.Date = Date{} },
	}
	for name, mutate := range cases {
		tx := valid
		mutate(&tx)
		if err := tx.Validate(); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
	}
}

func TestTransaction_ValidateCountsRunes(t *testing.T) {
	tx := Transaction{Amount: 1, Category: strings.Repeat("é", MaxCategoryLen), Date: NewDate(2024, time.January, 1)}
	if err := tx.Validate(); err != nil {
		t.Fatalf("category of %d runes must be accepted, got %v", MaxCategoryLen, err)
	}
}

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{ErrInvalidCredentials, ErrUnauthorized},
		{ErrTokenExpired, ErrUnauthorized},
		{ErrUserNotFound, ErrNotFound},
		{KindExpense.NotFound(), ErrNotFound},
		{KindExpense.NotFound(), ErrTransactionNotFound},
		{ErrDuplicateUsername, ErrConflict},
		{ErrEmailInUse, ErrConflict},
		{ErrWrongPassword, ErrValidation},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.kind) {
			t.Fatalf("%v should unwrap to %v", tc.err, tc.kind)
		}
	}
	if KindIncome.NotFound().Error() != "Income not found" {
		t.Fatalf("unexpected message: %s", KindIncome.NotFound())
	}
}

func TestProfilePatch_Apply(t *testing.T) {
	u := &User{FirstName: "Ann", LastName: "Lee", Email: "ann@x.com"}
	first := "Anna"
	same := "ann@x.com"

	if changed := (ProfilePatch{FirstName: &first, Email: &same}).Apply(u); changed {
		t.Fatalf("email did not change")
	}
	if u.FirstName != "Anna" || u.LastName != "Lee" {
		t.Fatalf("unexpected user after patch: %+v", u)
	}

	other := "anna@x.com"
	if changed := (ProfilePatch{Email: &other}).Apply(u); !changed || u.Email != other {
		t.Fatalf("expected email change, got %+v", u)
	}
}

func TestUser_ValidateLengths(t *testing.T) {
	ok := &User{
		Username:  strings.Repeat("ü", MaxUsernameLen),
		Email:     strings.Repeat("e", MaxEmailLen),
		FirstName: strings.Repeat("n", MaxNameLen),
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("limits are inclusive, got %v", err)
	}

	cases := map[string]*User{
		"username":  {Username: strings.Repeat("u", MaxUsernameLen+1)},
		"email":     {Email: strings.Repeat("e", MaxEmailLen+1)},
		"firstName": {FirstName: strings.Repeat("n", MaxNameLen+1)},
		"lastName":  {LastName: strings.Repeat("n", MaxNameLen+1)},
	}
	for field, u := range cases {
		err := u.Validate()
		if !errors.Is(err, ErrValidation) || !strings.Contains(err.Error(), field) {
			t.Errorf("%s: expected validation error naming the field, got %v", field, err)
		}
	}
}

func TestUser_PublicHasRole(t *testing.T) {
	u := &User{ID: "1", Username: "alice", PasswordHash: "hash"}
	pub := u.Public()
	if pub.Role != RoleUser || pub.Username != "alice" {
		t.Fatalf("unexpected projection: %+v", pub)
	}
	raw, _ := json.Marshal(pub)
	if strings.Contains(string(raw), "hash") || strings.Contains(string(raw), "password") {
		t.Fatalf("public user leaks password: %s", raw)
	}
}
