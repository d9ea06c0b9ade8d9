package validation

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateRequest(t *testing.T) {
	negative := decimal.RequireFromString("-1")
	tooHigh := decimal.RequireFromString("12")
	tests := []struct {
		name       string
		form       any
		wantFields []string
	}{
		{name: "valid operation", form: OperationForm{AccountID: "A1", Amount: decimal.RequireFromString("0.01")}},
		{name: "missing account and zero amount", form: OperationForm{}, wantFields: []string{"accountId", "amount"}},
		{name: "transfer to itself", form: TransferForm{AccountSource: "A1", AccountDestination: "A1", Amount: decimal.NewFromInt(5)}, wantFields: []string{"accountDestination"}},
		{name: "register with a bad email", form: RegisterForm{Username: "nadia", Email: "nadia", Password: "secret1"}, wantFields: []string{"email"}},
		{name: "short password", form: RegisterForm{Username: "nadia", Email: "nadia@example.com", Password: "123"}, wantFields: []string{"password"}},
		{name: "account form", form: AccountForm{CustomerID: "C1", Type: "Checking", InitialBalance: negative, InterestRate: &tooHigh}, wantFields: []string{"type", "initialBalance", "interestRate"}},
		{name: "login", form: LoginForm{Username: "admin"}, wantFields: []string{"password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRequest(tt.form)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("expected %d errors, got %+v", len(tt.wantFields), errs)
			}
			for i, field := range tt.wantFields {
				if errs[i].Field != field {
					t.Errorf("error %d: expected field %s, got %s", i, field, errs[i].Field)
				}
			}
		})
	}
}

func TestDailyLimit(t *testing.T) {
	limit := decimal.RequireFromString("10000")
	if DailyLimit(decimal.RequireFromString("10000"), limit) != nil {
		t.Error("the limit itself is allowed")
	}
	e := DailyLimit(decimal.RequireFromString("10000.01"), limit)
	if e == nil || e.Field != "amount" || e.Message != "Amount exceeds the daily limit of 10000.00" {
		t.Errorf("unexpected error %+v", e)
	}
	if DailyLimit(decimal.RequireFromString("1e9"), decimal.Zero) != nil {
		t.Error("a zero limit disables the check")
	}
}

func TestSummary(t *testing.T) {
	got := Summary([]ValidationError{{Field: "amount", Message: "Value must be greater than 0"}, {Message: "bad form"}})
	if got != "amount: Value must be greater than 0; bad form" {
		t.Errorf("unexpected summary %q", got)
	}
}
