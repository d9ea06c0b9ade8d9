package listing

import (
	"net/url"
	"time"

	"github.com/eaglebank/console/internal/models"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// TransactionFilter is the criteria record of the transaction screens.
type TransactionFilter struct {
	AccountID string
	Type      models.TransactionType
	Status    models.TransactionStatus
	StartDate time.Time
	EndDate   time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Search    string
}

func (f TransactionFilter) Values() url.Values {
	q := url.Values{}
	setParam(q, "accountId", f.AccountID)
	setParam(q, "type", string(f.Type))
	setParam(q, "status", string(f.Status))
	if !f.StartDate.IsZero() {
		q.Set("startDate", f.StartDate.Format(dateLayout))
	}
	if !f.EndDate.IsZero() {
		q.Set("endDate", f.EndDate.Format(dateLayout))
	}
	if f.MinAmount != nil {
		q.Set("minAmount", f.MinAmount.String())
	}
	if f.MaxAmount != nil {
		q.Set("maxAmount", f.MaxAmount.String())
	}
	setParam(q, "search", f.Search)
	return q
}

// AccountSearchParams is the criteria record of the admin accounts screen.
type AccountSearchParams struct {
	Search string
	Status models.AccountStatus
	Type   models.AccountType
}

func (p AccountSearchParams) Values() url.Values {
	q := url.Values{}
	setParam(q, "search", p.Search)
	setParam(q, "status", string(p.Status))
	setParam(q, "type", string(p.Type))
	return q
}

type CustomerCriteria struct {
	Search string
}

func (c CustomerCriteria) Values() url.Values {
	q := url.Values{}
	setParam(q, "search", c.Search)
	return q
}

type UserCriteria struct {
	Search string
	Role   models.Role
}

func (c UserCriteria) Values() url.Values {
	q := url.Values{}
	setParam(q, "search", c.Search)
	setParam(q, "role", string(c.Role))
	return q
}

// NoCriteria is for lists without filters.
type NoCriteria struct{}

func (NoCriteria) Values() url.Values { return url.Values{} }
