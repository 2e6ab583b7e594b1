package domain

import "github.com/shopspring/decimal"

// BudgetSummary rolls a project's budget lines up by status.
type BudgetSummary struct {
	Total    decimal.Decimal `json:"total"`
	Approved decimal.Decimal `json:"approved"`
	Pending  decimal.Decimal `json:"pending"`
	Rejected decimal.Decimal `json:"rejected"`
}

func SummarizeBudget(items []BudgetItem) BudgetSummary {
	var s BudgetSummary
	for _, it := range items {
		s.Total = s.Total.Add(it.Amount)
		switch it.Status {
		case BudgetApproved:
			s.Approved = s.Approved.Add(it.Amount)
		case BudgetPending:
			s.Pending = s.Pending.Add(it.Amount)
		case BudgetRejected:
			s.Rejected = s.Rejected.Add(it.Amount)
		}
	}
	return s
}
