package handler

import (
	"github.com/moneymanager/money-api/internal/core/domain"
	"github.com/moneymanager/money-api/internal/core/ports"
)

// transactionRequest is the body of add and update. Date accepts
// YYYY-MM-DD or an RFC 3339 timestamp.
type transactionRequest struct {
	Amount      *float64    `json:"amount" validate:"required"`
	Category    string      `json:"category" validate:"required,max=50"`
	Description string      `json:"description" validate:"max=255"`
	Date        domain.Date `json:"date" swaggertype:"string" format:"date"`
	Emoji       string      `json:"emoji"`
}

func (r transactionRequest) toInput() ports.TransactionInput {
	in := ports.TransactionInput{
		Category:    r.Category,
		Description: r.Description,
		Date:        r.Date,
		Emoji:       r.Emoji,
	}
	if r.Amount != nil {
		in.Amount = *r.Amount
	}
	return in
}

type dateRangeRequest struct {
	StartDate domain.Date `json:"startDate" swaggertype:"string" format:"date"`
	EndDate   domain.Date `json:"endDate" swaggertype:"string" format:"date"`
}

type transactionResponse struct {
	ID          string      `json:"id"`
	Amount      float64     `json:"amount"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Date        domain.Date `json:"date" swaggertype:"string" format:"date"`
	Emoji       string      `json:"emoji"`
}

type createdResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

func toTransactionResponse(t *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date,
		Emoji:       t.Emoji,
	}
}

func toTransactionResponses(txs []*domain.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	return out
}
