package domain

// RecentLimit caps the recent-activity feed of the unbounded dashboard.
const RecentLimit = 10

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// TransactionView is one entry of the dashboard activity feed.
type TransactionView struct {
	ID          string  `json:"id"`
	Type        Kind    `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        Date    `json:"date" swaggertype:"string" format:"date"`
	Emoji       string  `json:"emoji,omitempty"`
}

// Summary is the aggregated view of a user's finances.
type Summary struct {
	TotalIncome        float64           `json:"totalIncome"`
	TotalExpense       float64           `json:"totalExpense"`
	Balance            float64           `json:"balance"`
	IncomeByCategory   []CategoryTotal   `json:"incomeByCategory"`
	ExpenseByCategory  []CategoryTotal   `json:"expenseByCategory"`
	RecentTransactions []TransactionView `json:"recentTransactions"`
}
