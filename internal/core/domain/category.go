package domain

// Category is an entry of the predefined category catalog.
type Category struct {
	Name  string `json:"name"`
	Type  Kind   `json:"type"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

// CategoryCatalog lists the predefined categories per kind.
type CategoryCatalog struct {
	Income  []Category `json:"income"`
	Expense []Category `json:"expense"`
}

// DefaultCategories returns a fresh copy of the built-in catalog.
func DefaultCategories() CategoryCatalog {
	return CategoryCatalog{
		Income: []Category{
			{Name: "Salary", Type: KindIncome, Emoji: "💰", Color: "#28a745"},
			{Name: "Freelance", Type: KindIncome, Emoji: "💻", Color: "#17a2b8"},
			{Name: "Investments", Type: KindIncome, Emoji: "📈", Color: "#fd7e14"},
			{Name: "Gifts", Type: KindIncome, Emoji: "🎁", Color: "#e83e8c"},
			{Name: "Refunds", Type: KindIncome, Emoji: "↩️", Color: "#6f42c1"},
			{Name: "Other", Type: KindIncome, Emoji: "💲", Color: "#6c757d"},
		},
		Expense: []Category{
			{Name: "Housing", Type: KindExpense, Emoji: "🏠", Color: "#dc3545"},
			{Name: "Food", Type: KindExpense, Emoji: "🍔", Color: "#fd7e14"},
			{Name: "Transportation", Type: KindExpense, Emoji: "🚗", Color: "#6610f2"},
			{Name: "Entertainment", Type: KindExpense, Emoji: "🎬", Color: "#e83e8c"},
			{Name: "Shopping", Type: KindExpense, Emoji: "🛍️", Color: "#20c997"},
			{Name: "Utilities", Type: KindExpense, Emoji: "💡", Color: "#ffc107"},
			{Name: "Healthcare", Type: KindExpense, Emoji: "🏥", Color: "#17a2b8"},
			{Name: "Education", Type: KindExpense, Emoji: "📚", Color: "#007bff"},
			{Name: "Other", Type: KindExpense, Emoji: "📋", Color: "#6c757d"},
		},
	}
}
