package core

// CategoryAll is the budget category that covers every expense.
const CategoryAll = "all"

// CategoryInfo describes one entry of the fixed expense category catalog.
type CategoryInfo struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Categories is the fixed catalog, in display order.
var Categories = []CategoryInfo{
	{ID: "food", Label: "Food"},
	{ID: "transport", Label: "Transport"},
	{ID: "bills", Label: "Bills"},
	{ID: "health", Label: "Health"},
	{ID: "home", Label: "Home"},
	{ID: "education", Label: "Education"},
	{ID: "debts", Label: "Debts"},
	{ID: "shopping", Label: "Shopping"},
	{ID: "entertainment", Label: "Entertainment"},
	{ID: "other", Label: "Other"},
}

// Currency describes a supported display currency.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

var Currencies = []Currency{
	{Code: "TRY", Symbol: "₺"},
	{Code: "USD", Symbol: "$"},
	{Code: "EUR", Symbol: "€"},
	{Code: "SYP", Symbol: "ل.س"},
	{Code: "SAR", Symbol: "ر.س"},
	{Code: "AED", Symbol: "د.إ"},
	{Code: "EGP", Symbol: "ج.م"},
}

// IsCategory reports whether id belongs to the catalog.
func IsCategory(id string) bool {
	for _, c := range Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CategoryLabel returns the display label for id, or id itself when unknown.
func CategoryLabel(id string) string {
	if id == CategoryAll {
		return "All"
	}
	for _, c := range Categories {
		if c.ID == id {
			return c.Label
		}
	}
	return id
}

// IsCurrency reports whether code is a supported currency.
func IsCurrency(code string) bool {
	for _, c := range Currencies {
		if c.Code == code {
			return true
		}
	}
	return false
}
