package domain

import "strings"

// Category labels a transaction's purpose.
type Category string

const (
	CategoryFood          Category = "Food & Drinks"
	CategoryTravel        Category = "Travel"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryBills         Category = "Bills & Utilities"
	CategoryHealthcare    Category = "Healthcare"
	CategoryWallet        Category = "Wallet" // top-ups only
	CategoryOthers        Category = "Others"
)

// categoryRule maps substring keywords to a category. Rules are evaluated
// in declaration order and the first match wins, so a merchant name
// matching keywords from two groups always resolves to the earlier group.
type categoryRule struct {
	label    Category
	keywords []string
}

// categoryRules is an ordered list on purpose. Do not convert to a map:
// iteration order would become undefined and categorization would stop
// being reproducible.
var categoryRules = []categoryRule{
	{CategoryFood, []string{"cafe", "restaurant", "zomato", "swiggy", "food", "pizza"}},
	{CategoryTravel, []string{"uber", "ola", "rapido", "metro", "cab", "auto"}},
	{CategoryShopping, []string{"flipkart", "amazon", "myntra", "ajio", "shop", "store"}},
	{CategoryEntertainment, []string{"movie", "bookmyshow", "netflix", "prime", "spotify", "entertainment"}},
	{CategoryBills, []string{"electricity", "water", "gas", "bill", "recharge", "broadband"}},
	{CategoryHealthcare, []string{"medical", "pharmacy", "hospital", "doctor", "health"}},
}

// ValidCategory reports whether c is one of the known category labels.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryFood, CategoryTravel, CategoryShopping, CategoryEntertainment,
		CategoryBills, CategoryHealthcare, CategoryWallet, CategoryOthers:
		return true
	}
	return false
}

// Categorize maps a free-text merchant name to a category label.
// Pure and deterministic: same input, same output.
func Categorize(merchant string) Category {
	lower := strings.ToLower(merchant)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.label
			}
		}
	}
	return CategoryOthers
}
