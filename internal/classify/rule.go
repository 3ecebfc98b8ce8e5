// Package classify assigns categories to transactions with a deterministic
// rule engine. Rules are data handed to the classifier at construction; there
// are no package-level rule tables.
package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rule is one category rule. Merchants are display names matched as
// case-insensitive substrings; Patterns are regular expressions; Keywords
// score proportionally to how many of them appear.
type Rule struct {
	Category            string              `yaml:"category"`
	Subcategories       []string            `yaml:"subcategories,omitempty"`
	SubcategoryKeywords map[string][]string `yaml:"subcategory_keywords,omitempty"`
	Keywords            []string            `yaml:"keywords,omitempty"`
	Merchants           []string            `yaml:"merchants,omitempty"`
	Patterns            []string            `yaml:"patterns,omitempty"`
	BaseConfidence      float64             `yaml:"base_confidence"`
	Regions             []string            `yaml:"regions,omitempty"`
}

// rulesFile is the YAML shape for rule files.
type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads a YAML rule file.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rules %s: %w", path, err)
	}
	return f.Rules, nil
}

// SaveRules writes rules to a YAML file.
func SaveRules(path string, rules []Rule) error {
	data, err := yaml.Marshal(rulesFile{Rules: rules})
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}

// DefaultRules returns the built-in rule set. Declaration order matters: it
// is the tie-break order during classification.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category:      "Food & Grocery",
			Subcategories: []string{"Groceries", "Dining", "Delivery"},
			SubcategoryKeywords: map[string][]string{
				"Dining":   {"restaurant", "cafe", "coffee", "pizza", "dine"},
				"Delivery": {"swiggy", "zomato", "uber eats", "doordash", "deliveroo", "instamart"},
			},
			Keywords:       []string{"grocery", "supermarket", "food", "kirana", "mart"},
			Merchants:      []string{"Zepto", "Blinkit", "BigBasket", "Swiggy", "Zomato", "DMart", "Reliance Fresh", "Woolworths", "Coles", "Tesco", "Starbucks", "McDonald", "Dominos", "KFC", "Instamart"},
			BaseConfidence: 0.9,
		},
		{
			Category:      "Transport",
			Subcategories: []string{"Ride Hailing", "Fuel", "Transit"},
			SubcategoryKeywords: map[string][]string{
				"Fuel":    {"petrol", "fuel", "diesel", "gas station"},
				"Transit": {"metro", "bus", "rail", "irctc", "train"},
			},
			Keywords:       []string{"cab", "taxi", "toll", "parking", "petrol", "metro"},
			Merchants:      []string{"Uber", "Ola", "Lyft", "Rapido", "Shell", "Indian Oil", "HPCL", "BPCL", "IRCTC"},
			BaseConfidence: 0.9,
		},
		{
			Category:      "Shopping",
			Subcategories: []string{"Online", "Electronics", "Clothing"},
			SubcategoryKeywords: map[string][]string{
				"Electronics": {"electronics", "croma", "gadget"},
				"Clothing":    {"apparel", "fashion", "clothing", "myntra"},
			},
			Keywords:       []string{"purchase", "order", "store", "retail"},
			Merchants:      []string{"Amazon", "Flipkart", "Myntra", "Ajio", "Croma", "IKEA", "Decathlon", "Nykaa"},
			BaseConfidence: 0.85,
		},
		{
			Category:      "Entertainment",
			Subcategories: []string{"Streaming", "Movies", "Gaming"},
			SubcategoryKeywords: map[string][]string{
				"Movies": {"cinema", "movie", "pvr", "imax"},
				"Gaming": {"steam", "playstation", "xbox"},
			},
			Keywords:       []string{"subscription", "music", "movie", "game"},
			Merchants:      []string{"Netflix", "Spotify", "Prime Video", "Hotstar", "YouTube Premium", "PVR", "BookMyShow", "Steam"},
			BaseConfidence: 0.85,
		},
		{
			Category:      "Utilities & Bills",
			Subcategories: []string{"Electricity", "Mobile", "Internet", "Water"},
			SubcategoryKeywords: map[string][]string{
				"Electricity": {"electricity", "power", "bescom", "energy"},
				"Mobile":      {"mobile", "prepaid", "postpaid", "airtel", "jio"},
				"Internet":    {"broadband", "internet", "fiber", "wifi"},
			},
			Keywords:       []string{"bill", "recharge", "utility", "electricity", "broadband"},
			Merchants:      []string{"Airtel", "Jio", "Vodafone", "BESCOM", "Tata Power", "ACT Fibernet"},
			Patterns:       []string{`(?i)\b(bill\s*pay|billdesk|bbps)\b`},
			BaseConfidence: 0.85,
		},
		{
			Category:      "Health",
			Subcategories: []string{"Pharmacy", "Fitness", "Doctor"},
			SubcategoryKeywords: map[string][]string{
				"Pharmacy": {"pharmacy", "chemist", "medicine"},
				"Fitness":  {"gym", "fitness", "yoga"},
			},
			Keywords:       []string{"hospital", "clinic", "pharmacy", "medical", "doctor", "gym"},
			Merchants:      []string{"Apollo", "PharmEasy", "1mg", "Cult.fit", "MedPlus"},
			BaseConfidence: 0.85,
		},
		{
			Category:      "Housing",
			Subcategories: []string{"Rent", "Maintenance"},
			Keywords:       []string{"rent", "maintenance", "society", "landlord", "lease"},
			Patterns:       []string{`(?i)\brent\b`},
			BaseConfidence: 0.8,
		},
		{
			Category:      "Travel",
			Subcategories: []string{"Flights", "Hotels"},
			SubcategoryKeywords: map[string][]string{
				"Flights": {"air", "flight", "indigo", "airways"},
				"Hotels":  {"hotel", "resort", "stay"},
			},
			Keywords:       []string{"flight", "hotel", "booking", "airline", "visa fee"},
			Merchants:      []string{"MakeMyTrip", "IndiGo", "Air India", "Airbnb", "Booking.com", "OYO", "Agoda"},
			BaseConfidence: 0.85,
		},
		{
			Category:      "Income",
			Subcategories: []string{"Salary", "Interest", "Refund"},
			SubcategoryKeywords: map[string][]string{
				"Interest": {"interest"},
				"Refund":   {"refund", "reversal", "cashback"},
			},
			Keywords:       []string{"salary", "payroll", "interest", "dividend", "refund", "cashback"},
			Patterns:       []string{`(?i)\bsal(ary)?\b.*credit`, `(?i)\bint\.?\s*paid\b`},
			BaseConfidence: 0.8,
		},
		{
			Category:      "Crypto",
			Subcategories: []string{"Holdings", "Exchange"},
			Keywords:       []string{"crypto", "bitcoin", "ethereum", "usdc", "usdt", "holding"},
			Merchants:      []string{"Coinbase", "Binance", "WazirX", "CoinDCX", "Kraken"},
			BaseConfidence: 0.85,
		},
		{
			Category:      "Fees & Charges",
			Subcategories: []string{"Bank Fees", "Late Fees"},
			Keywords:       []string{"fee", "charge", "penalty", "gst", "service tax", "annual charges"},
			Patterns:       []string{`(?i)\b(chrg|chgs|sms chg)\b`},
			BaseConfidence: 0.75,
		},
	}
}
