package hypothesis

import "strings"

// Category is one bucket of the fixed primary-signal taxonomy.
type Category struct {
	Name        string
	Description string
	Aliases     []string
}

// taxonomy is the fixed set of primary risk categories. Declaration order is
// load-bearing: when a theme label could match more than one category, the
// first match wins, keeping re-runs reproducible. OTHER must stay last; it is
// the default bucket for unassigned, unclassified and unrecognized themes.
var taxonomy = []Category{
	{
		Name:        "OPERATIONAL DEGRADATION",
		Description: "Evidence of declining operations, closures and shrinking business footprint",
		Aliases:     []string{"OPERATION", "CLOSURE", "SHUTDOWN", "DOWNSIZ", "DECLIN"},
	},
	{
		Name:        "FINANCIAL DISTRESS",
		Description: "Losses, debt pressure, weak margins and other financial warning signs",
		Aliases:     []string{"FINANC", "DEBT", "LOSS", "PROFIT", "INSOLV", "BANKRUPT", "VALUATION"},
	},
	{
		Name:        "WORKFORCE ISSUES",
		Description: "Layoffs, retrenchment, staffing instability and employee welfare concerns",
		Aliases:     []string{"WORKFORCE", "LAYOFF", "RETRENCH", "EMPLOY", "STAFF", "LABOR", "LABOUR", "HIRING"},
	},
	{
		Name:        "REGULATORY/LEGAL RISKS",
		Description: "Lawsuits, investigations, compliance failures and regulatory exposure",
		Aliases:     []string{"REGULAT", "LEGAL", "LAWSUIT", "LITIG", "COMPLIANCE"},
	},
	{
		Name:        "MARKET PERCEPTION",
		Description: "Reputation damage, customer distrust and negative public sentiment",
		Aliases:     []string{"PERCEPTION", "REPUTATION", "SENTIMENT", "CUSTOMER", "BRAND"},
	},
	{
		Name:        "LEADERSHIP/GOVERNANCE",
		Description: "Executive turnover, governance lapses and strategic direction concerns",
		Aliases:     []string{"LEADERSHIP", "GOVERNANCE", "MANAGEMENT", "EXECUTIVE", "BOARD", "CEO"},
	},
	{
		Name:        "COMPETITIVE PRESSURE",
		Description: "Industry disruption, rival gains and eroding market position",
		Aliases:     []string{"COMPETIT", "INDUSTRY", "DISRUPT", "RIVAL"},
	},
	{
		Name:        "OTHER",
		Description: "Risk signals that do not map onto a dedicated category",
	},
}

// otherIndex is the position of the default bucket.
var otherIndex = len(taxonomy) - 1

// resolveCategory maps a free-text theme label onto a taxonomy index. Exact
// canonical names are tried first, then alias substrings, both in declaration
// order. Anything unresolvable routes to OTHER, never dropped.
func resolveCategory(themeLabel string) int {
	label := strings.ToUpper(strings.TrimSpace(themeLabel))
	if label == "" || label == themeUnassigned || label == "UNCLASSIFIED" {
		return otherIndex
	}
	for idx, category := range taxonomy {
		if label == category.Name {
			return idx
		}
	}
	for idx, category := range taxonomy {
		for _, alias := range category.Aliases {
			if strings.Contains(label, alias) {
				return idx
			}
		}
	}
	return otherIndex
}
