package policy

import (
	"encoding/json"
	"fmt"
	"os"

	"fulfillment/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// categoryPolicyDTO is the JSON shape of one policy row. Percentages accept
// both JSON numbers and strings ("12.5").
type categoryPolicyDTO struct {
	DeliveryAgentPercent decimal.Decimal `json:"delivery_agent_percent"`
	SiteManagerPercent   decimal.Decimal `json:"site_manager_percent"`
	ReferralPercent      decimal.Decimal `json:"referral_percent"`

	DeliveryAgentForfeitTo string `json:"delivery_agent_forfeit_to"`
	SiteManagerForfeitTo   string `json:"site_manager_forfeit_to"`
	ReferralForfeitTo      string `json:"referral_forfeit_to"`
}

// LoadTable reads a policy table from a JSON file keyed by category name:
//
//	{
//	  "PHYSICAL": {
//	    "delivery_agent_percent": "40",
//	    "site_manager_percent": "20",
//	    "referral_percent": "10",
//	    "delivery_agent_forfeit_to": "platform",
//	    "site_manager_forfeit_to": "platform",
//	    "referral_forfeit_to": "platform"
//	  },
//	  "LOCAL_MARKET": { ... }
//	}
//
// Omitted forfeit targets default to "platform". The loaded table is validated
// with the same rules as NewTable.
func LoadTable(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read policy file: %w", err)
	}

	var dto map[string]categoryPolicyDTO
	if err = json.Unmarshal(raw, &dto); err != nil {
		return Table{}, fmt.Errorf("decode policy file: %w", err)
	}

	policies := make(map[order.Category]CategoryPolicy, len(dto))
	for name, row := range dto {
		category, catErr := order.CategoryFromString(name)
		if catErr != nil {
			return Table{}, fmt.Errorf("policy file: %w", catErr)
		}

		policies[category] = CategoryPolicy{
			DeliveryAgentPercent:   row.DeliveryAgentPercent,
			SiteManagerPercent:     row.SiteManagerPercent,
			ReferralPercent:        row.ReferralPercent,
			DeliveryAgentForfeitTo: forfeitTargetOrDefault(row.DeliveryAgentForfeitTo),
			SiteManagerForfeitTo:   forfeitTargetOrDefault(row.SiteManagerForfeitTo),
			ReferralForfeitTo:      forfeitTargetOrDefault(row.ReferralForfeitTo),
		}
	}

	return NewTable(policies)
}

func forfeitTargetOrDefault(s string) ForfeitTarget {
	if s == "" {
		return ForfeitToPlatform
	}
	return ForfeitTarget(s)
}
