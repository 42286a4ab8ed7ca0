// ABOUTME: Owner allow-list filtering over normalized opportunities
// ABOUTME: Exact case-sensitive match, preserves input order, no side effects
package crm

import "github.com/harperreed/crmdigest/models"

// FilterByOwner retains only opportunities whose owner is in the
// allow-list. Matching is exact and case-sensitive. An empty result is
// a valid outcome, not an error.
func FilterByOwner(opps []models.Opportunity, owners []string) []models.Opportunity {
	allowed := make(map[string]struct{}, len(owners))
	for _, o := range owners {
		allowed[o] = struct{}{}
	}

	filtered := make([]models.Opportunity, 0, len(opps))
	for _, opp := range opps {
		if _, ok := allowed[opp.Owner]; ok {
			filtered = append(filtered, opp)
		}
	}
	return filtered
}
