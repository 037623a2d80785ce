// Package policy contains the commission policy table: per order category, the
// nominal percentage of the platform profit attributed to each participant
// role, and the routing rule for shares forfeited by absent participants.
//
// Percentages and forfeiture routing are injected configuration, not behavior.
// The compiled defaults in DefaultTable are placeholders for a product
// decision; deployments override them with a JSON policy file (see LoadTable).
package policy
