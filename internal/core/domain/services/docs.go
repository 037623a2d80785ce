// Package services contains stateless domain services that coordinate logic
// across aggregates. The commission calculator is the only service here: a
// pure, deterministic function from order economics and realized participation
// to an itemized, money-conserving payout record.
package services
