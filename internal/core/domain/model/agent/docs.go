// Package agent contains the participant registry aggregate and the closed set
// of marketplace roles. Agents are the independent parties that move orders
// through the fulfillment lifecycle: fast-delivery agents (local-market
// orders), pickup-delivery agents (physical orders), and pickup-site managers.
//
// Roles beyond the registrable three (buyer, seller, admin) exist only as
// acting roles for lifecycle transitions; they are not stored in the registry.
package agent
