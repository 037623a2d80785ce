// Package order contains the order aggregate and its lifecycle state machine.
//
// The state machine is a pure decision function: one closed Status enum, one
// closed Event enum, and a transition table per order category mapping
// (status, event) to exactly one successor status plus the set of roles allowed
// to trigger it. The aggregate mutates its status only through validated
// transitions; persistence is left entirely to the caller.
//
// Category determines the route. PHYSICAL orders travel seller → pickup site →
// buyer pickup and involve both a pickup-delivery agent and a site manager.
// LOCAL_MARKET orders travel seller → buyer directly via a fast-delivery agent.
package order
