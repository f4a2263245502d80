// Package engine implements the induction ranking engine.
//
// Every function in this package is a pure computation over an in-memory
// fleet snapshot. Inputs are never mutated: ranking and simulation work on
// private deep copies, so callers may share one baseline across any number
// of concurrent requests.
//
// The engine has five parts:
//
//   - Eligibility: IsEligible decides whether a train may enter revenue
//     service at all.
//   - Scoring: Assess and Score grade a train out of 100 from five capped
//     sub-scores. Ineligible trains always score 0.
//   - Ranking: Rank assigns ranks 1..N, eligible trains first, keeping
//     previously assigned ranks stable so small changes do not reshuffle
//     the whole list.
//   - Conflicts: DetectConflicts reports certificate and maintenance
//     problems that block induction.
//   - Simulation: Simulator forks the fleet, applies a single-train
//     Mutation, re-ranks and reports the Impact against the baseline.
//
// Failures are reported as *Error values with a stable Code. A scenario
// whose precondition does not hold (activating a train that is not on
// standby) is not a failure: it yields an unapplied Scenario with zero
// impact.
package engine
