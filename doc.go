// Package rebalance provides the types and functions to track a personal
// investment portfolio against a user-defined target allocation and to
// produce rebalancing guidance. It is designed to be local-first,
// auditable, and deterministic, ensuring users have full control and
// transparency over their financial decisions.
//
// The core functionalities include:
//   - Target Hierarchy: A two-level tree of major categories and
//     subcategories, each carrying a target ratio of the total portfolio
//     value. Edits are staged on a working copy and committed only when
//     the ratio-sum invariants hold.
//   - Portfolio Valuation: Holdings are joined with current market prices
//     to produce per-holding, per-category and total values. A failing
//     price lookup degrades that single holding to zero; it never aborts
//     the whole valuation.
//   - Deviation Analysis: Actual versus target values and ratios at both
//     hierarchy levels, in declaration order, with informational severity
//     bands for the presentation layer.
//   - Rebalancing Advice: Out-of-tolerance subcategories are corrected by
//     distributing the required adjustment across their holdings in
//     proportion to current weight, with lot-size aware rounding that
//     never overshoots and never recommends a short sale.
//   - Data Persistence: Hierarchy and holdings are encoded to and decoded
//     from human-readable JSONL files, one profile directory per owner.
//
// This package serves as the foundational logic for the `reb` command-line
// tool, ensuring that all operations are consistent and reproducible.
package rebalance
