// Package token implements the notifying token ledger: an account balance
// ledger whose transfers resolve sender and recipient hooks through an
// interface directory and invoke them synchronously around an atomic
// balance movement.
//
// The order of a transfer is fixed: balance check, sender-side hook,
// atomic debit/credit, recipient-side hook, recipient acknowledgement
// enforcement. Hooks run untrusted code which may re-enter the ledger; no
// internal lock is held across a hook call, and a re-entrant observer sees
// either the pre-transfer or the post-transfer balances, never a partial
// application. Every failure mode aborts the whole operation with state
// fully rolled back.
//
// A Ledger executes its operations sequentially (one at a time per
// instance, including re-entrant operations started from hook code).
// Accessor methods are safe to call concurrently.
package token
