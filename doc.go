// Package auth implements the credential lifecycle for user accounts:
// registration validation, password login, signed session tokens, and the
// email-confirmation gate that stands between the two.
//
// Credential engine:
//   - CredentialEngine orchestrates Register, Login, ConfirmEmail, and
//     ResendConfirmation against an abstract UserStore and
//     NotificationDispatcher. It owns every policy decision: the validation
//     rule set, the duplicate checks, the login failure ordering, and the
//     monotonic confirmation flag (false to true, never back).
//   - Registration accumulates every violation before failing, so callers
//     can report the full error list in one response. Uniqueness conflicts
//     surfaced by the store during create map to the same DuplicateEmail /
//     DuplicateUserName codes as the pre-check.
//
// Tokens:
//   - TokenService signs HS256 JWTs whose claims are exactly the subject
//     id, username, and email of a confirmed identity. Validation checks
//     signature, issuer, audience, and expiry; all four are mandatory.
//
// Collaborators:
//   - UserStore and NotificationDispatcher are consumed interfaces. A Bun
//     backed store (NewUsersStore) and a Redis queue dispatcher
//     (NewQueueDispatcher) ship as reference adapters; confirmation email
//     dispatch is a single best-effort attempt that never fails the parent
//     operation.
package auth
