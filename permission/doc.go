// Package permission implements the client-side role/action policy used to
// gate resource operations before any request leaves the process.
//
// The policy is a static grant table, not a trust boundary: the backend
// enforces authorization independently, and this package only exists so the
// client can skip requests that are certain to be rejected. Lookups fail
// closed — an unknown action or an absent role always denies.
package permission
