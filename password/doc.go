// Package password hashes and verifies user passwords with Argon2id in
// the standard PHC string format, so hashes remain portable across
// implementations and parameter upgrades.
package password
