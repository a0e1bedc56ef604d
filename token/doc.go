// Package token signs and verifies compact url-safe tokens bound to a
// secret and a salt. Keys are derived with PBKDF2-SHA256 per RFC 8018
// and signatures use HMAC-SHA256, so tokens signed under one salt never
// verify under another.
package token
