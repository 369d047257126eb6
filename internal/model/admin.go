package model

import "time"

// Admin is a back-office account allowed to manage slots and bookings.
// Passwords are stored only as bcrypt hashes; the core never sees a
// plaintext credential beyond the login boundary.
type Admin struct {
	ID           uint64    // admins.id
	Email        string    // admins.email
	PasswordHash string    // admins.password_hash
	CreatedAt    time.Time // admins.created_at
}
