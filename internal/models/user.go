// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package models

import "time"

// User is an account in the in-memory user store.
type User struct {
	// ID is the internal user identifier.
	ID int `json:"id"`

	// Email is the unique login identifier.
	Email string `json:"email"`

	// Name is the display name.
	Name string `json:"name"`

	// PhotoURL is an optional avatar URL.
	PhotoURL string `json:"photo_url,omitempty"`

	// PasswordHash is the bcrypt hash of the password. Never serialized.
	PasswordHash []byte `json:"-"`

	// CreatedAt is when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// Achievement is a profile badge derived from activity counts.
type Achievement struct {
	// ID is the stable achievement identifier.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Description explains how the badge is earned.
	Description string `json:"description"`

	// Unlocked reports whether the user has earned the badge.
	Unlocked bool `json:"unlocked"`

	// Progress is the count toward Threshold.
	Progress int `json:"progress"`

	// Threshold is the count required to unlock.
	Threshold int `json:"threshold"`
}
