package models

import (
	"strings"
	"time"
	"unicode"
)

// ProfileKey is the fixed primary key of the device's singleton profile row.
const ProfileKey = "profile"

// UserProfile identifies the device owner. Email is the remote identity key
// and is stored normalized (trimmed, lowercase).
type UserProfile struct {
	ID          string
	Email       string
	DisplayName string
	GroupName   string
	GroupCode   string
	Descriptor  string
	CreatedAt   time.Time
}

// NormalizeEmail lowercases and trims an address so the same user maps to the
// same remote identity from any device.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DeriveGroupCode builds the short group slug from the group name, falling
// back to the local part of the email when the name yields nothing usable.
func DeriveGroupCode(groupName, email string) string {
	var b strings.Builder
	for _, word := range strings.Fields(groupName) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
		if b.Len() >= 6 {
			break
		}
	}
	if b.Len() > 0 {
		return b.String()
	}

	local, _, _ := strings.Cut(NormalizeEmail(email), "@")
	var f strings.Builder
	for _, r := range local {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			f.WriteRune(unicode.ToUpper(r))
		}
		if f.Len() >= 6 {
			break
		}
	}
	return f.String()
}
