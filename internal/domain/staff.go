package domain

import (
	"strings"
	"time"
)

// StaffAccount is a write-once login for clinic staff.
type StaffAccount struct {
	ID         string    `json:"id"`
	GivenName  string    `json:"givenName"`
	FamilyName string    `json:"familyName"`
	Email      string    `json:"email"`
	SecretHash string    `json:"secretHash"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (a StaffAccount) RecordID() string { return a.ID }

type SignupRequest struct {
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
	Email      string `json:"email"`
	Secret     string `json:"secret"`
}

type LoginRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

type SignupResponse struct {
	OK bool `json:"ok"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// Normalize trims names and lowercases the email. The secret is left untouched.
func (r *SignupRequest) Normalize() {
	r.GivenName = strings.TrimSpace(r.GivenName)
	r.FamilyName = strings.TrimSpace(r.FamilyName)
	r.Email = NormalizeEmail(r.Email)
}

func (r *SignupRequest) Validate() error {
	return requireFields(
		field{"givenName", r.GivenName},
		field{"familyName", r.FamilyName},
		field{"email", r.Email},
		field{"secret", r.Secret},
	)
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

func (r *LoginRequest) Validate() error {
	return requireFields(
		field{"email", r.Email},
		field{"secret", r.Secret},
	)
}

// NormalizeEmail normalizes email addresses (lowercase and trim)
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SameEmail compares two addresses ignoring case and surrounding space.
func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
