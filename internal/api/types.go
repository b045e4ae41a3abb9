package api

import (
	"encoding/json"
	"strconv"
	"strings"
)

// UserProfile is the canonical user record. The backend's shape varies by
// role, so fields outside the fixed set are preserved in Extra rather than
// dropped.
type UserProfile struct {
	ID          int
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	RoleID      int
	Nationality string
	Gender      string
	// Profile is the nested role-specific record (bio, hourly_rate,
	// rating, current_balance, ...), kept as raw fields.
	Profile map[string]json.RawMessage
	// Extra holds every top-level field outside the fixed set.
	Extra map[string]json.RawMessage

	hasRoleID bool
}

// HasRoleID reports whether the backend supplied a role identifier at all.
// A profile without one cannot be turned into a session.
func (u *UserProfile) HasRoleID() bool {
	return u.hasRoleID
}

// FullName returns the user's display name.
func (u *UserProfile) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// knownProfileFields are the top-level keys mapped onto struct fields;
// everything else lands in Extra.
var knownProfileFields = map[string]bool{
	"id":           true,
	"first_name":   true,
	"last_name":    true,
	"email":        true,
	"phone_number": true,
	"role_id":      true,
	"nationality":  true,
	"gender":       true,
	"profile":      true,
}

// UnmarshalJSON decodes a profile object, keeping unknown fields.
func (u *UserProfile) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	u.ID = jsonInt(fields["id"])
	u.FirstName = jsonString(fields["first_name"])
	u.LastName = jsonString(fields["last_name"])
	u.Email = jsonString(fields["email"])
	u.PhoneNumber = jsonString(fields["phone_number"])
	u.Nationality = jsonString(fields["nationality"])
	u.Gender = jsonString(fields["gender"])

	if raw, ok := fields["role_id"]; ok && !isJSONNull(raw) {
		u.RoleID = jsonInt(raw)
		u.hasRoleID = true
	}

	if raw, ok := fields["profile"]; ok && !isJSONNull(raw) {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err == nil {
			u.Profile = nested
		}
	}

	for name, raw := range fields {
		if knownProfileFields[name] {
			continue
		}
		if u.Extra == nil {
			u.Extra = make(map[string]json.RawMessage)
		}
		u.Extra[name] = raw
	}

	return nil
}

// MarshalJSON re-merges the fixed fields with the passthrough ones.
func (u *UserProfile) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Extra)+9)
	for name, raw := range u.Extra {
		out[name] = raw
	}

	out["id"] = u.ID
	out["first_name"] = u.FirstName
	out["last_name"] = u.LastName
	out["email"] = u.Email
	out["phone_number"] = u.PhoneNumber
	out["nationality"] = u.Nationality
	out["gender"] = u.Gender
	if u.hasRoleID {
		out["role_id"] = u.RoleID
	}
	if u.Profile != nil {
		out["profile"] = u.Profile
	}

	return json.Marshal(out)
}

// jsonString extracts a string value, tolerating numbers.
func jsonString(raw json.RawMessage) string {
	if len(raw) == 0 || isJSONNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// jsonInt extracts an integer value, tolerating numeric strings.
func jsonInt(raw json.RawMessage) int {
	if len(raw) == 0 || isJSONNull(raw) {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return 0
}

func isJSONNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

// ReferenceItem is one entry of backend reference data (education levels,
// classes, subjects, banks). Names come localized in two languages with an
// occasional plain fallback.
type ReferenceItem struct {
	ID     int    `json:"id"`
	NameEN string `json:"name_en,omitempty"`
	NameAR string `json:"name_ar,omitempty"`
	Name   string `json:"name,omitempty"`
}

// DisplayName returns the best available name for an item.
func (r ReferenceItem) DisplayName() string {
	if r.NameEN != "" {
		return r.NameEN
	}
	if r.Name != "" {
		return r.Name
	}
	return r.NameAR
}

// TeacherSubject is a subject assignment on a teacher account.
type TeacherSubject struct {
	ID               int             `json:"id"`
	NameEN           string          `json:"name_en"`
	NameAR           string          `json:"name_ar"`
	ClassID          int             `json:"class_id"`
	EducationLevelID int             `json:"education_level_id"`
	Subject          json.RawMessage `json:"subject,omitempty"`
	Class            json.RawMessage `json:"class,omitempty"`
	EducationLevel   json.RawMessage `json:"education_level,omitempty"`
}

// Course is a course owned by a teacher.
type Course struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Image       string  `json:"image,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Order is a student lesson request visible to teachers.
type Order struct {
	ID      int `json:"id"`
	Student struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"student"`
	Subject struct {
		NameEN string `json:"name_en"`
		NameAR string `json:"name_ar"`
	} `json:"subject"`
	Details   string `json:"details"`
	CreatedAt string `json:"created_at"`
	Status    string `json:"status"`
}

// Wallet is a teacher's balance summary.
type Wallet struct {
	CurrentBalance float64 `json:"current_balance"`
	PendingBalance float64 `json:"pending_balance,omitempty"`
	TotalEarnings  float64 `json:"total_earnings,omitempty"`
}

// BankAccount is a saved payout destination.
type BankAccount struct {
	ID                int    `json:"id"`
	UserID            int    `json:"user_id"`
	BankID            int    `json:"bank_id"`
	AccountNumber     string `json:"account_number"`
	AccountHolderName string `json:"account_holder_name"`
	IBAN              string `json:"iban"`
	SwiftCode         string `json:"swift_code,omitempty"`
	IsDefault         bool   `json:"-"`
	Bank              *struct {
		ID     int    `json:"id"`
		NameEN string `json:"name_en"`
		NameAR string `json:"name_ar"`
	} `json:"banks,omitempty"`
}

// UnmarshalJSON tolerates is_default arriving as either a number or a bool.
func (b *BankAccount) UnmarshalJSON(data []byte) error {
	type alias BankAccount
	aux := struct {
		*alias
		IsDefault json.RawMessage `json:"is_default"`
	}{alias: (*alias)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch string(aux.IsDefault) {
	case "true", "1":
		b.IsDefault = true
	}
	return nil
}

// Service is a bookable student-facing service.
type Service struct {
	ID     int    `json:"id"`
	NameEN string `json:"name_en"`
	NameAR string `json:"name_ar"`
	Image  string `json:"image,omitempty"`
}

// TeacherSummary is a teacher card shown to students.
type TeacherSummary struct {
	ID           int    `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	ProfilePhoto string `json:"profile_photo,omitempty"`
}
