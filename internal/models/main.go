// Package models defines the core data structures for users, categories,
// and transactions, along with input validation helpers.
package models

import (
	"regexp"
	"strings"
	"time"
)

// EntryType classifies a transaction or category as money in or money out.
type EntryType string

const (
	// Income marks money received.
	Income EntryType = "income"
	// Expense marks money spent.
	Expense EntryType = "expense"
)

// ParseEntryType normalizes a raw type string to an EntryType.
// The comparison is case-insensitive; unknown values return false.
func ParseEntryType(raw string) (EntryType, bool) {
	switch EntryType(strings.ToLower(strings.TrimSpace(raw))) {
	case Income:
		return Income, true
	case Expense:
		return Expense, true
	}
	return "", false
}

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user (hex document id).
	ID string `bson:"_id,omitempty" json:"_id"`
	// Username is the display name chosen by the user.
	Username string `bson:"username" json:"username"`
	// Email is the unique login email.
	Email string `bson:"email" json:"email"`
	// PasswordHash is the bcrypt hash of the user's password.
	// The plaintext password never leaves the signup/login request boundary.
	PasswordHash []byte `bson:"password" json:"-"`
	// TransactionIDs holds ordered references to the user's transactions.
	TransactionIDs []string `bson:"transactions" json:"-"`
	// CreatedAt is the account creation timestamp.
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Identity is the user data embedded in a verified bearer token.
type Identity struct {
	// ID is the user's unique identifier.
	ID string `json:"_id"`
	// Username is the user's display name.
	Username string `json:"username"`
	// Email is the user's login email.
	Email string `json:"email"`
}

// Category classifies transactions. Categories are scoped to their owner;
// (OwnerID, Name, Type) is the natural de-duplication key.
type Category struct {
	// ID is the unique identifier for the category (hex document id).
	ID string `bson:"_id,omitempty" json:"_id"`
	// OwnerID references the user the category belongs to.
	OwnerID string `bson:"ownerId" json:"-"`
	// Name is the trimmed display name.
	Name string `bson:"name" json:"name"`
	// Type is income or expense.
	Type EntryType `bson:"type" json:"type"`
	// Description is optional free text.
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// Transaction is a single financial event. Every transaction belongs to
// exactly one user and references exactly one category.
type Transaction struct {
	// ID is the unique identifier for the transaction (hex document id).
	ID string `bson:"_id,omitempty" json:"_id"`
	// UserID references the owning user.
	UserID string `bson:"userId" json:"userId"`
	// Type is income or expense.
	Type EntryType `bson:"type" json:"type"`
	// Amount is the positive transaction amount.
	Amount float64 `bson:"amount" json:"amount"`
	// CategoryID references the transaction's category.
	CategoryID string `bson:"category" json:"-"`
	// Category is the resolved category, populated on reads.
	Category *Category `bson:"-" json:"category,omitempty"`
	// Date is when the transaction occurred. Defaults to creation time.
	Date time.Time `bson:"date" json:"date"`
	// Description is optional free text.
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// TransactionInput carries the fields for creating a transaction.
// Category is a name; a matching category is created on first use.
type TransactionInput struct {
	Type        string
	Amount      float64
	Category    string
	Date        *time.Time
	Description string
}

// TransactionUpdate carries a partial update. Nil fields are left untouched.
type TransactionUpdate struct {
	ID          string
	Type        *string
	Amount      *float64
	CategoryID  *string
	Date        *time.Time
	Description *string
}

// MinPasswordLen is the minimum accepted password length before hashing.
const MinPasswordLen = 6

var emailPattern = regexp.MustCompile(`^.+@.+\..+$`)

// ValidEmail reports whether s is email-shaped.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPassword reports whether the plaintext password meets the length floor.
func ValidPassword(s string) bool {
	return len(s) >= MinPasswordLen
}
