package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"spendbook/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestPassword is the plaintext password all fixture users share.
const TestPassword = "password123"

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{Email: email, Password: string(hash)}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// ValidTransaction returns a transaction that survives normalization against
// the defaults document.
func ValidTransaction(note string) models.Transaction {
	return models.Transaction{
		ID:         fmt.Sprintf("tx_%d", nextID()),
		Date:       "2024-05-01",
		Type:       models.TransactionTypeExpense,
		Amount:     10,
		AccountID:  "acc_cash",
		CategoryID: "expense_food",
		Note:       note,
	}
}

// ValidBudget returns a budget that survives normalization against the
// defaults document.
func ValidBudget() models.Budget {
	return models.Budget{
		ID:         fmt.Sprintf("b_%d", nextID()),
		Month:      "2024-05",
		CategoryID: "expense_food",
		Amount:     300,
	}
}
