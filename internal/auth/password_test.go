package auth

import "testing"

func TestHashPassword(t *testing.T) {
	password := "testpassword123"

	hashed, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	if hashed == "" {
		t.Error("Hashed password should not be empty")
	}
	if hashed == password {
		t.Error("Hashed password should be different from original")
	}

	// bcrypt salts: two hashes of the same input must differ
	hashed2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password second time: %v", err)
	}
	if hashed == hashed2 {
		t.Error("Different hashes should be generated for same password")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "testpassword123"

	hashed, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	if !CheckPassword(hashed, password) {
		t.Error("CheckPassword should return true for correct password")
	}
	if CheckPassword(hashed, "wrongpassword") {
		t.Error("CheckPassword should return false for wrong password")
	}
	if CheckPassword(hashed, "") {
		t.Error("CheckPassword should return false for empty password")
	}
}
