package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("sup3rsecret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "sup3rsecret" {
		t.Fatal("password not hashed")
	}

	if !CheckPassword(hash, "sup3rsecret") {
		t.Error("CheckPassword rejected the correct password")
	}
	if CheckPassword(hash, "wrongpass") {
		t.Error("CheckPassword accepted a wrong password")
	}
}
