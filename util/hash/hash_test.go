package hash

import "testing"

func TestHashAndCheck(t *testing.T) {
	h, err := HashPassword("supersecret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h == "supersecret" {
		t.Fatal("hash equals plaintext")
	}
	if !Check(h, "supersecret") {
		t.Fatal("Check rejected the right password")
	}
	if Check(h, "wrong") {
		t.Fatal("Check accepted a wrong password")
	}
}

func TestCheck_BadHash(t *testing.T) {
	if Check("not-a-bcrypt-hash", "anything") {
		t.Fatal("Check accepted a malformed hash")
	}
}
