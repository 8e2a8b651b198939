package backup

import (
	"regexp"
	"testing"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9]{4}(-[A-Za-z0-9]{4}){3}$`)

func TestGenerateKeyFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		key, err := GenerateKey()
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if !keyPattern.MatchString(key) {
			t.Fatalf("key %q does not match the documented format", key)
		}
	}
}

func TestGenerateKeyVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		key, err := GenerateKey()
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		seen[key] = true
	}
	if len(seen) < 2 {
		t.Fatalf("keys should vary between calls")
	}
}
