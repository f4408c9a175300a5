package chain

import (
	"strings"
	"testing"

	"github.com/nutcas3/tokenized-credit/internal/faults"
)

const walletTestKey = "abababababababababababababababababababababababababababababababab"

func TestNewWallet_DerivesStableAddress(t *testing.T) {
	w1, err := NewWallet(walletTestKey)
	if err != nil {
		t.Fatalf("NewWallet() error = %v", err)
	}
	w2, err := NewWallet("0x" + walletTestKey)
	if err != nil {
		t.Fatalf("NewWallet() with prefix error = %v", err)
	}

	if w1.Address() != w2.Address() {
		t.Errorf("address differs with 0x prefix: %s vs %s", w1.Address(), w2.Address())
	}
	if !strings.HasPrefix(w1.Address(), "0x") || len(w1.Address()) != 42 {
		t.Errorf("address %s is not a 20-byte hex address", w1.Address())
	}
}

func TestNewWallet_MissingKey(t *testing.T) {
	if _, err := NewWallet(""); !faults.IsConfiguration(err) {
		t.Errorf("NewWallet(\"\") error = %v, want ConfigurationError", err)
	}
}

func TestNewWallet_BadKey(t *testing.T) {
	for _, key := range []string{"zz", "abcd", strings.Repeat("00", 32)} {
		if _, err := NewWallet(key); err == nil {
			t.Errorf("NewWallet(%q) should fail", key)
		}
	}
}

func TestSignPayload(t *testing.T) {
	w, err := NewWallet(walletTestKey)
	if err != nil {
		t.Fatal(err)
	}

	sig, err := w.SignPayload([]byte("payload"))
	if err != nil {
		t.Fatalf("SignPayload() error = %v", err)
	}
	if len(sig) != 128 {
		t.Errorf("signature hex length = %d, want 128", len(sig))
	}
}

func TestNextNonce_Monotonic(t *testing.T) {
	w, err := NewWallet(walletTestKey)
	if err != nil {
		t.Fatal(err)
	}

	a, b, c := w.NextNonce(), w.NextNonce(), w.NextNonce()
	if !(a < b && b < c) {
		t.Errorf("nonces not monotonic: %d %d %d", a, b, c)
	}
}
