package chain

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/nutcas3/tokenized-credit/internal/faults"
)

// =============================================================================
// Signing Wallet
// =============================================================================

// Wallet holds the relay's signing key. It is the one shared non-re-entrant
// resource in the system; the nonce counter is guarded for concurrent write
// calls.
type Wallet struct {
	privateKey *ecdsa.PrivateKey
	address    string

	nonceMu sync.Mutex
	nonce   uint64
}

// NewWallet creates a wallet from a hex-encoded 32-byte private key. The
// "0x" prefix is accepted and ignored.
func NewWallet(privateKeyHex string) (*Wallet, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")
	if raw == "" {
		return nil, faults.NewConfiguration("PRIVATE_KEY")
	}

	keyBytes, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	if len(keyBytes) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(keyBytes))
	}

	curve := elliptic.P256()
	d := new(big.Int).SetBytes(keyBytes)
	if d.Sign() == 0 || d.Cmp(curve.Params().N) >= 0 {
		return nil, fmt.Errorf("private key out of curve range")
	}

	priv := &ecdsa.PrivateKey{
		D: d,
		PublicKey: ecdsa.PublicKey{
			Curve: curve,
		},
	}
	priv.PublicKey.X, priv.PublicKey.Y = curve.ScalarBaseMult(keyBytes)

	return &Wallet{
		privateKey: priv,
		address:    deriveAddress(&priv.PublicKey),
	}, nil
}

// Address returns the signer address as a 0x-prefixed hex string.
func (w *Wallet) Address() string { return w.address }

// SignPayload signs the Keccak-256 digest of payload and returns the
// signature as hex-encoded r||s.
func (w *Wallet) SignPayload(payload []byte) (string, error) {
	digest := keccak256(payload)

	r, s, err := ecdsa.Sign(rand.Reader, w.privateKey, digest)
	if err != nil {
		return "", fmt.Errorf("sign payload: %w", err)
	}

	sig := make([]byte, 64)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])
	return hex.EncodeToString(sig), nil
}

// NextNonce returns the next transaction nonce.
func (w *Wallet) NextNonce() uint64 {
	w.nonceMu.Lock()
	defer w.nonceMu.Unlock()
	w.nonce++
	return w.nonce
}

// deriveAddress derives the 20-byte account address from a public key:
// the last 20 bytes of keccak256(X || Y).
func deriveAddress(pub *ecdsa.PublicKey) string {
	buf := make([]byte, 64)
	pub.X.FillBytes(buf[:32])
	pub.Y.FillBytes(buf[32:])
	digest := keccak256(buf)
	return "0x" + hex.EncodeToString(digest[12:])
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
