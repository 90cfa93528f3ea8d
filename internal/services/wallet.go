// Package services – mock wallet generation
//
// The wallet shown in the payments screen is demonstrational: address,
// private key, and mnemonic are random strings shaped like real key
// material but carry no cryptographic meaning. Randomness still comes from
// crypto/rand so generated wallets never collide.
package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/nkarpov/go-superapp-backend/internal/domain"
)

// mnemonicWords is a compact word pool for demo mnemonics. Not a BIP-39
// list; the mnemonic is display-only.
var mnemonicWords = []string{
	"apple", "breeze", "candle", "dragon", "ember", "forest", "garnet", "harbor",
	"island", "jungle", "kettle", "lantern", "meadow", "nectar", "orbit", "pebble",
	"quartz", "river", "saddle", "timber", "umbrella", "violet", "walnut", "yonder",
	"zephyr", "anchor", "beacon", "copper", "dusk", "falcon", "glacier", "horizon",
}

// generateWallet builds a fresh mock wallet for userID: an 0x-prefixed
// 20-byte address, a 32-byte private key, and a 12-word mnemonic.
func generateWallet(userID string) (*domain.Wallet, error) {
	addr, err := randomHex(20)
	if err != nil {
		return nil, fmt.Errorf("generate address: %w", err)
	}
	key, err := randomHex(32)
	if err != nil {
		return nil, fmt.Errorf("generate private key: %w", err)
	}
	mnemonic, err := randomMnemonic(12)
	if err != nil {
		return nil, fmt.Errorf("generate mnemonic: %w", err)
	}
	return &domain.Wallet{
		UserID:     userID,
		Address:    "0x" + addr,
		PrivateKey: key,
		Mnemonic:   mnemonic,
	}, nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func randomMnemonic(words int) (string, error) {
	out := make([]string, 0, words)
	max := big.NewInt(int64(len(mnemonicWords)))
	for i := 0; i < words; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out = append(out, mnemonicWords[idx.Int64()])
	}
	return strings.Join(out, " "), nil
}
