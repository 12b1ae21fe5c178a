package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrUserRejected is returned when the user declines to sign
	ErrUserRejected = errors.New("user rejected the signing request")
	// ErrNotConnected is returned when no wallet is connected
	ErrNotConnected = errors.New("wallet not connected")
)

// Wallet exposes the connected public key, if any
type Wallet interface {
	PublicKey() (solana.PublicKey, bool)
}

// BatchSigner signs a set of transactions in a single user interaction.
// Wallets that cannot do so simply do not implement it.
type BatchSigner interface {
	SignAllTransactions(ctx context.Context, txs []*solana.Transaction) ([]*solana.Transaction, error)
}

// Approver is asked once per batch whether count transactions may be signed
type Approver func(count int) bool

// Keypair is a wallet backed by a local private key
type Keypair struct {
	privateKey solana.PrivateKey
	publicKey  solana.PublicKey
	approve    Approver
}

// NewKeypair creates a keypair wallet. A nil approver signs without asking.
func NewKeypair(privateKey solana.PrivateKey, approve Approver) *Keypair {
	return &Keypair{
		privateKey: privateKey,
		publicKey:  privateKey.PublicKey(),
		approve:    approve,
	}
}

// PublicKey returns the wallet address
func (k *Keypair) PublicKey() (solana.PublicKey, bool) {
	return k.publicKey, true
}

// SignAllTransactions adds the wallet signature to every transaction after a
// single approval for the whole batch. Signatures already present are kept.
func (k *Keypair) SignAllTransactions(ctx context.Context, txs []*solana.Transaction) ([]*solana.Transaction, error) {
	if k.approve != nil && !k.approve(len(txs)) {
		return nil, ErrUserRejected
	}

	for i, tx := range txs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		slot := k.signerSlot(tx)
		if slot < 0 {
			return nil, fmt.Errorf("failed to sign transaction %d: %s is not a required signer", i+1, k.publicKey)
		}

		_, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
			if key.Equals(k.publicKey) {
				return &k.privateKey
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to sign transaction %d: %w", i+1, err)
		}
		if tx.Signatures[slot].IsZero() {
			return nil, fmt.Errorf("failed to sign transaction %d: signature slot %d left empty", i+1, slot)
		}
	}
	return txs, nil
}

// signerSlot returns the index of the wallet among the required signers, or -1
func (k *Keypair) signerSlot(tx *solana.Transaction) int {
	required := int(tx.Message.Header.NumRequiredSignatures)
	for i, key := range tx.Message.AccountKeys {
		if i >= required {
			break
		}
		if key.Equals(k.publicKey) {
			return i
		}
	}
	return -1
}
