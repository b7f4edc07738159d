package payer

import (
	"context"
	"fmt"

	solana "github.com/gagliardetto/solana-go"
)

// SignTransactionFunc is the callback used to sign Solana transactions.
// Wallet integrations provide their own; local keys use the private-key
// constructor below.
type SignTransactionFunc func(ctx context.Context, tx *solana.Transaction) error

// Signer partially signs payment transactions as the transfer authority.
// The fee payer slot is never signed here: it belongs to the facilitator.
type Signer struct {
	publicKey       solana.PublicKey
	signTransaction SignTransactionFunc
}

// NewSigner creates a signer from a public key and signing callback.
func NewSigner(publicKey solana.PublicKey, signFunc SignTransactionFunc) (*Signer, error) {
	if publicKey == (solana.PublicKey{}) {
		return nil, fmt.Errorf("public key is required")
	}
	if signFunc == nil {
		return nil, fmt.Errorf("sign callback is required")
	}

	return &Signer{
		publicKey:       publicKey,
		signTransaction: signFunc,
	}, nil
}

// NewSignerFromPrivateKey creates a signer from a base58-encoded private key.
func NewSignerFromPrivateKey(privateKeyBase58 string) (*Signer, error) {
	privateKey, err := solana.PrivateKeyFromBase58(privateKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	signFunc := func(ctx context.Context, tx *solana.Transaction) error {
		return signTransactionWithPrivateKey(ctx, privateKey, tx)
	}

	return NewSigner(privateKey.PublicKey(), signFunc)
}

// Address returns the Solana public key of the signer.
func (s *Signer) Address() solana.PublicKey {
	return s.publicKey
}

// SignTransaction adds the signer's signature to the transaction at the
// appropriate index, leaving other slots untouched.
func (s *Signer) SignTransaction(ctx context.Context, tx *solana.Transaction) error {
	return s.signTransaction(ctx, tx)
}

func signTransactionWithPrivateKey(_ context.Context, privateKey solana.PrivateKey, tx *solana.Transaction) error {
	messageBytes, err := tx.Message.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	signature, err := privateKey.Sign(messageBytes)
	if err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}

	accountIndex, err := tx.GetAccountIndex(privateKey.PublicKey())
	if err != nil {
		return fmt.Errorf("failed to get account index: %w", err)
	}

	if len(tx.Signatures) <= int(accountIndex) {
		newSignatures := make([]solana.Signature, accountIndex+1)
		copy(newSignatures, tx.Signatures)
		tx.Signatures = newSignatures
	}

	tx.Signatures[accountIndex] = signature

	return nil
}
