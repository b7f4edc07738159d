package payer

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"

	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/Samisha68/x402-solana-hackathon/pkg/types"
)

// Fixed compute budget for one token transfer, generous enough to cover the
// optional associated token account creation.
const computeUnitLimit uint32 = 60_000

// Minimal non-zero priority fee. Must stay under the facilitator's accepted
// ceiling or settlement simulation rejects the transaction.
const computeUnitPriceMicroLamports uint64 = 1_000

// ChainReader is the subset of the Solana RPC client the builder needs.
// *rpc.Client satisfies it; tests use a stub.
type ChainReader interface {
	GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
	GetTokenAccountBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
}

// BuildPaymentTransaction assembles the unsigned payment transaction for
// the given requirements.
//
// The instruction order is a contract with the facilitator's simulator and
// is fixed: compute-unit limit, compute-unit price, then the recipient's
// associated token account creation only when that account does not exist
// yet, then a TransferChecked for the exact amount. The total count must be
// exactly 3 or 4; anything else is fatal.
//
// The fee payer is always the facilitator's address from extra.feePayer,
// never the end user. The blockhash is fetched last, immediately before the
// caller signs: a blockhash fetched earlier goes stale and fails on-chain
// simulation at settlement time.
func BuildPaymentTransaction(
	ctx context.Context,
	chain ChainReader,
	signer *Signer,
	requirements *types.PaymentRequirements,
) (*solana.Transaction, error) {
	if signer == nil {
		return nil, ErrWalletNotConnected
	}
	if requirements.Asset == "" {
		return nil, ErrMissingAsset
	}
	if requirements.Extra == nil || requirements.Extra.FeePayer == "" {
		return nil, ErrMissingFeePayer
	}

	mintPubkey, err := solana.PublicKeyFromBase58(requirements.Asset)
	if err != nil {
		return nil, fmt.Errorf("invalid asset address: %w", err)
	}

	payToPubkey, err := solana.PublicKeyFromBase58(requirements.PayTo)
	if err != nil {
		return nil, fmt.Errorf("invalid payTo address: %w", err)
	}

	feePayer, err := solana.PublicKeyFromBase58(requirements.Extra.FeePayer)
	if err != nil {
		return nil, fmt.Errorf("invalid feePayer address: %w", err)
	}

	amount, err := strconv.ParseUint(requirements.MaxAmountRequired, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	// The mint account tells us the token program and the decimals for the
	// checked transfer.
	mintAccount, err := chain.GetAccountInfo(ctx, mintPubkey)
	if err != nil || mintAccount == nil || mintAccount.Value == nil {
		return nil, fmt.Errorf("failed to get mint account %s: %w", requirements.Asset, err)
	}

	tokenProgramID := mintAccount.Value.Owner
	if tokenProgramID != solana.TokenProgramID && tokenProgramID != solana.Token2022ProgramID {
		return nil, fmt.Errorf("asset was not created by a known token program")
	}

	var mintData token.Mint
	if err := bin.NewBinDecoder(mintAccount.Value.Data.GetBinary()).Decode(&mintData); err != nil {
		return nil, fmt.Errorf("failed to decode mint data: %w", err)
	}

	sourceATA, _, err := solana.FindAssociatedTokenAddress(signer.Address(), mintPubkey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive source ATA: %w", err)
	}

	destinationATA, _, err := solana.FindAssociatedTokenAddress(payToPubkey, mintPubkey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive destination ATA: %w", err)
	}

	sourceAccount, err := chain.GetAccountInfo(ctx, sourceATA)
	if err != nil || sourceAccount == nil || sourceAccount.Value == nil {
		return nil, fmt.Errorf("%w: no token account for mint %s owned by %s",
			ErrMissingTokenAccount, requirements.Asset, signer.Address())
	}

	balance, err := chain.GetTokenAccountBalance(ctx, sourceATA, rpc.CommitmentConfirmed)
	if err != nil || balance == nil || balance.Value == nil {
		return nil, fmt.Errorf("failed to get token balance: %w", err)
	}
	held, err := strconv.ParseUint(balance.Value.Amount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid token balance %q: %w", balance.Value.Amount, err)
	}
	if held < amount {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, held, amount)
	}

	destAccount, err := chain.GetAccountInfo(ctx, destinationATA)
	needCreate := err != nil || destAccount == nil || destAccount.Value == nil

	cuLimit, err := computebudget.NewSetComputeUnitLimitInstructionBuilder().
		SetUnits(computeUnitLimit).
		ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("failed to build compute limit instruction: %w", err)
	}

	cuPrice, err := computebudget.NewSetComputeUnitPriceInstructionBuilder().
		SetMicroLamports(computeUnitPriceMicroLamports).
		ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("failed to build compute price instruction: %w", err)
	}

	transferIx, err := token.NewTransferCheckedInstructionBuilder().
		SetAmount(amount).
		SetDecimals(mintData.Decimals).
		SetSourceAccount(sourceATA).
		SetMintAccount(mintPubkey).
		SetDestinationAccount(destinationATA).
		SetOwnerAccount(signer.Address()).
		ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("failed to build transfer instruction: %w", err)
	}

	txBuilder := solana.NewTransactionBuilder().
		AddInstruction(cuLimit).
		AddInstruction(cuPrice)

	if needCreate {
		// The facilitator pays the rent for the recipient's account, same
		// as the transaction fee.
		createATA, err := associatedtokenaccount.NewCreateInstruction(
			feePayer,
			payToPubkey,
			mintPubkey,
		).ValidateAndBuild()
		if err != nil {
			return nil, fmt.Errorf("failed to build ATA create instruction: %w", err)
		}
		txBuilder.AddInstruction(createATA)
	}

	txBuilder.AddInstruction(transferIx)

	latestBlockhash, err := chain.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}

	tx, err := txBuilder.
		SetRecentBlockHash(latestBlockhash.Value.Blockhash).
		SetFeePayer(feePayer).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	expected := 3
	if needCreate {
		expected = 4
	}
	if got := len(tx.Message.Instructions); got != expected {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInstructionCountMismatch, got, expected)
	}

	return tx, nil
}

// EncodeTransaction serializes a (partially signed) transaction to base64.
// Missing signatures are serialized as zero bytes; the facilitator fills
// the fee payer slot before broadcast.
func EncodeTransaction(tx *solana.Transaction) (string, error) {
	txBytes, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(txBytes), nil
}
