package payer

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/Samisha68/x402-solana-hackathon/pkg/types"
)

// stubChain serves canned account lookups so transactions can be built
// without an RPC endpoint.
type stubChain struct {
	accounts  map[solana.PublicKey]*rpc.Account
	balances  map[solana.PublicKey]string
	blockhash solana.Hash
}

func (s *stubChain) GetAccountInfo(_ context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	acc, ok := s.accounts[account]
	if !ok {
		return nil, errors.New("not found")
	}
	return &rpc.GetAccountInfoResult{Value: acc}, nil
}

func (s *stubChain) GetTokenAccountBalance(_ context.Context, account solana.PublicKey, _ rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error) {
	amount, ok := s.balances[account]
	if !ok {
		return nil, errors.New("not found")
	}
	return &rpc.GetTokenAccountBalanceResult{
		Value: &rpc.UiTokenAmount{Amount: amount, Decimals: 6},
	}, nil
}

func (s *stubChain) GetLatestBlockhash(_ context.Context, _ rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{
			Blockhash:            s.blockhash,
			LastValidBlockHeight: 1000,
		},
	}, nil
}

// mintAccountData builds the 82-byte SPL mint account layout: a 36-byte
// COption mint authority, u64 supply, decimals, initialized flag, and a
// 36-byte COption freeze authority.
func mintAccountData(decimals uint8) []byte {
	data := make([]byte, 82)
	data[0] = 1 // mint authority present
	binary.LittleEndian.PutUint64(data[36:44], 1_000_000_000)
	data[44] = decimals
	data[45] = 1 // initialized
	data[46] = 1 // freeze authority present
	return data
}

type builderFixture struct {
	chain        *stubChain
	signer       *Signer
	requirements *types.PaymentRequirements
	mint         solana.PublicKey
	payTo        solana.PublicKey
	feePayer     solana.PublicKey
	sourceATA    solana.PublicKey
	destATA      solana.PublicKey
}

func newBuilderFixture(t *testing.T) *builderFixture {
	t.Helper()

	wallet := solana.NewWallet()
	signer, err := NewSignerFromPrivateKey(wallet.PrivateKey.String())
	if err != nil {
		t.Fatalf("failed to create signer: %v", err)
	}

	mint := solana.NewWallet().PublicKey()
	payTo := solana.NewWallet().PublicKey()
	feePayer := solana.NewWallet().PublicKey()

	sourceATA, _, err := solana.FindAssociatedTokenAddress(signer.Address(), mint)
	if err != nil {
		t.Fatalf("failed to derive source ATA: %v", err)
	}
	destATA, _, err := solana.FindAssociatedTokenAddress(payTo, mint)
	if err != nil {
		t.Fatalf("failed to derive destination ATA: %v", err)
	}

	chain := &stubChain{
		accounts: map[solana.PublicKey]*rpc.Account{
			mint: {
				Owner: solana.TokenProgramID,
				Data:  rpc.DataBytesOrJSONFromBytes(mintAccountData(6)),
			},
			sourceATA: {Owner: solana.TokenProgramID},
		},
		balances: map[solana.PublicKey]string{
			sourceATA: "50000",
		},
		blockhash: solana.Hash(solana.NewWallet().PublicKey()),
	}

	return &builderFixture{
		chain:  chain,
		signer: signer,
		requirements: &types.PaymentRequirements{
			Scheme:            "exact",
			Network:           "solana-devnet",
			MaxAmountRequired: "10000",
			Resource:          "https://example.com/unlock",
			PayTo:             payTo.String(),
			MaxTimeoutSeconds: 60,
			Asset:             mint.String(),
			Extra:             &types.PaymentExtra{FeePayer: feePayer.String()},
		},
		mint:      mint,
		payTo:     payTo,
		feePayer:  feePayer,
		sourceATA: sourceATA,
		destATA:   destATA,
	}
}

func programAt(t *testing.T, tx *solana.Transaction, index int) solana.PublicKey {
	t.Helper()
	ix := tx.Message.Instructions[index]
	program, err := tx.Message.Program(ix.ProgramIDIndex)
	if err != nil {
		t.Fatalf("failed to resolve program for instruction %d: %v", index, err)
	}
	return program
}

func TestBuildWithExistingDestination(t *testing.T) {
	t.Parallel()

	f := newBuilderFixture(t)
	f.chain.accounts[f.destATA] = &rpc.Account{Owner: solana.TokenProgramID}

	tx, err := BuildPaymentTransaction(context.Background(), f.chain, f.signer, f.requirements)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if got := len(tx.Message.Instructions); got != 3 {
		t.Fatalf("expected 3 instructions when the destination exists, got %d", got)
	}
	if got := programAt(t, tx, 0); !got.Equals(solana.ComputeBudget) {
		t.Errorf("instruction 0 must be a compute budget instruction, got %s", got)
	}
	if got := programAt(t, tx, 1); !got.Equals(solana.ComputeBudget) {
		t.Errorf("instruction 1 must be a compute budget instruction, got %s", got)
	}
	if got := programAt(t, tx, 2); !got.Equals(solana.TokenProgramID) {
		t.Errorf("instruction 2 must be the token transfer, got %s", got)
	}

	if !tx.Message.AccountKeys[0].Equals(f.feePayer) {
		t.Errorf("fee payer must be the facilitator address, got %s", tx.Message.AccountKeys[0])
	}
}

func TestBuildCreatesMissingDestination(t *testing.T) {
	t.Parallel()

	f := newBuilderFixture(t)
	// No destination ATA in the stub: the builder must insert the create
	// instruction between the compute budget pair and the transfer.

	tx, err := BuildPaymentTransaction(context.Background(), f.chain, f.signer, f.requirements)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if got := len(tx.Message.Instructions); got != 4 {
		t.Fatalf("expected 4 instructions when the destination is missing, got %d", got)
	}
	if got := programAt(t, tx, 2); !got.Equals(solana.SPLAssociatedTokenAccountProgramID) {
		t.Errorf("instruction 2 must create the destination ATA, got %s", got)
	}
	if got := programAt(t, tx, 3); !got.Equals(solana.TokenProgramID) {
		t.Errorf("instruction 3 must be the token transfer, got %s", got)
	}
}

func TestBuildPreconditionErrors(t *testing.T) {
	t.Parallel()

	f := newBuilderFixture(t)
	ctx := context.Background()

	if _, err := BuildPaymentTransaction(ctx, f.chain, nil, f.requirements); !errors.Is(err, ErrWalletNotConnected) {
		t.Errorf("nil signer: expected ErrWalletNotConnected, got %v", err)
	}

	noAsset := *f.requirements
	noAsset.Asset = ""
	if _, err := BuildPaymentTransaction(ctx, f.chain, f.signer, &noAsset); !errors.Is(err, ErrMissingAsset) {
		t.Errorf("missing asset: expected ErrMissingAsset, got %v", err)
	}

	noFeePayer := *f.requirements
	noFeePayer.Extra = &types.PaymentExtra{}
	if _, err := BuildPaymentTransaction(ctx, f.chain, f.signer, &noFeePayer); !errors.Is(err, ErrMissingFeePayer) {
		t.Errorf("missing fee payer: expected ErrMissingFeePayer, got %v", err)
	}
}

func TestBuildMissingSourceAccount(t *testing.T) {
	t.Parallel()

	f := newBuilderFixture(t)
	delete(f.chain.accounts, f.sourceATA)

	_, err := BuildPaymentTransaction(context.Background(), f.chain, f.signer, f.requirements)
	if !errors.Is(err, ErrMissingTokenAccount) {
		t.Errorf("expected ErrMissingTokenAccount, got %v", err)
	}
}

func TestBuildInsufficientBalance(t *testing.T) {
	t.Parallel()

	f := newBuilderFixture(t)
	f.chain.balances[f.sourceATA] = "9999"

	_, err := BuildPaymentTransaction(context.Background(), f.chain, f.signer, f.requirements)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestBuildRejectsNonTokenMint(t *testing.T) {
	t.Parallel()

	f := newBuilderFixture(t)
	f.chain.accounts[f.mint].Owner = solana.SystemProgramID

	if _, err := BuildPaymentTransaction(context.Background(), f.chain, f.signer, f.requirements); err == nil {
		t.Error("expected error for a mint not owned by a token program")
	}
}

func TestPartialSigningLeavesFeePayerSlotEmpty(t *testing.T) {
	t.Parallel()

	f := newBuilderFixture(t)

	tx, err := BuildPaymentTransaction(context.Background(), f.chain, f.signer, f.requirements)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if err := f.signer.SignTransaction(context.Background(), tx); err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	// The fee payer is account 0 and its signature slot must stay zeroed
	// for the facilitator to fill.
	if tx.Signatures[0] != (solana.Signature{}) {
		t.Error("fee payer slot must not be signed by the user")
	}

	signerIndex, err := tx.GetAccountIndex(f.signer.Address())
	if err != nil {
		t.Fatalf("signer not in account keys: %v", err)
	}
	if tx.Signatures[signerIndex] == (solana.Signature{}) {
		t.Error("expected a signature in the transfer authority slot")
	}

	// The partially signed transaction must still serialize.
	encoded, err := EncodeTransaction(tx)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if encoded == "" {
		t.Error("expected non-empty base64 transaction")
	}
}

func TestNetworkConfig(t *testing.T) {
	t.Parallel()

	config, err := GetNetworkConfig("solana-devnet")
	if err != nil {
		t.Fatalf("expected devnet config, got: %v", err)
	}
	if config.USDCMint != "4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU" {
		t.Errorf("unexpected devnet USDC mint: %s", config.USDCMint)
	}

	if _, err := GetNetworkConfig("base-sepolia"); err == nil {
		t.Error("expected error for an unsupported network")
	}

	if !IsValidNetwork("solana") || IsValidNetwork("solana-testnet") {
		t.Error("network validity check is wrong")
	}
}
