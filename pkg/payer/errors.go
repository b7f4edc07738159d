package payer

import "errors"

// Client-side payment failures are fatal and never retried. They are
// distinct sentinel errors so callers can branch without string sniffing.
var (
	// ErrWalletNotConnected means no signing-capable wallet context was
	// provided.
	ErrWalletNotConnected = errors.New("wallet not connected: a signer is required to pay for this resource")

	// ErrMissingAsset means the payment requirements carry no token mint.
	ErrMissingAsset = errors.New("payment requirements are missing the asset mint")

	// ErrMissingFeePayer means requirements.extra.feePayer is absent, so
	// there is no facilitator address to assign the fee payer slot to.
	ErrMissingFeePayer = errors.New("payment requirements are missing extra.feePayer")

	// ErrMissingTokenAccount means the sender holds no associated token
	// account for the requested mint.
	ErrMissingTokenAccount = errors.New("sender has no associated token account for the payment asset")

	// ErrInsufficientBalance means the sender's token balance is below
	// maxAmountRequired.
	ErrInsufficientBalance = errors.New("token balance is below the required payment amount")

	// ErrInstructionCountMismatch means the built transaction violated the
	// fixed instruction-order contract with the facilitator's simulator.
	ErrInstructionCountMismatch = errors.New("built transaction has an unexpected instruction count")

	// ErrPaymentRejected means the retried request was answered with 402
	// again: the facilitator refused the payment. A second payment is
	// never attempted for the same logical action.
	ErrPaymentRejected = errors.New("payment was rejected by the resource server")

	// ErrMissingRequirements means a 402 response carried no usable
	// payment requirements.
	ErrMissingRequirements = errors.New("402 response carries no payment requirements")
)
