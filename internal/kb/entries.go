package kb

// Topic names are fixed; ids are stable and globally unique. Declaration
// order matters: the matcher breaks score ties by first maximum in this
// order, and the daily pick indexes into it.
const (
	TopicAccounts     = "accounts"
	TopicPDAs         = "pdas"
	TopicTokens       = "tokens"
	TopicTransactions = "transactions"
	TopicWallets      = "wallets"
	TopicPayments     = "payments"
)

// QuizOption is one multiple-choice option; exactly one per entry is correct.
type QuizOption struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"-"`
}

// Entry is one knowledge-base record.
type Entry struct {
	ID               string
	Topic            string
	Level            int
	Question         string
	Preview          string
	AnswerMD         string
	QuizOptions      []QuizOption
	ExplanationShort string
	ExplanationFull  string
}

var entries = []Entry{
	// --- accounts ---
	{
		ID: "acc-what", Topic: TopicAccounts, Level: 1,
		Question: "What is a Solana account?",
		Preview:  "An account is a chunk of on-chain storage owned by a program, holding lamports and data.",
		AnswerMD: "An **account** is a chunk of on-chain storage identified by a public key. Every account has a lamport balance, a byte array of data, and an *owner* program that is the only one allowed to modify it.",
		QuizOptions: []QuizOption{
			{ID: "a", Text: "A username registered on a validator"},
			{ID: "b", Text: "On-chain storage with a balance, data, and an owner program", Correct: true},
			{ID: "c", Text: "A private key stored by your wallet"},
			{ID: "d", Text: "A block of transaction history"},
		},
		ExplanationShort: "Accounts are storage cells owned by programs.",
		ExplanationFull:  "Solana models all state as accounts: storage cells with a lamport balance and a data buffer. The owner program, and only the owner program, may mutate the data or debit the balance.",
	},
	{
		ID: "acc-rent", Topic: TopicAccounts, Level: 1,
		Question: "What is rent on Solana?",
		Preview:  "Rent is the lamport deposit an account must hold to stay alive on-chain.",
		AnswerMD: "**Rent** is the storage deposit for keeping account data on-chain. Accounts holding at least two years' worth of rent are *rent-exempt* and are never charged.",
		QuizOptions: []QuizOption{
			{ID: "a", Text: "A fee charged per transaction"},
			{ID: "b", Text: "Interest paid to validators"},
			{ID: "c", Text: "A lamport deposit required to keep account data on-chain", Correct: true},
			{ID: "d", Text: "The cost of creating a keypair"},
		},
		ExplanationShort: "Rent is a refundable storage deposit.",
		ExplanationFull:  "Rather than charging storage forever, Solana requires a deposit proportional to account size. Close the account and the deposit comes back.",
	},
	{
		ID: "acc-owner", Topic: TopicAccounts, Level: 2,
		Question: "Who can modify a Solana account's data?",
		Preview:  "Only the program that owns the account may modify its data.",
		AnswerMD: "Only the **owner program** of an account may modify its data or debit lamports from it. Anyone may credit lamports.",
	},
	{
		ID: "acc-system", Topic: TopicAccounts, Level: 2,
		Question: "What does the System Program do?",
		Preview:  "The System Program creates accounts, allocates their space, and transfers SOL.",
		AnswerMD: "The **System Program** is the built-in program that creates accounts, allocates data space, assigns owners, and transfers native SOL between system-owned accounts.",
	},
	{
		ID: "acc-lamports", Topic: TopicAccounts, Level: 1,
		Question: "What is a lamport?",
		Preview:  "A lamport is the smallest unit of SOL, one billionth of a SOL.",
		AnswerMD: "A **lamport** is the atomic unit of SOL: `1 SOL = 1,000,000,000 lamports`. Balances and fees are always accounted in lamports.",
	},
	{
		ID: "acc-size", Topic: TopicAccounts, Level: 3,
		Question: "Can a Solana account be resized after creation?",
		Preview:  "Accounts can be grown in place by their owner program using realloc, within limits.",
		AnswerMD: "Programs can grow an account with `realloc` up to 10 KiB per instruction, paying the additional rent-exempt deposit. Shrinking returns deposit to the payer.",
	},

	// --- pdas ---
	{
		ID: "pp-what", Topic: TopicPDAs, Level: 2,
		Question: "What is a PDA?",
		Preview:  "A PDA is a program-owned address derived from seeds and a bump.",
		AnswerMD: "A **PDA** (program derived address) is a program-owned address derived deterministically from seeds and a bump byte. PDAs have no private key; the deriving program signs for them via `invoke_signed`.",
		QuizOptions: []QuizOption{
			{ID: "a", Text: "A paper wallet backup format"},
			{ID: "b", Text: "A deterministic, keyless address a program can sign for", Correct: true},
			{ID: "c", Text: "A validator's vote account"},
			{ID: "d", Text: "An address derived from a hardware wallet"},
		},
		ExplanationShort: "PDAs are keyless addresses controlled by programs.",
		ExplanationFull:  "PDA derivation hashes the seeds, the program id, and a bump byte until the result falls off the ed25519 curve, guaranteeing no private key exists. The owning program can then authorize actions for the address inside cross-program invocations.",
	},
	{
		ID: "pp-bump", Topic: TopicPDAs, Level: 2,
		Question: "What is the bump seed in PDA derivation?",
		Preview:  "The bump is the byte that pushes the derived address off the ed25519 curve.",
		AnswerMD: "The **bump** is a byte (255 counting down) appended to the seeds until the derived address is *not* a valid ed25519 point. The first bump that works is the canonical bump.",
	},
	{
		ID: "pp-sign", Topic: TopicPDAs, Level: 3,
		Question: "How does a program sign for a PDA?",
		Preview:  "Programs sign for PDAs with invoke_signed, supplying the derivation seeds.",
		AnswerMD: "Inside a cross-program invocation the program calls `invoke_signed`, passing the PDA's seeds and bump. The runtime re-derives the address and treats it as a signer for the inner instruction.",
	},
	{
		ID: "pp-seeds", Topic: TopicPDAs, Level: 2,
		Question: "What are seeds in PDA derivation?",
		Preview:  "Seeds are byte strings that, with the program id, deterministically select the PDA.",
		AnswerMD: "**Seeds** are up to 16 byte strings (each up to 32 bytes) hashed with the program id during derivation. A fixed seed layout gives a program a deterministic address space, like `['vault', user_pubkey]`.",
	},
	{
		ID: "pp-vs-keypair", Topic: TopicPDAs, Level: 1,
		Question: "How is a PDA different from a normal keypair account?",
		Preview:  "PDAs have no private key, so only the deriving program can authorize them.",
		AnswerMD: "A normal account is controlled by whoever holds the private key. A **PDA** has no private key at all, so control reduces to program logic — which makes PDAs the standard authority for escrows and vaults.",
	},
	{
		ID: "pp-cpi", Topic: TopicPDAs, Level: 3,
		Question: "What is a cross-program invocation?",
		Preview:  "A CPI is one program calling another program's instruction inside a transaction.",
		AnswerMD: "A **CPI** (cross-program invocation) lets one program call another's instruction with `invoke` or `invoke_signed`, composing programs the way libraries compose functions. Depth is capped at 4.",
	},

	// --- tokens ---
	{
		ID: "tok-spl", Topic: TopicTokens, Level: 1,
		Question: "What is an SPL token?",
		Preview:  "An SPL token is a fungible or non-fungible asset managed by the Token Program.",
		AnswerMD: "**SPL tokens** are assets managed by the shared Token Program. A *mint* account defines the token; *token accounts* hold balances of it.",
		QuizOptions: []QuizOption{
			{ID: "a", Text: "A fork of the SOL native coin"},
			{ID: "b", Text: "An asset defined by a mint and held in token accounts", Correct: true},
			{ID: "c", Text: "A validator reward voucher"},
			{ID: "d", Text: "An off-chain IOU signed by an exchange"},
		},
		ExplanationShort: "SPL tokens live in mint and token accounts.",
		ExplanationFull:  "The Token Program is one shared program; each token is just a mint account it owns. Balances live in token accounts that reference the mint and an owner wallet.",
	},
	{
		ID: "tok-ata", Topic: TopicTokens, Level: 2,
		Question: "What is an associated token account?",
		Preview:  "An ATA is the canonical token account for an owner and mint, derived as a PDA.",
		AnswerMD: "An **associated token account (ATA)** is the deterministic token account for a `(wallet, mint)` pair, derived as a PDA of the Associated Token Account Program. Senders can derive it without asking the recipient.",
		QuizOptions: []QuizOption{
			{ID: "a", Text: "Any token account you label in your wallet"},
			{ID: "b", Text: "A token account shared by several wallets"},
			{ID: "c", Text: "The deterministic per-(owner, mint) token account", Correct: true},
			{ID: "d", Text: "An account that stores token metadata"},
		},
		ExplanationShort: "One canonical token account per owner and mint.",
		ExplanationFull:  "Because the ATA address is derived from the owner and mint, anyone can compute it, check whether it exists, and create it for the recipient — which is exactly what a payment transaction does when the recipient has never held the token.",
	},
	{
		ID: "tok-mint", Topic: TopicTokens, Level: 2,
		Question: "What is a token mint account?",
		Preview:  "The mint account defines a token: its supply, decimals, and authorities.",
		AnswerMD: "The **mint** account is the definition of a token: total supply, `decimals`, the mint authority that may create new units, and an optional freeze authority.",
	},
	{
		ID: "tok-decimals", Topic: TopicTokens, Level: 1,
		Question: "What are token decimals?",
		Preview:  "Decimals fix how raw integer amounts map to display units, like 6 for USDC.",
		AnswerMD: "Token amounts are raw integers; **decimals** on the mint say where the display point goes. USDC has 6 decimals, so `1000000` atoms is `1.00` USDC.",
	},
	{
		ID: "tok-transfer-checked", Topic: TopicTokens, Level: 3,
		Question: "Why use TransferChecked instead of Transfer?",
		Preview:  "TransferChecked pins the mint and decimals, rejecting decimal-mismatch attacks.",
		AnswerMD: "`TransferChecked` requires the caller to pass the mint and its decimals alongside the amount, and fails when they disagree with the actual mint. That closes the class of bugs where a client is tricked into moving an unexpected token or magnitude.",
	},
	{
		ID: "tok-usdc", Topic: TopicTokens, Level: 1,
		Question: "What is USDC on Solana?",
		Preview:  "USDC is a dollar-backed SPL token with 6 decimals, widely used for payments.",
		AnswerMD: "**USDC** is a fiat-backed stablecoin issued as an SPL token. With 6 decimals, one micro-USDC atom is $0.000001 — small enough for per-request micropayments.",
	},
	{
		ID: "tok-2022", Topic: TopicTokens, Level: 3,
		Question: "What is Token-2022?",
		Preview:  "Token-2022 is the extension-capable successor to the original Token Program.",
		AnswerMD: "**Token-2022** is a second token program adding opt-in extensions (transfer fees, confidential transfers, interest). Mints belong to one program or the other; clients must check the mint's owner.",
	},

	// --- transactions ---
	{
		ID: "tx-what", Topic: TopicTransactions, Level: 1,
		Question: "What is a Solana transaction?",
		Preview:  "A transaction is a signed list of instructions executed atomically.",
		AnswerMD: "A **transaction** bundles one or more instructions with the accounts they touch and the required signatures. Execution is atomic: all instructions succeed or none do.",
		QuizOptions: []QuizOption{
			{ID: "a", Text: "A single transfer of SOL"},
			{ID: "b", Text: "A signed, atomic list of instructions", Correct: true},
			{ID: "c", Text: "A block produced by the leader"},
			{ID: "d", Text: "A message between validators"},
		},
		ExplanationShort: "Transactions are atomic instruction bundles.",
		ExplanationFull:  "Each instruction names a program, accounts, and data. The whole bundle lands atomically, which is why a payment plus its account-creation step can share one transaction safely.",
	},
	{
		ID: "tx-blockhash", Topic: TopicTransactions, Level: 2,
		Question: "What is a recent blockhash used for?",
		Preview:  "The recent blockhash timestamps a transaction and expires it after about a minute.",
		AnswerMD: "Every transaction embeds a **recent blockhash** as proof of recency and as a dedup key. Validators reject it once the hash ages out (~60–90 seconds), so sign promptly after fetching.",
		QuizOptions: []QuizOption{
			{ID: "a", Text: "It selects the validator that must process the transaction"},
			{ID: "b", Text: "It proves recency and deduplicates the transaction", Correct: true},
			{ID: "c", Text: "It encrypts the transaction payload"},
			{ID: "d", Text: "It commits to the resulting state root"},
		},
		ExplanationShort: "Blockhashes expire; stale ones fail simulation.",
		ExplanationFull:  "A transaction built against an old blockhash is rejected at simulation time. Payment flows fetch the blockhash immediately before signing so the facilitator's settlement window stays open.",
	},
	{
		ID: "tx-feepayer", Topic: TopicTransactions, Level: 2,
		Question: "What is the fee payer of a transaction?",
		Preview:  "The fee payer is the first signer, charged lamports for including the transaction.",
		AnswerMD: "The **fee payer** is the first account in the signature list and pays the transaction fee. It need not be the party moving funds — a facilitator can sponsor fees while the user only signs as authority.",
	},
	{
		ID: "tx-partial", Topic: TopicTransactions, Level: 3,
		Question: "What is a partially signed transaction?",
		Preview:  "A partially signed transaction has some required signatures filled and others pending.",
		AnswerMD: "A transaction listing several required signers can be **partially signed**: one party fills its slot and passes the bytes along, and the remaining signers add theirs before broadcast. Payment flows use this so the user signs first and the fee-paying facilitator countersigns.",
	},
	{
		ID: "tx-compute", Topic: TopicTransactions, Level: 3,
		Question: "What is the compute budget?",
		Preview:  "The compute budget caps the compute units a transaction may burn, with a priority fee per unit.",
		AnswerMD: "Each transaction runs under a **compute unit** cap, settable with `SetComputeUnitLimit`; `SetComputeUnitPrice` attaches a micro-lamport priority fee per unit. Budget instructions come first so the runtime knows the limits upfront.",
	},
	{
		ID: "tx-simulate", Topic: TopicTransactions, Level: 3,
		Question: "What does transaction simulation do?",
		Preview:  "Simulation dry-runs a transaction against current state without committing it.",
		AnswerMD: "`simulateTransaction` executes a transaction against the current bank without committing, surfacing program errors, compute use, and logs. Facilitators simulate payments before co-signing to reject malformed transfers cheaply.",
	},
	{
		ID: "tx-fees", Topic: TopicTransactions, Level: 1,
		Question: "How much does a Solana transaction cost?",
		Preview:  "Base fees are 5000 lamports per signature, well under a cent.",
		AnswerMD: "The base fee is **5000 lamports per signature** (a fraction of a cent), plus any optional priority fee. Cheap fees are what make per-request micropayments plausible.",
	},

	// --- wallets ---
	{
		ID: "wal-keypair", Topic: TopicWallets, Level: 1,
		Question: "What is a keypair?",
		Preview:  "A keypair is an ed25519 private key and its public key, which is your address.",
		AnswerMD: "A **keypair** is an ed25519 private/public key pair. The public key doubles as the on-chain address; the private key signs transactions.",
		QuizOptions: []QuizOption{
			{ID: "a", Text: "Two linked wallet accounts"},
			{ID: "b", Text: "An ed25519 private key plus its public address", Correct: true},
			{ID: "c", Text: "A seed phrase and its password"},
			{ID: "d", Text: "A validator identity and vote key"},
		},
		ExplanationShort: "Public key = address, private key = signing power.",
		ExplanationFull:  "Everything reduces to ed25519 signatures: holding the private key is holding the account. Wallets guard the private key and expose a signing prompt instead.",
	},
	{
		ID: "wal-sign", Topic: TopicWallets, Level: 2,
		Question: "What happens when a wallet signs a transaction?",
		Preview:  "The wallet signs the serialized message bytes with the private key, producing a signature.",
		AnswerMD: "The wallet serializes the transaction **message**, signs those bytes with ed25519, and places the signature in the slot matching its public key. The transaction itself is unchanged — signing adds, never edits.",
	},
	{
		ID: "wal-seed", Topic: TopicWallets, Level: 1,
		Question: "What is a seed phrase?",
		Preview:  "A seed phrase is a mnemonic encoding of the entropy behind your keys.",
		AnswerMD: "A **seed phrase** is a human-readable mnemonic (BIP-39) encoding the entropy from which wallet keypairs derive. Whoever holds the phrase holds every derived account.",
	},
	{
		ID: "wal-adapter", Topic: TopicWallets, Level: 2,
		Question: "How does a dapp talk to a browser wallet?",
		Preview:  "Dapps call the wallet's injected provider to request connection and signatures.",
		AnswerMD: "Browser wallets inject a provider object the dapp calls to `connect`, fetch the public key, and request `signTransaction`. The private key never leaves the extension; the dapp only ever sees signatures.",
	},
	{
		ID: "wal-reject", Topic: TopicWallets, Level: 2,
		Question: "What happens if the user rejects a signing request?",
		Preview:  "The signing promise rejects and the dapp must treat the action as failed, not hung.",
		AnswerMD: "Rejecting the prompt makes the wallet's signing call fail immediately. A well-behaved client treats that as payment failure and surfaces it — it must not retry or hang waiting.",
	},
	{
		ID: "wal-hardware", Topic: TopicWallets, Level: 3,
		Question: "What does a hardware wallet add?",
		Preview:  "Hardware wallets keep the private key in a separate device that displays what it signs.",
		AnswerMD: "A **hardware wallet** keeps keys in a dedicated device; transactions travel to it for signing and the device displays what it is about to authorize. Compromise of the host machine no longer leaks the key.",
	},

	// --- payments ---
	{
		ID: "pay-x402", Topic: TopicPayments, Level: 2,
		Question: "What is the x402 payment flow?",
		Preview:  "x402 uses HTTP 402 to carry machine-readable payment requirements and resume after payment.",
		AnswerMD: "**x402** revives HTTP status 402: the server answers a gated request with machine-readable payment requirements; the client pays and retries once with proof attached in a header; the server verifies, settles, and serves the resource.",
		QuizOptions: []QuizOption{
			{ID: "a", Text: "A Solana program for subscriptions"},
			{ID: "b", Text: "An HTTP 402 convention for pay-per-request resources", Correct: true},
			{ID: "c", Text: "A layer-2 payment channel"},
			{ID: "d", Text: "A credit card gateway API"},
		},
		ExplanationShort: "402 response, pay, retry once with the header.",
		ExplanationFull:  "The 402 body enumerates accepted payments (scheme, network, amount, asset, recipient). The client builds the transfer, signs, base64-encodes the envelope into the X-Payment header, and retries the same request exactly once.",
	},
	{
		ID: "pay-facilitator", Topic: TopicPayments, Level: 2,
		Question: "What does a payment facilitator do?",
		Preview:  "The facilitator verifies the signed payment and settles it on-chain for the server.",
		AnswerMD: "The **facilitator** is a third-party service the resource server trusts: it verifies the client's partially signed transaction, co-signs as fee payer, broadcasts it, and reports the settlement signature back.",
		QuizOptions: []QuizOption{
			{ID: "a", Text: "It stores the user's private keys"},
			{ID: "b", Text: "It verifies and settles payments on behalf of the server", Correct: true},
			{ID: "c", Text: "It converts fiat to crypto"},
			{ID: "d", Text: "It indexes blocks for explorers"},
		},
		ExplanationShort: "Verify, co-sign, broadcast, report the signature.",
		ExplanationFull:  "Resource servers stay free of chain infrastructure: they forward the decoded payment to the facilitator's verify and settle endpoints and only serve the resource on success.",
	},
	{
		ID: "pay-header", Topic: TopicPayments, Level: 2,
		Question: "What goes in the X-Payment header?",
		Preview:  "The header carries a base64 JSON envelope holding the signed transaction.",
		AnswerMD: "The `X-Payment` header value is base64 of a JSON envelope: protocol version, scheme, network, and a payload whose `transaction` field is the base64 serialized, partially signed transfer.",
	},
	{
		ID: "pay-atoms", Topic: TopicPayments, Level: 1,
		Question: "Why are payment amounts integer strings?",
		Preview:  "Amounts travel as integer atoms to avoid floating point and locale ambiguity.",
		AnswerMD: "Requirements quote amounts in **atoms** — the token's smallest unit — as decimal strings. Integers survive JSON number precision limits and leave no room for rounding disputes.",
	},
	{
		ID: "pay-micropayment", Topic: TopicPayments, Level: 1,
		Question: "What is a micropayment?",
		Preview:  "A micropayment is a sub-cent payment, priced per request instead of per subscription.",
		AnswerMD: "A **micropayment** charges fractions of a cent per action. Combined with sub-cent transaction fees, it lets servers price individual API calls or content unlocks instead of selling subscriptions.",
	},
	{
		ID: "pay-settle", Topic: TopicPayments, Level: 3,
		Question: "What does settling a payment mean?",
		Preview:  "Settlement broadcasts the co-signed transfer and confirms it on-chain.",
		AnswerMD: "**Settlement** is the facilitator co-signing the fee payer slot, broadcasting the transaction, and waiting for confirmation. The resulting signature is returned to the server, which forwards it in the `X-Payment-Response` header.",
	},
	{
		ID: "pay-verify", Topic: TopicPayments, Level: 3,
		Question: "What is checked during payment verification?",
		Preview:  "Verification simulates the transfer and checks amount, asset, recipient, and signatures.",
		AnswerMD: "The facilitator's **verify** step decodes the transaction and checks the instruction layout, amount, mint, and recipient against the requirements, validates the user's signature, and dry-runs the transfer. Only then is settlement worth attempting.",
	},
	{
		ID: "pay-replay", Topic: TopicPayments, Level: 3,
		Question: "What stops a payment from being replayed?",
		Preview:  "The blockhash dedup rule means an identical transaction can only land once.",
		AnswerMD: "A Solana transaction is identified by its signature over message bytes that include the recent blockhash; validators reject duplicates. Re-presenting the same `X-Payment` header cannot double-charge — the second settlement attempt fails on-chain.",
	},
	{
		ID: "pay-refund", Topic: TopicPayments, Level: 2,
		Question: "Can an x402 payment be refunded?",
		Preview:  "There is no protocol-level refund; a refund is just a new transfer back.",
		AnswerMD: "x402 has no refund primitive. Once settled, reversing a payment means the recipient sends a fresh transfer back — a business decision, not a protocol one.",
	},
	{
		ID: "pay-pricing", Topic: TopicPayments, Level: 1,
		Question: "How does a server advertise a price?",
		Preview:  "The 402 body lists accepted payments with amount, asset, network, and recipient.",
		AnswerMD: "The 402 body's `accepts` array enumerates acceptable payments: scheme, network, `maxAmountRequired` in atoms, the asset mint, the `payTo` address, and settlement metadata like the facilitator's fee payer.",
	},
	{
		ID: "pay-timeout", Topic: TopicPayments, Level: 2,
		Question: "What is maxTimeoutSeconds in payment requirements?",
		Preview:  "It tells the facilitator how long a settlement attempt may take; clients treat it as informational.",
		AnswerMD: "`maxTimeoutSeconds` bounds how long the facilitator may spend settling before giving up. Clients do not enforce it locally; their transport timeout governs the request.",
	},
}

// Entries returns the full record set in declaration order.
func Entries() []Entry {
	return entries
}
