package ton

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"
)

// minimum length of a printable TON address form accepted by the simulator
const minAddressLen = 48

// TransferResult reports the outcome of a TON transfer.
type TransferResult struct {
	Success bool    `json:"success"`
	TxHash  string  `json:"tx_hash,omitempty"`
	Amount  float64 `json:"amount,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// CertificateMeta is the metadata attached to a minted SBT certificate.
type CertificateMeta struct {
	Name            string         `json:"name"`
	CourseTitle     string         `json:"courseTitle"`
	IssuedDate      string         `json:"issuedDate"`
	TemplateID      string         `json:"templateId,omitempty"`
	Description     string         `json:"description,omitempty"`
	Skills          []string       `json:"skills,omitempty"`
	Issuer          string         `json:"issuer,omitempty"`
	CertificateType string         `json:"certificateType,omitempty"`
	ValidUntil      string         `json:"validUntil,omitempty"`
	Additional      map[string]any `json:"additional,omitempty"`
}

// MintResult reports the outcome of an SBT mint, including the token id and
// the complete metadata written on chain.
type MintResult struct {
	TransferResult
	TokenID  string         `json:"token_id,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Ledger is the blockchain-transaction contract the engines call into. The
// production implementation would sign real TON transactions; SimulatedLedger
// stands in for it.
type Ledger interface {
	IsValidAddress(address string) bool
	Transfer(ctx context.Context, toAddress string, amount float64, memo string) (*TransferResult, error)
	MintCertificate(ctx context.Context, toAddress string, meta CertificateMeta) (*MintResult, error)
	Balance(ctx context.Context, address string) (float64, error)
}

// Config holds the distribution wallet settings.
type Config struct {
	WalletAddress string
	WalletKey     string
	Network       string // mainnet | testnet
	// Latency is the simulated confirmation delay. Zero means no delay.
	Latency time.Duration
}

// SimulatedLedger fakes TON operations: random transaction hashes, token ids
// in [1000,9999], and an optional artificial delay. The randomness source is
// injected so tests can fix the seed.
type SimulatedLedger struct {
	cfg Config

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedLedger creates a simulated ledger with its own time-seeded
// randomness source.
func NewSimulatedLedger(cfg Config) *SimulatedLedger {
	return NewSimulatedLedgerWithSource(cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSimulatedLedgerWithSource creates a simulated ledger with an injected
// randomness source for deterministic tests.
func NewSimulatedLedgerWithSource(cfg Config, rng *rand.Rand) *SimulatedLedger {
	if cfg.Network == "" {
		cfg.Network = "testnet"
	}
	return &SimulatedLedger{cfg: cfg, rng: rng}
}

// IsValidAddress checks a TON address in printable form. Real validation
// would parse the address; the simulator only checks shape.
func (l *SimulatedLedger) IsValidAddress(address string) bool {
	return len(address) >= minAddressLen
}

// Transfer simulates sending TON to a recipient wallet.
func (l *SimulatedLedger) Transfer(ctx context.Context, toAddress string, amount float64, memo string) (*TransferResult, error) {
	if !l.IsValidAddress(toAddress) {
		return &TransferResult{Success: false, Error: "invalid recipient address"}, nil
	}
	if amount <= 0 {
		return &TransferResult{Success: false, Error: "amount must be greater than 0"}, nil
	}
	if l.cfg.WalletAddress == "" || l.cfg.WalletKey == "" {
		return &TransferResult{Success: false, Error: "distribution wallet not configured"}, nil
	}

	if err := l.wait(ctx); err != nil {
		return nil, err
	}

	txHash := l.randomTxHash()
	log.Printf("[ton] simulated transfer of %.2f TON to %s (%s)", amount, toAddress, memo)

	return &TransferResult{
		Success: true,
		TxHash:  txHash,
		Amount:  amount,
	}, nil
}

// MintCertificate simulates minting an SBT certificate for a completed
// course. The returned metadata is the complete record that would be stored
// on chain.
func (l *SimulatedLedger) MintCertificate(ctx context.Context, toAddress string, meta CertificateMeta) (*MintResult, error) {
	if !l.IsValidAddress(toAddress) {
		return &MintResult{TransferResult: TransferResult{Success: false, Error: "invalid recipient address"}}, nil
	}
	if l.cfg.WalletAddress == "" || l.cfg.WalletKey == "" {
		return &MintResult{TransferResult: TransferResult{Success: false, Error: "distribution wallet not configured"}}, nil
	}

	if err := l.wait(ctx); err != nil {
		return nil, err
	}

	complete := completeMetadata(toAddress, meta)

	l.mu.Lock()
	tokenID := fmt.Sprintf("%d", 1000+l.rng.Intn(9000))
	l.mu.Unlock()
	txHash := l.randomTxHash()

	log.Printf("[ton] simulated mint of certificate %q for %s (token %s)", meta.CourseTitle, toAddress, tokenID)

	return &MintResult{
		TransferResult: TransferResult{Success: true, TxHash: txHash},
		TokenID:        tokenID,
		Metadata:       complete,
	}, nil
}

// Balance simulates a wallet balance lookup.
func (l *SimulatedLedger) Balance(ctx context.Context, address string) (float64, error) {
	if !l.IsValidAddress(address) {
		return 0, fmt.Errorf("invalid address %q", address)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return float64(int(l.rng.Float64()*1000)) / 100, nil
}

// wait sleeps for the configured latency, honoring context cancellation.
func (l *SimulatedLedger) wait(ctx context.Context) error {
	if l.cfg.Latency <= 0 {
		return nil
	}
	select {
	case <-time.After(l.cfg.Latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *SimulatedLedger) randomTxHash() string {
	const hexDigits = "0123456789abcdef"
	l.mu.Lock()
	defer l.mu.Unlock()
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = hexDigits[l.rng.Intn(16)]
	}
	return "0x" + string(buf)
}

// completeMetadata fills the defaults the SBT standard expects.
func completeMetadata(recipient string, meta CertificateMeta) map[string]any {
	templateID := meta.TemplateID
	if templateID == "" {
		templateID = "default"
	}
	description := meta.Description
	if description == "" {
		description = fmt.Sprintf("Certificate of completion for %s", meta.CourseTitle)
	}
	issuer := meta.Issuer
	if issuer == "" {
		issuer = "TON EDUCATION"
	}
	certType := meta.CertificateType
	if certType == "" {
		certType = "completion"
	}

	complete := map[string]any{
		"name":            meta.Name,
		"courseTitle":     meta.CourseTitle,
		"issuedDate":      meta.IssuedDate,
		"templateId":      templateID,
		"description":     description,
		"skills":          meta.Skills,
		"issuer":          issuer,
		"certificateType": certType,
		"validUntil":      meta.ValidUntil,
		"recipient":       recipient,
		"issuedOn":        "TON Blockchain",
		"standard":        "TON SBT",
	}
	for k, v := range meta.Additional {
		complete[k] = v
	}
	return complete
}
