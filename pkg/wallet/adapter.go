package wallet

import (
	"sync"

	"github.com/gagliardetto/solana-go"
)

// ConnectLabel is the text of the connect control
const ConnectLabel = "Connect Wallet"

// Adapter holds the wallet connection state shown by the status panel
type Adapter struct {
	mu      sync.RWMutex
	load    func() (solana.PrivateKey, error)
	approve Approver
	current *Keypair
}

// NewAdapter creates a disconnected adapter
func NewAdapter(load func() (solana.PrivateKey, error), approve Approver) *Adapter {
	return &Adapter{
		load:    load,
		approve: approve,
	}
}

// Connect loads the key and makes it the active wallet
func (a *Adapter) Connect() error {
	key, err := a.load()
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.current = NewKeypair(key, a.approve)
	a.mu.Unlock()
	return nil
}

// Disconnect drops the active wallet
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	a.current = nil
	a.mu.Unlock()
}

// Connected reports whether a wallet is active
func (a *Adapter) Connected() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current != nil
}

// PublicKey returns the active wallet's key, if any
func (a *Adapter) PublicKey() (solana.PublicKey, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.current == nil {
		return solana.PublicKey{}, false
	}
	return a.current.PublicKey()
}

// Wallet returns the active wallet. When disconnected the returned wallet
// has no public key and no signing capability.
func (a *Adapter) Wallet() Wallet {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.current == nil {
		return disconnected{}
	}
	return a.current
}

type disconnected struct{}

func (disconnected) PublicKey() (solana.PublicKey, bool) {
	return solana.PublicKey{}, false
}
