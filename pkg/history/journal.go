package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"jupiter-swap/pkg/swapform"
)

// Journal records swap receipts
type Journal struct {
	storage *Storage
	now     func() time.Time
}

// NewJournal opens a journal backed by the file at storagePath
func NewJournal(storagePath string) (*Journal, error) {
	storage, err := NewStorage(storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}

	return &Journal{
		storage: storage,
		now:     time.Now,
	}, nil
}

// Record stores a receipt under a fresh id
func (j *Journal) Record(receipt swapform.Receipt) error {
	entry := &Entry{
		ID:         uuid.New().String(),
		Timestamp:  receipt.SubmittedAt,
		InputMint:  receipt.InputMint,
		OutputMint: receipt.OutputMint,
		InAmount:   receipt.InAmount,
		OutAmount:  receipt.OutAmount,
		Labels:     receipt.Labels,
		Owner:      receipt.Owner,
		Signatures: make([]string, 0, len(receipt.Signatures)),
		Confirmed:  receipt.Confirmed,
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = j.now()
	}
	for _, sig := range receipt.Signatures {
		entry.Signatures = append(entry.Signatures, sig.String())
	}

	switch {
	case receipt.Err == nil:
		entry.Status = StatusConfirmed
	case receipt.Confirmed > 0:
		entry.Status = StatusPartial
	default:
		entry.Status = StatusFailed
	}
	if receipt.Err != nil {
		entry.Error = receipt.Err.Error()
	}

	return j.storage.Put(entry)
}

// List returns the recorded swaps, newest first
func (j *Journal) List() []*Entry {
	return j.storage.List()
}

// Get retrieves a swap by id
func (j *Journal) Get(id string) (*Entry, error) {
	return j.storage.Get(id)
}

// Clear forgets every recorded swap
func (j *Journal) Clear() error {
	return j.storage.Clear()
}

// Path returns the journal file location
func (j *Journal) Path() string {
	return j.storage.filePath
}
