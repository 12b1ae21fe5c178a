package history

import (
	"strings"
	"time"
)

// EntryStatus is the outcome of a recorded swap
type EntryStatus string

const (
	StatusConfirmed EntryStatus = "confirmed" // every transaction confirmed
	StatusPartial   EntryStatus = "partial"   // some transactions landed before a failure
	StatusFailed    EntryStatus = "failed"    // nothing landed
)

// Entry is one submitted swap
type Entry struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	InputMint  string      `json:"input_mint"`
	OutputMint string      `json:"output_mint"`
	InAmount   uint64      `json:"in_amount"`
	OutAmount  uint64      `json:"out_amount"` // quoted, not received
	Labels     []string    `json:"labels,omitempty"`
	Owner      string      `json:"owner"`
	Signatures []string    `json:"signatures"`
	Confirmed  int         `json:"confirmed"`
	Status     EntryStatus `json:"status"`
	Error      string      `json:"error,omitempty"`
}

// Route returns the labels joined for display, e.g. "Orca x Raydium"
func (e *Entry) Route() string {
	return strings.Join(e.Labels, " x ")
}
