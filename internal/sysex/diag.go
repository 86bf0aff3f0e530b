package sysex

import (
	"bufio"
	"encoding/json"
	"os"
	"time"
)

// DiagKind classifies a decode-time condition. Every kind is recoverable:
// the offending message or block is dropped and decoding continues.
type DiagKind string

const (
	DiagFraming          DiagKind = "framing"
	DiagChecksumMismatch DiagKind = "checksum-mismatch"
	DiagUnknownAddress   DiagKind = "unknown-address"
	DiagTruncatedBlock   DiagKind = "truncated-block"
	DiagOrphanedParams   DiagKind = "orphaned-parameters"
)

type Diagnostic struct {
	Ts           time.Time `json:"ts"`
	Source       string    `json:"source,omitempty"`
	Kind         DiagKind  `json:"kind"`
	MessageIndex int       `json:"messageIndex,omitempty"`
	Address      string    `json:"address,omitempty"`
	Message      string    `json:"message"`
}

// WriteDiagnosticsJSONL writes one JSON object per line, the shape consumed
// by downstream log tooling.
func WriteDiagnosticsJSONL(path string, diags []Diagnostic) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()
	for _, d := range diags {
		b, _ := json.Marshal(d)
		w.Write(b)
		w.WriteString("\n")
	}
	return nil
}
