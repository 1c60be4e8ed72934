package journal

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// SaveLedgerFile writes l to path. A ".xz" or ".gz" suffix compresses
// the JSON with that codec.
func SaveLedgerFile(path string, l Ledger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ledger: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	var w io.Writer = bw
	var closer io.Closer

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xz":
		xw, err := xz.NewWriter(bw)
		if err != nil {
			return fmt.Errorf("xz writer: %w", err)
		}
		w, closer = xw, xw
	case ".gz":
		gw := gzip.NewWriter(bw)
		w, closer = gw, gw
	}

	if err := WriteLedger(w, l); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("finish %s: %w", filepath.Ext(path), err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush ledger: %w", err)
	}
	return f.Close()
}

// LoadLedgerFile reads a ledger written by SaveLedgerFile.
func LoadLedgerFile(path string) (Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return Ledger{}, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xz":
		xr, err := xz.NewReader(r)
		if err != nil {
			return Ledger{}, fmt.Errorf("xz reader: %w", err)
		}
		r = xr
	case ".gz":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return Ledger{}, fmt.Errorf("gzip reader: %w", err)
		}
		defer gr.Close()
		r = gr
	}
	return ReadLedger(r)
}
