// Package importer turns uploaded bank statement files into payment rows.
package importer

import (
	"io"

	"github.com/jmcortes/habita/internal/payment"
)

// Source identifies a supported bank export format.
type Source string

const (
	SourceSGB Source = "sgb"
)

type Importer interface {
	Parse(r io.Reader) ([]payment.BankMovement, error)
}
