package importer

import (
	"fmt"
	"io"

	"github.com/jmcortes/habita/internal/importer/sgb"
	"github.com/jmcortes/habita/internal/payment"
)

type Service struct {
	sgbImporter Importer
}

func NewService() *Service {
	return &Service{
		sgbImporter: sgb.New(),
	}
}

func (s *Service) Import(source Source, r io.Reader) ([]payment.BankMovement, error) {
	var importer Importer

	switch source {
	case SourceSGB:
		importer = s.sgbImporter
	default:
		return nil, fmt.Errorf("unknown bank source: %s", source)
	}

	return importer.Parse(r)
}
