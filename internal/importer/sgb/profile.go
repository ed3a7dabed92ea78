package sgb

// amountMode determines how credits are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column; only positive values are kept.
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns; only the credit
	// column is read.
	amountSplit
)

// Profile describes the column layout of one SGB export format.
type Profile struct {
	Name       string
	DateCol    string
	RefCol     string
	AmountMode amountMode
	AmountCol  string // used when AmountMode == amountSingle
	CreditCol  string // used when AmountMode == amountSplit
}

// requiredCols returns the columns that must be present for the profile
// to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.RefCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.CreditCol)
	}

	return cols
}

// profiles is the ordered list of formats to try. More specific layouts
// come first to avoid false matches.
var profiles = []Profile{
	{
		Name:       "virements",
		DateCol:    "Date opération",
		RefCol:     "Référence",
		AmountMode: amountSplit,
		CreditCol:  "Crédit",
	},
	{
		Name:       "relevé",
		DateCol:    "Date",
		RefCol:     "Libellé",
		AmountMode: amountSingle,
		AmountCol:  "Montant",
	},
}
