package types

import "fmt"

// Op is the numeric code of a native deduction operation. Codes are part
// of the proof format and must stay stable.
type Op uint8

const (
	OpNone Op = iota
	OpNewEntry
	OpCopyStatement
	OpEqualFromEntries
	OpNotEqualFromEntries
	OpGtFromEntries
	OpLtFromEntries
	OpTransitiveEqualFromStatements
	OpGtToNotEqual
	OpLtToNotEqual
	OpContainsFromEntries
	OpNotContainsFromEntries
	OpRenameContainsFromEqual
	OpSymmetricNotEqual
	OpSumOf
	OpProductOf
	OpMaxOf
	OpSymmetricEqual
)

var opNames = map[Op]string{
	OpNone:                          "None",
	OpNewEntry:                      "NewEntry",
	OpCopyStatement:                 "CopyStatement",
	OpEqualFromEntries:              "EqualFromEntries",
	OpNotEqualFromEntries:           "NotEqualFromEntries",
	OpGtFromEntries:                 "GtFromEntries",
	OpLtFromEntries:                 "LtFromEntries",
	OpTransitiveEqualFromStatements: "TransitiveEqualFromStatements",
	OpGtToNotEqual:                  "GtToNotEqual",
	OpLtToNotEqual:                  "LtToNotEqual",
	OpContainsFromEntries:           "ContainsFromEntries",
	OpNotContainsFromEntries:        "NotContainsFromEntries",
	OpRenameContainsFromEqual:       "RenameContainsFromEqual",
	OpSymmetricNotEqual:             "SymmetricNotEqual",
	OpSumOf:                         "SumOf",
	OpProductOf:                     "ProductOf",
	OpMaxOf:                         "MaxOf",
	OpSymmetricEqual:                "SymmetricEqual",
}

// Name returns the operation's catalog name.
func (op Op) Name() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Unknown Operation (%d)", uint8(op))
}

// DeductionStep is one application of a native operation: premises in,
// conclusion out.
type DeductionStep struct {
	Op         Op
	Premises   []Statement
	Conclusion Statement
}

// DeductionChain is an ordered list of steps proving its final
// conclusion. An empty chain means the statement was directly known.
type DeductionChain []DeductionStep
