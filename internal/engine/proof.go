package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/robknight/pod2-prover/internal/types"
)

// Proof pairs a proved statement with its deduction chain. An empty
// chain means the statement was among the asserted facts.
type Proof struct {
	Statement types.Statement
	Chain     types.DeductionChain
}

// Render formats the proof as human-readable text.
func (p Proof) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Proved: %s\n", p.Statement)
	if len(p.Chain) == 0 {
		sb.WriteString("This statement was directly known (no deduction needed)\n")
		return sb.String()
	}
	sb.WriteString("\nProof steps:\n")
	for i, step := range p.Chain {
		fmt.Fprintf(&sb, "\nStep %d:\n", i+1)
		fmt.Fprintf(&sb, "Operation: %s\n", step.Op.Name())
		sb.WriteString("From:\n")
		for _, premise := range step.Premises {
			fmt.Fprintf(&sb, "  - %s\n", premise)
		}
		sb.WriteString("Deduced:\n")
		fmt.Fprintf(&sb, "  => %s\n", step.Conclusion)
	}
	return sb.String()
}

type stepJSON struct {
	Op         uint8             `json:"op"`
	Operation  string            `json:"operation"`
	Premises   []types.Statement `json:"premises"`
	Conclusion types.Statement   `json:"conclusion"`
}

type proofJSON struct {
	Statement types.Statement `json:"statement"`
	Chain     []stepJSON      `json:"chain"`
}

// MarshalJSON emits the proof with named operations alongside the raw
// codes.
func (p Proof) MarshalJSON() ([]byte, error) {
	out := proofJSON{Statement: p.Statement, Chain: make([]stepJSON, 0, len(p.Chain))}
	for _, step := range p.Chain {
		premises := step.Premises
		if premises == nil {
			premises = []types.Statement{}
		}
		out.Chain = append(out.Chain, stepJSON{
			Op:         uint8(step.Op),
			Operation:  step.Op.Name(),
			Premises:   premises,
			Conclusion: step.Conclusion,
		})
	}
	return json.Marshal(out)
}
