package diag

// Phase identifies one stage of the fixed compilation sequence.
type Phase uint8

const (
	// PhaseLexical is lexical analysis.
	PhaseLexical Phase = iota
	// PhaseSyntax is syntax analysis.
	PhaseSyntax
	// PhaseSemantic is semantic validation.
	PhaseSemantic
	// PhaseOptimize is the deterministic optimization stage.
	PhaseOptimize
	// PhaseIRGen is intermediate-code generation.
	PhaseIRGen
	// PhaseExecute is toolchain execution.
	PhaseExecute
	// PhaseBackend covers failures of the generative backend itself,
	// including during recovery regeneration.
	PhaseBackend
)

func (p Phase) String() string {
	switch p {
	case PhaseLexical:
		return "lexical"
	case PhaseSyntax:
		return "syntax"
	case PhaseSemantic:
		return "semantic"
	case PhaseOptimize:
		return "optimize"
	case PhaseIRGen:
		return "irgen"
	case PhaseExecute:
		return "execute"
	case PhaseBackend:
		return "backend"
	}
	return "unknown"
}
