// Package behavior compiles untrusted bot decision code and executes it inside
// a capability-limited sandbox. The sandbox boundary is structural: source is
// parsed into a closed statement/expression AST and walked by a restricted
// interpreter, so there is no host eval, no reflection, and no ambient
// identifier beyond `api` and `tick`. Each invocation is bounded by a step
// budget, and the grammar has no loop construct.
package behavior

import "fmt"

// DefaultStepBudget bounds interpreter steps for one invocation when the
// caller does not supply a budget.
const DefaultStepBudget = 10_000

// CompileError reports malformed behavior source. It is never fatal to a
// match: the caller receives a no-op program alongside it.
type CompileError struct {
	Line int
	Col  int
	Msg  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("behavior: compile error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// RuntimeError reports a fault while executing compiled behavior code. The
// faulting bot simply takes no action for the tick.
type RuntimeError struct {
	Line int
	Msg  string
}

func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("behavior: runtime error at line %d: %s", e.Line, e.Msg)
	}
	return "behavior: runtime error: " + e.Msg
}

// Program is a compiled decision function. The zero value is a no-op.
type Program struct {
	stmts []stmt
}

// NoOp returns a program that does nothing when executed.
func NoOp() *Program { return &Program{} }

// Compile parses source into a Program without executing anything, so callers
// can reject malformed code before it ever runs. On failure the returned
// program is a usable no-op and the error is a *CompileError.
func Compile(source string) (*Program, error) {
	tokens, err := newScanner(source).scan()
	if err != nil {
		return NoOp(), err
	}
	stmts, err := (&parser{tokens: tokens}).parseProgram()
	if err != nil {
		return NoOp(), err
	}
	return &Program{stmts: stmts}, nil
}

// Execute runs the program against the given API for one tick. Any fault —
// type error, unknown identifier, exhausted step budget, or a panic escaping
// the API implementation — is contained and returned as a *RuntimeError.
// budget <= 0 selects DefaultStepBudget.
func (p *Program) Execute(api API, tick uint64, budget int) (err error) {
	if p == nil || len(p.stmts) == 0 || api == nil {
		return nil
	}
	if budget <= 0 {
		budget = DefaultStepBudget
	}

	defer func() {
		if r := recover(); r != nil {
			err = &RuntimeError{Msg: fmt.Sprintf("panic: %v", r)}
		}
	}()

	in := &interp{api: api, tick: tick, budget: budget, vars: make(map[string]value)}
	for _, s := range p.stmts {
		if err := in.exec(s); err != nil {
			return err
		}
	}
	return nil
}
