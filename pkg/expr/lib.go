package expr

import (
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Math(),
		ext.Strings(),
		ext.Lists(),

		// `between` checks whether an amount falls inside an inclusive range.
		// Example: amount.between(10.0, 250.0).
		cel.Function("between",
			cel.MemberOverload("double_between_double_double",
				[]*cel.Type{cel.DoubleType, cel.DoubleType, cel.DoubleType}, cel.BoolType,
				cel.FunctionBinding(func(args ...ref.Val) ref.Val {
					if len(args) != 3 {
						return types.NewErr("between: expected 3 arguments")
					}

					amount, ok := args[0].(types.Double)
					if !ok {
						return types.NewErr("between: invalid amount value")
					}

					lo, ok := args[1].(types.Double)
					if !ok {
						return types.NewErr("between: invalid lower bound")
					}

					hi, ok := args[2].(types.Double)
					if !ok {
						return types.NewErr("between: invalid upper bound")
					}

					return types.Bool(amount >= lo && amount <= hi)
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}
