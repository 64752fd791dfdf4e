package evaluator

import "github.com/PedroManse/stt-sub000/internal/ast"

func init() {
	register("type$is-str", typeTest("type$is-str", ast.KindStr))
	register("type$is-num", typeTest("type$is-num", ast.KindNum))
	register("type$is-bool", typeTest("type$is-bool", ast.KindBool))
	register("type$is-array", typeTest("type$is-array", ast.KindArray))
	register("type$is-map", typeTest("type$is-map", ast.KindMap))
	register("type$is-result", typeTest("type$is-result", ast.KindResult))
	register("type$is-option", typeTest("type$is-option", ast.KindOption))
}

// typeTest builds a built-in that consumes the top value and pushes
// whether it has the given kind.
func typeTest(name string, kind ast.ValueKind) builtinFn {
	return func(c *Context, _ string) error {
		v, err := c.popOne(name, "[value]")
		if err != nil {
			return err
		}
		c.Stack.Push(ast.BoolValue(v.Kind == kind))
		return nil
	}
}
