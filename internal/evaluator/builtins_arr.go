package evaluator

import "github.com/PedroManse/stt-sub000/internal/ast"

func init() {
	register("&arr$len", builtinArrLen)
	register("arr$reverse", builtinArrReverse)
	register("arr$unpack", builtinArrUnpack)
	register("arr$pack-n", builtinArrPackN)
	register("arr$new", builtinArrNew)
	register("arr$append", builtinArrAppend)
	register("arr$join", builtinArrJoin)
	register("arr$pop", builtinArrPop)
	register("map$new", builtinMapNew)
	register("map$insert-kv", builtinMapInsertKV)
	register("map$get", builtinMapGet)
}

func builtinArrLen(c *Context, _ string) error {
	v, err := c.peekOne("&arr$len", "[array]")
	if err != nil {
		return err
	}
	arr, err := wantArr("&arr$len", "[array]", "array", v)
	if err != nil {
		return err
	}
	c.Stack.Push(ast.NumValue(int64(len(arr))))
	return nil
}

func builtinArrReverse(c *Context, _ string) error {
	v, err := c.popOne("arr$reverse", "[array]")
	if err != nil {
		return err
	}
	arr, err := wantArr("arr$reverse", "[array]", "array", v)
	if err != nil {
		return err
	}
	rev := make([]ast.Value, len(arr))
	for i, el := range arr {
		rev[len(arr)-1-i] = el
	}
	c.Stack.Push(ast.ArrayValue(rev))
	return nil
}

// builtinArrUnpack pushes every element in order, then the array's length.
func builtinArrUnpack(c *Context, _ string) error {
	v, err := c.popOne("arr$unpack", "[array]")
	if err != nil {
		return err
	}
	arr, err := wantArr("arr$unpack", "[array]", "array", v)
	if err != nil {
		return err
	}
	c.Stack.PushN(arr)
	c.Stack.Push(ast.NumValue(int64(len(arr))))
	return nil
}

// builtinArrPackN pops a count, then that many values into an array
// preserving push order. A count larger than the stack — or negative —
// reports the shortfall.
func builtinArrPackN(c *Context, _ string) error {
	countV, err := c.popOne("arr$pack-n", "[n, [n]]")
	if err != nil {
		return err
	}
	count, err := wantNum("arr$pack-n", "[n, [n]]", "n", countV)
	if err != nil {
		return err
	}
	if count < 0 || count > int64(c.Stack.Len()) {
		return &MissingValuesForBuiltinError{
			ForFn:    "arr$pack-n",
			ArgsSpec: "[n, [n]]",
			Missing:  count - int64(c.Stack.Len()),
		}
	}
	values, _ := c.Stack.PopN(int(count))
	c.Stack.Push(ast.ArrayValue(values))
	return nil
}

func builtinArrNew(c *Context, _ string) error {
	c.Stack.Push(ast.ArrayValue(nil))
	return nil
}

func builtinArrAppend(c *Context, _ string) error {
	arrV, err := c.popOne("arr$append", "[value array]")
	if err != nil {
		return err
	}
	arr, err := wantArr("arr$append", "[value array]", "array", arrV)
	if err != nil {
		return err
	}
	value, err := c.popOne("arr$append", "[value array]")
	if err != nil {
		return err
	}
	// Copy before appending: the popped array may still be referenced by a
	// variable or another stack slot.
	next := make([]ast.Value, len(arr), len(arr)+1)
	copy(next, arr)
	c.Stack.Push(ast.ArrayValue(append(next, value)))
	return nil
}

func builtinArrJoin(c *Context, _ string) error {
	joinerV, err := c.popOne("arr$join", "[array joiner]")
	if err != nil {
		return err
	}
	joiner, err := wantStr("arr$join", "[array joiner]", "joiner", joinerV)
	if err != nil {
		return err
	}
	arrV, err := c.popOne("arr$join", "[array joiner]")
	if err != nil {
		return err
	}
	arr, err := wantArr("arr$join", "[array joiner]", "array", arrV)
	if err != nil {
		return err
	}
	out := ""
	for i, el := range arr {
		if el.Kind != ast.KindStr {
			return joinNonStringError("arr$join", el)
		}
		if i > 0 {
			out += joiner
		}
		out += el.Str
	}
	c.Stack.Push(ast.StrValue(out))
	return nil
}

// builtinArrPop pushes the shortened array, then an option holding the
// removed last element (none on an empty array).
func builtinArrPop(c *Context, _ string) error {
	v, err := c.popOne("arr$pop", "[array]")
	if err != nil {
		return err
	}
	arr, err := wantArr("arr$pop", "[array]", "array", v)
	if err != nil {
		return err
	}
	if len(arr) == 0 {
		c.Stack.Push(ast.ArrayValue(arr))
		c.Stack.Push(ast.NoneValue())
		return nil
	}
	last := arr[len(arr)-1]
	c.Stack.Push(ast.ArrayValue(arr[:len(arr)-1]))
	c.Stack.Push(ast.SomeValue(last))
	return nil
}

func builtinMapNew(c *Context, _ string) error {
	c.Stack.Push(ast.MapValue(nil))
	return nil
}

func builtinMapInsertKV(c *Context, _ string) error {
	value, err := c.popOne("map$insert-kv", "[map key value]")
	if err != nil {
		return err
	}
	keyV, err := c.popOne("map$insert-kv", "[map key value]")
	if err != nil {
		return err
	}
	key, err := wantStr("map$insert-kv", "[map key value]", "key", keyV)
	if err != nil {
		return err
	}
	mapV, err := c.popOne("map$insert-kv", "[map key value]")
	if err != nil {
		return err
	}
	m, err := wantMap("map$insert-kv", "[map key value]", "map", mapV)
	if err != nil {
		return err
	}
	next := make(map[string]ast.Value, len(m)+1)
	for k, v := range m {
		next[k] = v
	}
	next[key] = value
	c.Stack.Push(ast.MapValue(next))
	return nil
}

// builtinMapGet pops the key but leaves the map in place, pushing an
// option with the looked-up value.
func builtinMapGet(c *Context, _ string) error {
	keyV, err := c.popOne("map$get", "[map key]")
	if err != nil {
		return err
	}
	key, err := wantStr("map$get", "[map key]", "key", keyV)
	if err != nil {
		return err
	}
	mapV, err := c.peekOne("map$get", "[map key]")
	if err != nil {
		return err
	}
	m, err := wantMap("map$get", "[map key]", "map", mapV)
	if err != nil {
		return err
	}
	if got, ok := m[key]; ok {
		c.Stack.Push(ast.SomeValue(got))
	} else {
		c.Stack.Push(ast.NoneValue())
	}
	return nil
}
