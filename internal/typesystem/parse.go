package typesystem

import "strings"

// ParseTypeTester parses one type-syntax token: bare names,
// array<T>/map<V>/option<T>, result<Ok><Err>, fn<InList><OutList>, and
// uppercase-initial generic references.
func ParseTypeTester(s string) (*TypeTester, error) {
	switch s {
	case "?":
		return TAny(), nil
	case "char":
		return TChar(), nil
	case "string", "str":
		return TStr(), nil
	case "num":
		return TNum(), nil
	case "bool":
		return TBool(), nil
	case "list", "array":
		return TArrayAny(), nil
	case "map":
		return TMapAny(), nil
	case "result":
		return TResultAny(), nil
	case "option":
		return TOptionAny(), nil
	case "fn", "closure":
		return TClosureAny(), nil
	}
	if tt, ok := tryParseGeneric(s); ok {
		return tt, nil
	}
	if tt, ok, err := tryParseFn(s); ok || err != nil {
		return tt, err
	}
	if tt, ok, err := tryParseResult(s); ok || err != nil {
		return tt, err
	}
	if tt, ok, err := tryParseSimple(s); ok || err != nil {
		return tt, err
	}
	return nil, &UnknownTypeError{Raw: s}
}

func tryParseGeneric(s string) (*TypeTester, bool) {
	if s == "" {
		return nil, false
	}
	r := s[0]
	if r >= 'A' && r <= 'Z' {
		return TGeneric(s), true
	}
	return nil, false
}

func tryParseSimple(s string) (*TypeTester, bool, error) {
	if !strings.HasSuffix(s, ">") {
		return nil, false, nil
	}
	trimmed := s[:len(s)-1]
	t, cont, ok := strings.Cut(trimmed, "<")
	if !ok {
		return nil, false, nil
	}
	var make_ func(*TypeTester) *TypeTester
	switch t {
	case "option":
		make_ = TOption
	case "map":
		make_ = TMap
	case "array":
		make_ = TArray
	default:
		return nil, false, nil
	}
	inner, err := ParseTypeTester(cont)
	if err != nil {
		return nil, true, err
	}
	return make_(inner), true, nil
}

func tryParseResult(s string) (*TypeTester, bool, error) {
	const prefix = "result<"
	if !strings.HasPrefix(s, prefix) || !strings.HasSuffix(s, ">") {
		return nil, false, nil
	}
	cont := s[len(prefix) : len(s)-1]
	l, r, ok := strings.Cut(cont, "><")
	if !ok {
		return nil, false, nil
	}
	okT, err := ParseTypeTester(l)
	if err != nil {
		return nil, true, err
	}
	errT, err := ParseTypeTester(r)
	if err != nil {
		return nil, true, err
	}
	return TResult(okT, errT), true, nil
}

func parseTypeList(cont string) (TypedFnPart, error) {
	if cont == "*" {
		return AnyFnPart(), nil
	}
	fields := strings.Fields(cont)
	types := make([]*TypeTester, 0, len(fields))
	for _, f := range fields {
		tt, err := ParseTypeTester(f)
		if err != nil {
			return TypedFnPart{}, err
		}
		types = append(types, tt)
	}
	return TypedFnPartOf(types), nil
}

func tryParseFn(s string) (*TypeTester, bool, error) {
	const prefix = "fn<"
	if !strings.HasPrefix(s, prefix) || !strings.HasSuffix(s, ">") {
		return nil, false, nil
	}
	body := s[len(prefix) : len(s)-1]
	if !strings.Contains(body, ">") {
		return nil, false, nil
	}
	ins, outs, ok := strings.Cut(body, ">")
	if !ok {
		return nil, false, nil
	}
	outs, ok = strings.CutPrefix(outs, "<")
	if !ok {
		return nil, false, nil
	}
	inPart, err := parseTypeList(ins)
	if err != nil {
		return nil, true, err
	}
	outPart, err := parseTypeList(outs)
	if err != nil {
		return nil, true, err
	}
	return TClosure(inPart, outPart), true, nil
}
