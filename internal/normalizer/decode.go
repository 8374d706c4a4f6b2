package normalizer

import (
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
	crerr "github.com/cockroachdb/errors"
)

type pair struct {
	key   string
	value any
}

// Decode parses raw into an Object without losing repeated keys. When a key occurs more
// than once at the same level, every occurrence is renamed key_0, key_1, ... in encounter
// order. Numbers are kept as json.Number so 64-bit ids survive.
func Decode(raw []byte) (Object, error) {
	if !sonic.ConfigStd.Valid(raw) {
		return nil, crerr.Wrap(ErrMalformedPayload, "payload is not a single JSON value")
	}

	root, err := ast.NewSearcher(string(raw)).GetByPath()
	if err != nil {
		return nil, crerr.Wrapf(ErrMalformedPayload, "parse payload: %v", err)
	}
	if root.TypeSafe() != ast.V_OBJECT {
		return nil, crerr.Wrapf(ErrMalformedPayload, "top-level value has type %d, expected object", root.TypeSafe())
	}
	return decodeObject(&root)
}

func decodeValue(node *ast.Node) (any, error) {
	switch node.TypeSafe() {
	case ast.V_OBJECT:
		return decodeObject(node)
	case ast.V_ARRAY:
		return decodeArray(node)
	case ast.V_STRING:
		s, err := node.String()
		if err != nil {
			return nil, crerr.Wrapf(ErrMalformedPayload, "read string: %v", err)
		}
		return s, nil
	case ast.V_NUMBER:
		n, err := node.Number()
		if err != nil {
			return nil, crerr.Wrapf(ErrMalformedPayload, "read number: %v", err)
		}
		return n, nil
	case ast.V_TRUE:
		return true, nil
	case ast.V_FALSE:
		return false, nil
	case ast.V_NULL:
		return nil, nil
	default:
		return nil, crerr.Wrapf(ErrMalformedPayload, "unexpected node type %d", node.TypeSafe())
	}
}

// decodeObject walks the object's properties in source order. The iterator yields every
// occurrence of a repeated key, unlike a map-backed decode.
func decodeObject(node *ast.Node) (Object, error) {
	it, err := node.Properties()
	if err != nil {
		return nil, crerr.Wrapf(ErrMalformedPayload, "iterate object: %v", err)
	}

	pairs := make([]pair, 0, 8)
	var p ast.Pair
	for it.Next(&p) {
		value, err := decodeValue(&p.Value)
		if err != nil {
			return nil, crerr.Wrapf(err, "value of %q", p.Key)
		}
		pairs = append(pairs, pair{key: p.Key, value: value})
	}
	if err := node.Check(); err != nil {
		return nil, crerr.Wrapf(ErrMalformedPayload, "object: %v", err)
	}
	return renameDuplicates(pairs), nil
}

func decodeArray(node *ast.Node) ([]any, error) {
	it, err := node.Values()
	if err != nil {
		return nil, crerr.Wrapf(ErrMalformedPayload, "iterate array: %v", err)
	}

	out := make([]any, 0, 4)
	var elem ast.Node
	for it.Next(&elem) {
		value, err := decodeValue(&elem)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	if err := node.Check(); err != nil {
		return nil, crerr.Wrapf(ErrMalformedPayload, "array: %v", err)
	}
	return out, nil
}

func renameDuplicates(pairs []pair) Object {
	counts := make(map[string]int, len(pairs))
	for _, p := range pairs {
		counts[p.key]++
	}

	out := make(Object, len(pairs))
	next := make(map[string]int)
	for _, p := range pairs {
		if counts[p.key] == 1 {
			out[p.key] = p.value
		}
	}
	for _, p := range pairs {
		if counts[p.key] == 1 {
			continue
		}
		// a literal sibling may already own key_N; skip past it
		for {
			name := p.key + "_" + strconv.Itoa(next[p.key])
			next[p.key]++
			if _, taken := out[name]; !taken {
				out[name] = p.value
				break
			}
		}
	}
	return out
}
