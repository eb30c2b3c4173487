package dynobj

import (
	"math"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/dynobj/dynobj-go/internal/errors"
	"github.com/dynobj/dynobj-go/parser"
	"github.com/dynobj/dynobj-go/syntax"
	"github.com/dynobj/dynobj-go/value"
)

// ParseYAML parses the first document of a YAML stream into a Value using
// the default limits.
//
// Scalars map onto kinds the same way JSON does: booleans become Int 1 or
// 0, null becomes None, integers become Int and floats become Double.
// Every other scalar (timestamps, binary, custom tags) is kept as a String.
// Anchors and aliases are expanded, and merge keys (<<) are honored.
// Expansion is capped relative to the source size, so documents that nest
// aliases to blow up exponentially fail with an out of range error.
func ParseYAML(source string) (Value, error) {
	return ParseYAMLWithOptions(source, ParseOptions{})
}

// ParseYAMLWithOptions parses a YAML document into a Value. MaxDepth and
// Fuel apply to the expanded tree. The alias expansion cap applies whether
// or not Fuel is set.
func ParseYAMLWithOptions(source string, opts ParseOptions) (Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(source), &root); err != nil {
		return value.None(), errors.Newf(errors.ErrTypeError, "invalid YAML: %v", err).
			WithName(opts.Name).WithSource(source)
	}

	c := &yamlConverter{
		maxDepth:   opts.MaxDepth,
		aliasLimit: max(minAliasExpansion, aliasExpansionPerByte*len(source)),
	}
	if c.maxDepth <= 0 {
		c.maxDepth = parser.DefaultMaxDepth
	}
	if opts.Fuel > 0 {
		c.fuel = int64(min(opts.Fuel, uint64(1<<62)))
		c.limited = true
	}

	v, err := c.convert(&root)
	if err != nil {
		return value.None(), err.WithName(opts.Name).WithSource(source)
	}
	return v, nil
}

// Values produced while expanding aliases may not exceed
// max(minAliasExpansion, aliasExpansionPerByte*len(source)).
const (
	minAliasExpansion     = 100_000
	aliasExpansionPerByte = 10
)

type yamlConverter struct {
	depth    int
	maxDepth int
	fuel     int64
	limited  bool

	aliasDepth int
	expanded   int
	aliasLimit int
}

func clampPos(n int) uint16 {
	switch {
	case n < 0:
		return 0
	case n > math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(n)
}

func nodeSpan(n *yaml.Node) syntax.Span {
	line := clampPos(n.Line)
	col := clampPos(n.Column - 1)
	return syntax.Span{
		StartLine: line,
		StartCol:  col,
		EndLine:   line,
		EndCol:    clampPos(int(col) + utf8.RuneCountInString(n.Value)),
	}
}

func (c *yamlConverter) convert(n *yaml.Node) (Value, *errors.Error) {
	switch n.Kind {
	case 0:
		// empty input
		return value.None(), nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.None(), nil
		}
		return c.convert(n.Content[0])
	case yaml.AliasNode:
		c.aliasDepth++
		defer func() { c.aliasDepth-- }()
		return c.convert(n.Alias)
	}

	if c.aliasDepth > 0 {
		c.expanded++
		if c.expanded > c.aliasLimit {
			return value.None(), errors.Newf(errors.ErrOutOfRange, "alias expansion exceeds %d values", c.aliasLimit).
				WithSpan(nodeSpan(n))
		}
	}

	if c.limited {
		c.fuel--
		if c.fuel < 0 {
			return value.None(), errors.New(errors.ErrOutOfRange, "out of fuel: document has too many values").
				WithSpan(nodeSpan(n))
		}
	}

	switch n.Kind {
	case yaml.ScalarNode:
		return c.convertScalar(n)
	case yaml.SequenceNode:
		if err := c.enter(n); err != nil {
			return value.None(), err
		}
		defer func() { c.depth-- }()

		items := make([]Value, 0, len(n.Content))
		for _, child := range n.Content {
			item, err := c.convert(child)
			if err != nil {
				return value.None(), err
			}
			items = append(items, item)
		}
		return value.OwnList(items), nil
	case yaml.MappingNode:
		if err := c.enter(n); err != nil {
			return value.None(), err
		}
		defer func() { c.depth-- }()

		entries := make(map[string]Value, len(n.Content)/2)
		var merges []*yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return value.None(), errors.Newf(errors.ErrTypeError, "map keys must be scalars, found %s", nodeKindName(key)).
					WithSpan(nodeSpan(key))
			}
			if key.ShortTag() == "!!merge" {
				merges = append(merges, val)
				continue
			}
			item, err := c.convert(val)
			if err != nil {
				return value.None(), err
			}
			entries[key.Value] = item
		}
		for _, m := range merges {
			if err := c.merge(entries, m); err != nil {
				return value.None(), err
			}
		}
		return value.OwnMap(entries), nil
	default:
		return value.None(), errors.Newf(errors.ErrTypeError, "unsupported YAML node %s", nodeKindName(n)).
			WithSpan(nodeSpan(n))
	}
}

// merge adds the entries of a merge key's value to entries without
// overriding keys that are already present.
func (c *yamlConverter) merge(entries map[string]Value, n *yaml.Node) *errors.Error {
	src, err := c.convert(n)
	if err != nil {
		return err
	}
	var sources []Value
	switch src.Kind() {
	case value.KindMap:
		sources = []Value{src}
	case value.KindList:
		sources, _ = src.AsList()
	default:
		return errors.Newf(errors.ErrTypeError, "cannot merge %s into map", src.Kind()).WithSpan(nodeSpan(n))
	}
	for _, s := range sources {
		m, convErr := s.AsMap()
		if convErr != nil {
			return errors.Newf(errors.ErrTypeError, "cannot merge %s into map", s.Kind()).WithSpan(nodeSpan(n))
		}
		for k, v := range m {
			if _, exists := entries[k]; !exists {
				entries[k] = v.Clone()
			}
		}
	}
	return nil
}

func (c *yamlConverter) enter(n *yaml.Node) *errors.Error {
	c.depth++
	if c.depth > c.maxDepth {
		return errors.Newf(errors.ErrOutOfRange, "document exceeds maximum nesting depth of %d", c.maxDepth).
			WithSpan(nodeSpan(n))
	}
	return nil
}

func (c *yamlConverter) convertScalar(n *yaml.Node) (Value, *errors.Error) {
	switch n.ShortTag() {
	case "!!null":
		return value.None(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.None(), errors.Newf(errors.ErrTypeError, "invalid boolean %q", n.Value).WithSpan(nodeSpan(n))
		}
		if b {
			return value.FromInt(1), nil
		}
		return value.FromInt(0), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return value.None(), errors.Newf(errors.ErrTypeError, "integer %s does not fit in 64 bits", n.Value).WithSpan(nodeSpan(n))
		}
		return value.FromInt(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return value.None(), errors.Newf(errors.ErrTypeError, "invalid number %s", n.Value).WithSpan(nodeSpan(n))
		}
		return value.FromFloat(f), nil
	default:
		return value.FromString(n.Value), nil
	}
}

func nodeKindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}
