package parser

import (
	"regexp"
	"strconv"
	"strings"

	"pastry/internal/ast"
	perr "pastry/internal/errors"
)

var annotationRE = regexp.MustCompile(`(?s)/\*@(.*?)@\*/`)

// stripAnnotation removes the first "/*@ ... @*/" block from source (if
// any), replacing it with equal-length whitespace so that line/column
// positions of the rest of the program are unaffected, and returns the
// block's inner text for separate parsing.
func stripAnnotation(source string) (stripped string, inner string, found bool) {
	loc := annotationRE.FindStringSubmatchIndex(source)
	if loc == nil {
		return source, "", false
	}
	whole := source[loc[0]:loc[1]]
	blank := strings.Map(func(r rune) rune {
		if r == '\n' {
			return '\n'
		}
		return ' '
	}, whole)
	return source[:loc[0]] + blank + source[loc[1]:], source[loc[2]:loc[3]], true
}

// parseAnnotation parses the inner text of a "/*@ Category, [...], ... @*/"
// block, following the original parser's convention exactly: split the
// whole block on '[', ']', and ',' uniformly, then take the first token as
// the category and the rest as a flat token list describing either a
// Bounded variable set (optionally prefixed by one unbounded variable name)
// or a CondBounded variable set (prefixed by the central variable name).
func parseAnnotation(inner string) (*ast.Annotation, error) {
	all := splitAnnotationParts(inner)
	if len(all) == 0 {
		return nil, perr.New(perr.Parse, "malformed annotation %q: missing category", inner)
	}
	category, parts := all[0], all[1:]

	switch category {
	case "Bounded":
		return parseBoundedAnnotation(parts)
	case "CondBounded":
		return parseCondBoundedAnnotation(parts)
	default:
		return nil, perr.New(perr.Parse, "unknown annotation category %q", category)
	}
}

func splitAnnotationParts(body string) []string {
	raw := regexp.MustCompile(`[\[\],]`).Split(body, -1)
	var out []string
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBoundedAnnotation(parts []string) (*ast.Annotation, error) {
	ann := &ast.Annotation{Kind: ast.AnnotationBounded}
	if len(parts)%3 != 0 {
		ann.Unbounded = parts[0]
		parts = parts[1:]
	}
	if len(parts)%3 != 0 {
		return nil, perr.New(perr.Parse, "Bounded annotation: variable triples malformed")
	}
	for i := 0; i < len(parts); i += 3 {
		name := parts[i]
		lo, err := strconv.ParseInt(parts[i+1], 10, 64)
		if err != nil {
			return nil, perr.New(perr.Parse, "Bounded annotation: bad lower bound %q", parts[i+1])
		}
		hi, err := strconv.ParseInt(parts[i+2], 10, 64)
		if err != nil {
			return nil, perr.New(perr.Parse, "Bounded annotation: bad upper bound %q", parts[i+2])
		}
		ann.Bounded = append(ann.Bounded, ast.BoundedVar{Name: name, Lo: lo, Hi: hi})
	}
	return ann, nil
}

func parseCondBoundedAnnotation(parts []string) (*ast.Annotation, error) {
	if len(parts) == 0 {
		return nil, perr.New(perr.Parse, "CondBounded annotation: missing central variable")
	}
	ann := &ast.Annotation{Kind: ast.AnnotationCondBounded, Central: parts[0]}
	parts = parts[1:]
	if len(parts)%5 != 0 {
		return nil, perr.New(perr.Parse, "CondBounded annotation: variable quintuples malformed")
	}
	for i := 0; i < len(parts); i += 5 {
		nums := make([]int64, 4)
		for j := 0; j < 4; j++ {
			v, err := strconv.ParseInt(parts[i+1+j], 10, 64)
			if err != nil {
				return nil, perr.New(perr.Parse, "CondBounded annotation: bad integer %q", parts[i+1+j])
			}
			nums[j] = v
		}
		ann.CondBounded = append(ann.CondBounded, ast.CondBoundedVar{
			Name: parts[i], A: nums[0], B: nums[1], C: nums[2], D: nums[3],
		})
	}
	return ann, nil
}
