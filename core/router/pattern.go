package router

import (
	"fmt"
	"regexp"
	"strings"
)

// segment is one parsed piece of a route pattern.
type segment struct {
	kind nodeKind

	// literal text for static segments
	text string

	// capture name for params and catch-alls
	key string

	// anchored expression source and compiled matcher for regexp params
	expr string
	rex  *regexp.Regexp

	// byte that terminates a param value; '/' when the param ends the pattern
	tail byte
}

// parsePattern splits a route pattern into static text, {name},
// {name:regexp}, and a trailing * or {*name} catch-all.
func parsePattern(pattern string) ([]segment, error) {
	if pattern == "" || pattern[0] != '/' {
		return nil, fmt.Errorf("%w: %q must begin with '/'", ErrInvalidPattern, pattern)
	}

	var (
		segs []segment
		seen = map[string]struct{}{}
		rest = pattern
	)

	addKey := func(key string) error {
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %q has duplicate key %q", ErrDuplicateParam, pattern, key)
		}
		seen[key] = struct{}{}
		return nil
	}

	for rest != "" {
		ps := strings.IndexByte(rest, '{')
		ws := strings.IndexByte(rest, '*')

		if ps < 0 && ws < 0 {
			segs = append(segs, segment{kind: kindStatic, text: rest})
			break
		}

		// bare wildcard comes first
		if ws >= 0 && (ps < 0 || ws < ps) {
			if ws != len(rest)-1 {
				return nil, fmt.Errorf("%w: %q", ErrWildcardPosition, pattern)
			}
			if ws > 0 {
				segs = append(segs, segment{kind: kindStatic, text: rest[:ws]})
			}
			if err := addKey("*"); err != nil {
				return nil, err
			}
			segs = append(segs, segment{kind: kindCatchAll, key: "*"})
			break
		}

		if ps > 0 {
			segs = append(segs, segment{kind: kindStatic, text: rest[:ps]})
		} else if len(segs) > 0 && segs[len(segs)-1].kind != kindStatic {
			return nil, fmt.Errorf("%w: %q has adjacent parameters", ErrInvalidPattern, pattern)
		}

		// find the matching brace, regexps may contain their own
		depth, pe := 0, -1
		for i := ps; i < len(rest); i++ {
			switch rest[i] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				pe = i
				break
			}
		}
		if pe < 0 {
			return nil, fmt.Errorf("%w: %q has an unclosed '{'", ErrInvalidPattern, pattern)
		}

		body := rest[ps+1 : pe]
		rest = rest[pe+1:]
		key, expr, hasExpr := strings.Cut(body, ":")

		if name, ok := strings.CutPrefix(key, "*"); ok {
			if rest != "" {
				return nil, fmt.Errorf("%w: %q", ErrWildcardPosition, pattern)
			}
			if name == "" || hasExpr {
				return nil, fmt.Errorf("%w: %q has a malformed catch-all", ErrInvalidPattern, pattern)
			}
			if err := addKey(name); err != nil {
				return nil, err
			}
			segs = append(segs, segment{kind: kindCatchAll, key: name})
			break
		}

		if key == "" {
			return nil, fmt.Errorf("%w: %q has an empty parameter name", ErrInvalidPattern, pattern)
		}
		if err := addKey(key); err != nil {
			return nil, err
		}

		seg := segment{kind: kindParam, key: key, tail: '/'}
		if rest != "" {
			seg.tail = rest[0]
			if seg.tail == '{' || seg.tail == '*' {
				return nil, fmt.Errorf("%w: %q has adjacent parameters", ErrInvalidPattern, pattern)
			}
		}
		if hasExpr {
			if expr == "" {
				return nil, fmt.Errorf("%w: %q has an empty expression for %q", ErrInvalidRegexp, pattern, key)
			}
			if expr[0] != '^' {
				expr = "^" + expr
			}
			if expr[len(expr)-1] != '$' {
				expr += "$"
			}
			rex, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRegexp, expr, err)
			}
			seg.kind = kindRegexp
			seg.expr = expr
			seg.rex = rex
		}
		segs = append(segs, seg)
	}

	return segs, nil
}
