package router

// Radix tree adapted from the chi routing tree, itself based on
// Armon Dadgar's go-radix (MIT licensed). One tree is kept per HTTP
// method, so each leaf holds at most one route.

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/dmitrymomot/webcore/core/handler"
)

type nodeKind uint8

// Kinds are ordered by match precedence.
const (
	kindStatic   nodeKind = iota // /home
	kindRegexp                   // /{id:[0-9]+}
	kindParam                    // /{user}
	kindCatchAll                 // /assets/* or /assets/{*path}
)

// route is a registered endpoint stored on a leaf.
type route struct {
	pattern string
	keys    []string
	handler handler.Handler
}

type node struct {
	kind nodeKind

	// static: literal prefix; regexp: anchored expression source
	prefix string

	// param value terminator
	tail byte

	rex *regexp.Regexp

	// children grouped by kind, static ones sorted by first byte,
	// param groups with non-'/' tails first
	children [kindCatchAll + 1][]*node

	route *route
}

// insert attaches rt under n following segs.
func (n *node) insert(segs []segment, rt *route) error {
	if len(segs) == 0 {
		if n.route != nil {
			return conflictError(rt.pattern, n.route.pattern)
		}
		n.route = rt
		return nil
	}

	seg := segs[0]
	if seg.kind == kindStatic {
		return n.insertStatic(seg.text, segs[1:], rt)
	}

	child := n.dynamicChild(seg)
	if child == nil {
		child = &node{kind: seg.kind, prefix: seg.expr, tail: seg.tail, rex: seg.rex}
		n.addChild(child)
	}
	return child.insert(segs[1:], rt)
}

// insertStatic walks or splits static edges until text is consumed.
func (n *node) insertStatic(text string, rest []segment, rt *route) error {
	for text != "" {
		i, ok := n.staticIndex(text[0])
		if !ok {
			child := &node{kind: kindStatic, prefix: text}
			n.addChild(child)
			return child.insert(rest, rt)
		}

		child := n.children[kindStatic][i]
		common := longestPrefix(text, child.prefix)
		if common < len(child.prefix) {
			// the split keeps the first byte, so slot i stays in order
			split := &node{kind: kindStatic, prefix: child.prefix[:common]}
			child.prefix = child.prefix[common:]
			split.children[kindStatic] = []*node{child}
			n.children[kindStatic][i] = split
			child = split
		}

		text = text[common:]
		n = child
	}
	return n.insert(rest, rt)
}

func (n *node) addChild(child *node) {
	group := append(n.children[child.kind], child)
	if child.kind == kindStatic {
		slices.SortFunc(group, func(a, b *node) int {
			return int(a.prefix[0]) - int(b.prefix[0])
		})
	} else {
		// params bounded by a specific delimiter are tried before
		// those running to the end of the segment
		slices.SortStableFunc(group, func(a, b *node) int {
			return tailRank(a.tail) - tailRank(b.tail)
		})
	}
	n.children[child.kind] = group
}

func tailRank(tail byte) int {
	if tail == '/' {
		return 1
	}
	return 0
}

func (n *node) staticIndex(label byte) (int, bool) {
	return slices.BinarySearchFunc(n.children[kindStatic], label, func(c *node, l byte) int {
		return int(c.prefix[0]) - int(l)
	})
}

func (n *node) staticChild(label byte) *node {
	if i, ok := n.staticIndex(label); ok {
		return n.children[kindStatic][i]
	}
	return nil
}

func (n *node) dynamicChild(seg segment) *node {
	for _, c := range n.children[seg.kind] {
		if seg.kind == kindCatchAll {
			return c
		}
		if c.tail == seg.tail && c.prefix == seg.expr {
			return c
		}
	}
	return nil
}

// find returns the route matching path along with the captured values in
// pattern order. Static edges win over regexp params, regexp over plain
// params, params over catch-alls; a failed branch backtracks to the next
// candidate.
func (n *node) find(path string, values []string) (*route, []string) {
	if path == "" && n.route != nil {
		return n.route, values
	}

	if path != "" {
		if c := n.staticChild(path[0]); c != nil && strings.HasPrefix(path, c.prefix) {
			if rt, vals := c.find(path[len(c.prefix):], values); rt != nil {
				return rt, vals
			}
		}
	}

	for _, kind := range [...]nodeKind{kindRegexp, kindParam} {
		if path == "" {
			break
		}
		for _, c := range n.children[kind] {
			end := strings.IndexByte(path, c.tail)
			if end < 0 {
				if c.tail != '/' {
					continue
				}
				end = len(path)
			}
			if end == 0 {
				continue
			}

			value := path[:end]
			if c.rex != nil {
				if !c.rex.MatchString(value) {
					continue
				}
			} else if strings.IndexByte(value, '/') >= 0 {
				continue
			}

			if rt, vals := c.find(path[end:], append(values, value)); rt != nil {
				return rt, vals
			}
		}
	}

	for _, c := range n.children[kindCatchAll] {
		if c.route != nil {
			return c.route, append(values, path)
		}
	}

	return nil, nil
}

// walk visits every route in the subtree.
func (n *node) walk(fn func(rt *route)) {
	if n.route != nil {
		fn(n.route)
	}
	for _, group := range n.children {
		for _, c := range group {
			c.walk(fn)
		}
	}
}

func conflictError(pattern, existing string) error {
	if pattern == existing {
		return fmt.Errorf("%w: %q is already registered", ErrRouteConflict, pattern)
	}
	return fmt.Errorf("%w: %q overlaps %q", ErrRouteConflict, pattern, existing)
}

func longestPrefix(a, b string) int {
	limit := min(len(a), len(b))
	i := 0
	for i < limit && a[i] == b[i] {
		i++
	}
	return i
}
