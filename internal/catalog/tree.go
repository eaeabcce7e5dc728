// Package catalog holds the category tree helpers, size list and colour
// palette used by the product pages and the admin forms.
package catalog

import (
	"strconv"
	"strings"

	"sneaker_store_echo/internal/backend"
)

const unknownCategory = "Không xác định"

// FlatCategory is one row of a flattened category tree, ready for a select box.
type FlatCategory struct {
	ID     int64
	Name   string
	Level  int
	IsLeaf bool
}

// Indent returns the prefix used to show Level in a select option.
func (f FlatCategory) Indent() string {
	return strings.Repeat("— ", f.Level)
}

// Flatten walks the tree depth first. Parents come before their children and
// siblings keep the order the backend returned.
func Flatten(tree []backend.Category) []FlatCategory {
	out := make([]FlatCategory, 0, len(tree))
	var walk func(nodes []backend.Category, level int)
	walk = func(nodes []backend.Category, level int) {
		for _, n := range nodes {
			out = append(out, FlatCategory{
				ID:     n.ID,
				Name:   n.Name,
				Level:  level,
				IsLeaf: len(n.Children) == 0,
			})
			walk(n.Children, level+1)
		}
	}
	walk(tree, 0)
	return out
}

// Find returns the node with id anywhere in the tree.
func Find(tree []backend.Category, id int64) (*backend.Category, bool) {
	for i := range tree {
		if tree[i].ID == id {
			return &tree[i], true
		}
		if found, ok := Find(tree[i].Children, id); ok {
			return found, true
		}
	}
	return nil, false
}

// Path returns the names from the root down to id, or nil when id is absent.
func Path(tree []backend.Category, id int64) []string {
	for _, n := range tree {
		if n.ID == id {
			return []string{n.Name}
		}
		if sub := Path(n.Children, id); sub != nil {
			return append([]string{n.Name}, sub...)
		}
	}
	return nil
}

// PathString renders Path as "Giày > Nam > Bóng rổ".
func PathString(tree []backend.Category, id int64) string {
	path := Path(tree, id)
	if len(path) == 0 {
		return unknownCategory
	}
	return strings.Join(path, " > ")
}

// FirstLeaf is the default category for a new product.
func FirstLeaf(flat []FlatCategory) (int64, bool) {
	for _, c := range flat {
		if c.IsLeaf {
			return c.ID, true
		}
	}
	return 0, false
}

// LastLeaf follows the last child down from id until it reaches a leaf.
// Unknown ids are returned unchanged.
func LastLeaf(tree []backend.Category, id int64) int64 {
	node, ok := Find(tree, id)
	if !ok {
		return id
	}
	for len(node.Children) > 0 {
		node = &node.Children[len(node.Children)-1]
	}
	return node.ID
}

// SplitHeader splits the roots into those shown in the header bar and the
// overflow listed under "more".
func SplitHeader(tree []backend.Category, max int) (visible, hidden []backend.Category) {
	if max < 0 {
		max = 0
	}
	if len(tree) <= max {
		return tree, nil
	}
	return tree[:max], tree[max:]
}

const (
	minShoeSize = 33
	maxShoeSize = 45
)

// SizeOptions lists the shoe sizes offered in filters and variant forms.
func SizeOptions() []string {
	sizes := make([]string, 0, maxShoeSize-minShoeSize+1)
	for s := minShoeSize; s <= maxShoeSize; s++ {
		sizes = append(sizes, strconv.Itoa(s))
	}
	return sizes
}
