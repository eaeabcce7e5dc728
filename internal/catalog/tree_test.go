package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"sneaker_store_echo/internal/backend"
)

func sampleTree() []backend.Category {
	return []backend.Category{
		{ID: 1, Name: "Giày nam", Children: []backend.Category{
			{ID: 2, Name: "Bóng rổ"},
			{ID: 3, Name: "Chạy bộ", Children: []backend.Category{
				{ID: 6, Name: "Đường phố"},
				{ID: 7, Name: "Địa hình"},
			}},
		}},
		{ID: 4, Name: "Giày nữ"},
		{ID: 5, Name: "Phụ kiện", Children: []backend.Category{
			{ID: 8, Name: "Tất"},
		}},
	}
}

func TestFlatten(t *testing.T) {
	want := []FlatCategory{
		{ID: 1, Name: "Giày nam", Level: 0},
		{ID: 2, Name: "Bóng rổ", Level: 1, IsLeaf: true},
		{ID: 3, Name: "Chạy bộ", Level: 1},
		{ID: 6, Name: "Đường phố", Level: 2, IsLeaf: true},
		{ID: 7, Name: "Địa hình", Level: 2, IsLeaf: true},
		{ID: 4, Name: "Giày nữ", Level: 0, IsLeaf: true},
		{ID: 5, Name: "Phụ kiện", Level: 0},
		{ID: 8, Name: "Tất", Level: 1, IsLeaf: true},
	}

	if diff := cmp.Diff(want, Flatten(sampleTree())); diff != "" {
		t.Errorf("Flatten mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, Flatten(nil))
}

func TestPathString(t *testing.T) {
	tests := []struct {
		name     string
		id       int64
		expected string
	}{
		{name: "root", id: 4, expected: "Giày nữ"},
		{name: "nested", id: 7, expected: "Giày nam > Chạy bộ > Địa hình"},
		{name: "missing", id: 99, expected: "Không xác định"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PathString(sampleTree(), tt.id))
		})
	}
}

func TestLastLeaf(t *testing.T) {
	tree := sampleTree()
	assert.Equal(t, int64(7), LastLeaf(tree, 1))
	assert.Equal(t, int64(7), LastLeaf(tree, 3), "nested nodes are resolved too")
	assert.Equal(t, int64(4), LastLeaf(tree, 4))
	assert.Equal(t, int64(42), LastLeaf(tree, 42))
}

func TestFirstLeaf(t *testing.T) {
	id, ok := FirstLeaf(Flatten(sampleTree()))
	assert.True(t, ok)
	assert.Equal(t, int64(2), id)

	_, ok = FirstLeaf(nil)
	assert.False(t, ok)
}

func TestFind(t *testing.T) {
	node, ok := Find(sampleTree(), 8)
	assert.True(t, ok)
	assert.Equal(t, "Tất", node.Name)

	_, ok = Find(sampleTree(), 100)
	assert.False(t, ok)
}

func TestSplitHeader(t *testing.T) {
	visible, hidden := SplitHeader(sampleTree(), 2)
	assert.Len(t, visible, 2)
	assert.Len(t, hidden, 1)
	assert.Equal(t, int64(5), hidden[0].ID)

	visible, hidden = SplitHeader(sampleTree(), 10)
	assert.Len(t, visible, 3)
	assert.Nil(t, hidden)
}

func TestSizeOptions(t *testing.T) {
	sizes := SizeOptions()
	assert.Len(t, sizes, 13)
	assert.Equal(t, "33", sizes[0])
	assert.Equal(t, "45", sizes[len(sizes)-1])
}
