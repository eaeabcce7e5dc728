package catalog

import "sneaker_store_echo/internal/backend"

// Colors lists the distinct variant colours in first-seen order.
func Colors(variants []backend.Variant) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range variants {
		c := v.Color.String()
		if _, ok := seen[c]; ok || c == "" {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// SizesFor lists the distinct sizes offered in color, in first-seen order.
// No colour means no sizes.
func SizesFor(variants []backend.Variant, color string) []string {
	if color == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, v := range variants {
		if v.Color.String() != color {
			continue
		}
		s := v.Size.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// FindVariant returns the variant with exactly this colour and size.
func FindVariant(variants []backend.Variant, color, size string) (*backend.Variant, bool) {
	if color == "" || size == "" {
		return nil, false
	}
	for i := range variants {
		if variants[i].Color.String() == color && variants[i].Size.String() == size {
			return &variants[i], true
		}
	}
	return nil, false
}
