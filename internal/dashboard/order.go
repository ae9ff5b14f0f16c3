package dashboard

import "sort"

// OrderOf returns the display position of t. Configured types come first in
// configured order; the rest follow in declaration order.
func OrderOf(t TileType, configured []TileType) int {
	for i, c := range configured {
		if c == t {
			return i
		}
	}
	return len(configured) + int(t)
}

func sortTiles(tiles []Tile, configured []TileType) {
	sort.SliceStable(tiles, func(i, j int) bool {
		return OrderOf(tiles[i].Type(), configured) < OrderOf(tiles[j].Type(), configured)
	})
}
