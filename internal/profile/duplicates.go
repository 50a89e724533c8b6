package profile

import "github.com/cespare/xxhash/v2"

// countDuplicateRows returns how many rows repeat an earlier row. Rows are
// keyed by a 64-bit hash of their cells.
func countDuplicateRows(rows [][]string) int {
	seen := make(map[uint64]struct{}, len(rows))
	dups := 0
	var d xxhash.Digest
	for _, row := range rows {
		d.Reset()
		for _, cell := range row {
			d.WriteString(cell)
			d.Write([]byte{0x1f})
		}
		sum := d.Sum64()
		if _, ok := seen[sum]; ok {
			dups++
			continue
		}
		seen[sum] = struct{}{}
	}
	return dups
}
