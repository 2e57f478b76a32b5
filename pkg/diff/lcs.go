package diff

// longestCommonSubsequence returns the set of keys forming one longest
// common subsequence of a and b. Keys are assumed unique within each
// sequence, which the section registry guarantees, so set membership fully
// identifies the subsequence. The backtrack is deterministic: on ties it
// favors the earlier element of a.
func longestCommonSubsequence[K comparable](a, b []K) map[K]bool {
	m, n := len(a), len(b)
	table := make([][]int, m+1)
	for i := range table {
		table[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				table[i][j] = table[i-1][j-1] + 1
			} else if table[i-1][j] >= table[i][j-1] {
				table[i][j] = table[i-1][j]
			} else {
				table[i][j] = table[i][j-1]
			}
		}
	}
	keep := make(map[K]bool)
	for i, j := m, n; i > 0 && j > 0; {
		switch {
		case a[i-1] == b[j-1]:
			keep[a[i-1]] = true
			i--
			j--
		case table[i-1][j] >= table[i][j-1]:
			i--
		default:
			j--
		}
	}
	return keep
}

// longestIncreasingIndices reports, per position, whether seq's element
// belongs to one longest strictly increasing subsequence. Elements outside
// the subsequence are the ones that moved.
func longestIncreasingIndices(seq []int) []bool {
	included := make([]bool, len(seq))
	if len(seq) == 0 {
		return included
	}
	tails := make([]int, 0, len(seq))
	parent := make([]int, len(seq))
	for i, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			parent[i] = tails[lo-1]
		} else {
			parent[i] = -1
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}
	for k := tails[len(tails)-1]; k >= 0; k = parent[k] {
		included[k] = true
	}
	return included
}
