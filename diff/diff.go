// Package diff computes a line-level alignment between two texts.
//
// The alignment is a minimal edit script over lines: an ordered chunk
// sequence tagged Equal, Delete (line only in the original) or Insert
// (line only in the modified text). Concatenating Equal+Delete chunks
// reproduces the original exactly; Equal+Insert reproduces the modified
// text. All functions are pure and safe for concurrent use.
package diff

import "strings"

type Tag string

const (
	Equal  Tag = "equal"
	Delete Tag = "delete"
	Insert Tag = "insert"
)

// Chunk is one line of the alignment. Value keeps the line's original
// trailing newline, if it had one.
type Chunk struct {
	Tag   Tag    `json:"tag"`
	Value string `json:"value"`
}

// Lines splits text into lines, each keeping its trailing newline. A
// trailing fragment without a newline counts as a line. The empty string
// yields no lines.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
		if text == "" {
			break
		}
	}
	return lines
}

// Compute aligns original against modified line by line using a longest
// common subsequence, so the result contains the fewest possible Delete
// and Insert chunks.
func Compute(original, modified string) []Chunk {
	a := Lines(original)
	b := Lines(modified)

	n, m := len(a), len(b)

	// lcs[i][j] = length of the LCS of a[i:] and b[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	chunks := make([]Chunk, 0, n+m)
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			chunks = append(chunks, Chunk{Tag: Equal, Value: a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			chunks = append(chunks, Chunk{Tag: Delete, Value: a[i]})
			i++
		default:
			chunks = append(chunks, Chunk{Tag: Insert, Value: b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		chunks = append(chunks, Chunk{Tag: Delete, Value: a[i]})
	}
	for ; j < m; j++ {
		chunks = append(chunks, Chunk{Tag: Insert, Value: b[j]})
	}

	return chunks
}

// Summary renders chunks in a unified-diff-like form, one line per
// chunk prefixed with "  ", "- " or "+ ". Lines that did not end with a
// newline get one so the summary stays line oriented.
func Summary(chunks []Chunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		switch c.Tag {
		case Delete:
			sb.WriteString("- ")
		case Insert:
			sb.WriteString("+ ")
		default:
			sb.WriteString("  ")
		}
		sb.WriteString(c.Value)
		if !strings.HasSuffix(c.Value, "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
