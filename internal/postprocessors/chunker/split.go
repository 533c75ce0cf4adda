package chunker

import "strings"

// sentenceCutRatio is how far into a window the last '.' must fall
// for the chunk to end on a sentence boundary.
const sentenceCutRatio = 0.7

// Split divides text into overlapping chunks of at most chunkSize runes.
//
// A chunk ends on the last '.' in its window when that full stop lies past
// 70% of the window; otherwise it ends at the window boundary. Consecutive
// chunks share overlap runes. Blank chunks are dropped.
// Every rune of text appears in at least one chunk and the last chunk ends
// at the end of text.
func Split(text string, chunkSize, overlap int) []string {
	if text == "" || chunkSize <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	runes := []rune(text)
	n := len(runes)
	minCut := sentenceCutRatio * float64(chunkSize)

	var chunks []string
	start := 0
	for start < n {
		end := start + chunkSize
		if end >= n {
			chunks = appendNonBlank(chunks, string(runes[start:]))
			break
		}

		window := runes[start:end]
		cut := len(window)
		next := end - overlap

		if dot := lastIndexRune(window, '.'); dot >= 0 && float64(dot) > minCut {
			cut = dot + 1
			next = start + cut - overlap
		}

		// A sentence cut shorter than the overlap would not move forward.
		if next <= start {
			cut = len(window)
			next = end - overlap
		}

		chunks = appendNonBlank(chunks, string(window[:cut]))
		start = next
	}

	return chunks
}

func appendNonBlank(chunks []string, chunk string) []string {
	if strings.TrimSpace(chunk) == "" {
		return chunks
	}
	return append(chunks, chunk)
}

func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
