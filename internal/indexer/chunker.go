// Package indexer chunks transcripts and records indexing metadata.
package indexer

import "strings"

// DefaultChunkSize is the target word count per chunk.
const DefaultChunkSize = 500

// Chunk splits text on whitespace and groups consecutive words into chunks of
// size words each. The final chunk may be shorter. A size below 1 falls back
// to DefaultChunkSize. Pure function, no side effects.
//
// Joining the returned chunks with single spaces reproduces the
// whitespace-normalized input exactly.
func Chunk(text string, size int) []string {
	if size < 1 {
		size = DefaultChunkSize
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{}
	}

	chunks := make([]string, 0, (len(words)+size-1)/size)
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
