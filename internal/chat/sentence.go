// ABOUTME: Sentence splitting for incremental speech synthesis
// ABOUTME: Breaks text after terminal punctuation followed by whitespace
package chat

import "strings"

// SplitSentences breaks text into sentences at whitespace following terminal
// punctuation (. ! ?). Runs of punctuation ("..." or "?!") stay attached to
// their sentence, which matters for the voice's pause handling. Sentences
// are trimmed; empty pieces are dropped.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)

		if !isTerminal(r) {
			continue
		}
		// Consume the rest of a punctuation run.
		for i+1 < len(runes) && isTerminal(runes[i+1]) {
			i++
			current.WriteRune(runes[i])
		}
		// Only split when followed by whitespace, so "3.14" stays intact.
		if i+1 < len(runes) && isSpace(runes[i+1]) {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
