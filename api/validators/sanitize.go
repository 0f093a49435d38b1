package validators

// truncateRunes cuts input to at most maxLen runes; maxLen <= 0 disables the limit.
func truncateRunes(input string, maxLen int) string {
	if maxLen <= 0 {
		return input
	}
	runes := []rune(input)
	if len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return input
}
