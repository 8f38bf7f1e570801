package stringutils

// TitleMaxLen is the number of leading characters of the first user message
// kept as a conversation title.
const TitleMaxLen = 50

const truncationMarker = "..."

// DeriveTitle derives a conversation title from the first user-authored
// message: the first TitleMaxLen characters, with a truncation marker
// appended when the message is longer.
func DeriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= TitleMaxLen {
		return content
	}
	return string(runes[:TitleMaxLen]) + truncationMarker
}
