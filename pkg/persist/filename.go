package persist

import (
	"regexp"
	"strings"
)

// DefaultName is used when the root text yields no usable file name.
const DefaultName = "mindmap.json"

const maxNameRunes = 20

var (
	markupTag    = regexp.MustCompile(`<[^>]+>`)
	illegalChars = regexp.MustCompile(`[\\/:*?"<>|]`)
)

// DefaultFileName suggests a file name from the root topic's text: line
// breaks become spaces, markup tags and characters that are illegal in file
// names are dropped and the result is cut to 20 characters.
func DefaultFileName(rootText string) string {
	name := strings.ReplaceAll(rootText, "\n", " ")
	name = strings.ReplaceAll(name, "\r", "")
	name = markupTag.ReplaceAllString(name, "")
	name = illegalChars.ReplaceAllString(name, "")
	if r := []rune(name); len(r) > maxNameRunes {
		name = string(r[:maxNameRunes])
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	return name + ".json"
}
