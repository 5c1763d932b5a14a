package register

import "strings"

// directionKind is a one-bit signal direction.
type directionKind struct{}

func (directionKind) Format(raw uint16) string {
	if raw != 0 {
		return "output"
	}
	return "input"
}

func (directionKind) Parse(text string) (uint16, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "output":
		return 1, nil
	case "input":
		return 0, nil
	default:
		return 0, &ParseError{Kind: "Direction", Text: text}
	}
}
