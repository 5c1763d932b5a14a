package register

import "strings"

// statusRetKind is the three-way status-return-level enum (spec.md §3,
// §4.D): none, read-only replies, or all replies.
type statusRetKind struct{}

func (statusRetKind) Format(raw uint16) string {
	switch raw {
	case 0:
		return "none"
	case 1:
		return "read"
	case 2:
		return "all"
	default:
		return "Raw(" + rawKind{size: 1}.Format(raw) + ")"
	}
}

func (statusRetKind) Parse(text string) (uint16, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "none":
		return 0, nil
	case "read":
		return 1, nil
	case "all":
		return 2, nil
	default:
		return 0, &ParseError{Kind: "StatusRet", Text: text}
	}
}
