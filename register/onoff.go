package register

import "strings"

type onOffKind struct{}

func (onOffKind) Format(raw uint16) string {
	if raw != 0 {
		return "on"
	}
	return "off"
}

func (onOffKind) Parse(text string) (uint16, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "on":
		return 1, nil
	case "off":
		return 0, nil
	default:
		return 0, &ParseError{Kind: "OnOff", Text: text}
	}
}
