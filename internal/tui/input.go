package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// maxInputLen is the maximum number of runes allowed in a form field.
const maxInputLen = 500

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case "space":
		key = " "
	}
	if utf8.RuneCountInString(key) == 1 {
		if utf8.RuneCountInString(text) >= maxInputLen {
			return text
		}
		return text + key
	}
	return text
}

// insertText appends pasted text, clamped to maxInputLen runes. Control
// characters are dropped so a multi-line paste stays on one line.
func insertText(text, pasted string) string {
	room := maxInputLen - utf8.RuneCountInString(text)
	if room <= 0 {
		return text
	}
	var b strings.Builder
	b.WriteString(text)
	for _, r := range pasted {
		if room == 0 {
			break
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
		room--
	}
	return b.String()
}

// editKey applies a key message to a single-line input. Bracketed pastes
// arrive as one message carrying every pasted rune.
func editKey(text string, msg tea.KeyMsg) string {
	if msg.Paste {
		return insertText(text, string(msg.Runes))
	}
	return editRune(text, msg.String())
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// renderInput renders a one-line text input with a block cursor when focused.
func renderInput(label, value, placeholder string, focused, masked bool) string {
	shown := value
	if masked {
		shown = ""
		for range utf8.RuneCountInString(value) {
			shown += "*"
		}
	}
	prompt := metaStyle.Render(label + ": ")
	if focused {
		prompt = inputPromptStyle.Render("> ") + selectedStyle.Render(label+": ")
	} else {
		prompt = "  " + prompt
	}
	switch {
	case shown == "" && !focused:
		return prompt + inputPlaceholderStyle.Render(placeholder)
	case focused:
		return prompt + normalStyle.Render(shown) + accentStyle.Render("█")
	default:
		return prompt + dimStyle.Render(shown)
	}
}
