package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/tagfilter/filter"
	"github.com/ardnew/tagfilter/lang"
)

// commandPrefix starts a REPL command line.
const commandPrefix = ":"

// commands are the available REPL commands.
var commands = []string{":help", ":tags", ":items", ":history", ":clear", ":quit"}

// functionHelp describes each function for the hint line.
var functionHelp = map[string]string{
	filter.FuncAny:      "@any[req...] matches if any requirement matches",
	filter.FuncAll:      "@all[req...] matches if every requirement matches",
	filter.FuncFile:     "@file[name] matches if the file name contains name",
	filter.FuncNoTags:   "@notags matches items without tags",
	filter.FuncUntagged: "@untagged matches items without tags",
}

// isWordBoundary reports whether r separates words for completion. The
// sigils '@' and '$' stay part of the word they prefix.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r', '[', ']', '!':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor and its byte boundaries within
// input. It returns an empty word when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// candidatesFor returns the completions for word: commands when it begins a
// command line, functions after '@', and tags otherwise.
func candidatesFor(word string, wordStart int, tags []string) []string {
	switch {
	case wordStart == 0 && strings.HasPrefix(word, commandPrefix):
		return commands

	case strings.HasPrefix(word, "@"):
		return prefixAll("@", filter.Functions())

	case strings.HasPrefix(word, "$"):
		return prefixAll("$", tags)

	default:
		return tags
	}
}

func prefixAll(prefix string, names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = prefix + name
	}

	return out
}

// computeMatches returns the ranked completions for the word at the cursor
// and the word's boundaries. An empty word has no completions.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	word, ws, we := wordBounds(m.input.Value(), m.input.Position())
	if word == "" {
		return nil, ws, we
	}

	candidates := candidatesFor(word, ws, m.tags)
	if len(candidates) == 0 {
		return nil, ws, we
	}

	if word == "@" || word == "$" || word == commandPrefix {
		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, ws, we
	}

	return fuzzy.Find(word, candidates), ws, we
}

// enclosingCall returns the name of the innermost function call whose
// parameter list contains the cursor. It reports false if there is none.
func enclosingCall(input string, cursor int) (string, bool) {
	cursor = min(max(cursor, 0), len(input))

	var stack []string

	tokens := lang.Tokenize(input[:cursor])

	for i, tok := range tokens {
		switch tok.Kind {
		case lang.TokenLBracket:
			name := ""
			if i > 0 && tokens[i-1].Kind == lang.TokenFunIdent {
				name = tokens[i-1].Text
			}

			stack = append(stack, name)

		case lang.TokenRBracket:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] != "" {
			return stack[i], true
		}
	}

	return "", false
}

// callHint returns the help line for the function named at the cursor, or
// else for the function call enclosing the cursor.
func callHint(input string, cursor int) string {
	word, _, _ := wordBounds(input, cursor)
	if name, ok := strings.CutPrefix(word, "@"); ok {
		if help, ok := functionHelp[name]; ok {
			return help
		}
	}

	name, ok := enclosingCall(input, cursor)
	if !ok {
		return ""
	}

	if help, ok := functionHelp[name]; ok {
		return help
	}

	return "@" + name + " is not a known function"
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit within width. The selected candidate is highlighted while tabbing.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
