package lang

// scanState is the state of the tokenizer between bytes.
type scanState int

const (
	scanInit     scanState = iota // no token in progress
	scanFunIdent                  // buffering a function identifier
	scanTag                       // buffering a plain tag
	scanTagExact                  // buffering an exact tag
)

// bufferKind maps a buffering state to the kind of token it produces.
var bufferKind = [...]TokenKind{
	scanFunIdent: TokenFunIdent,
	scanTag:      TokenTag,
	scanTagExact: TokenTagExact,
}

// Tokenize scans input into an ordered sequence of tokens.
//
// Tokenize never fails: any byte sequence yields some token sequence, and
// malformed syntax is left for [ParseTokens] to report. Token text is sliced
// from input without copying.
func Tokenize(input string) []Token {
	var (
		tokens = make([]Token, 0, len(input)/2+1)
		state  = scanInit
		begin  int // first byte of the buffered name
		start  int // offset of the buffered token, including its sigil
	)

	for pos := 0; pos < len(input); pos++ {
		c := input[pos]

		if state == scanInit {
			switch {
			case c == '@':
				begin, start, state = pos+1, pos, scanFunIdent
			case c == '$':
				begin, start, state = pos+1, pos, scanTagExact
			case c == '[':
				tokens = append(tokens, Token{Kind: TokenLBracket, Offset: pos})
			case c == ']':
				tokens = append(tokens, Token{Kind: TokenRBracket, Offset: pos})
			case c == '!':
				tokens = append(tokens, Token{Kind: TokenNot, Offset: pos})
			case isSpace(c):
			default:
				begin, start, state = pos, pos, scanTag
			}

			continue
		}

		// Any byte other than whitespace or a bracket extends the buffer.
		if !isSpace(c) && c != '[' && c != ']' {
			continue
		}

		tokens = append(tokens, Token{
			Kind:   bufferKind[state],
			Text:   input[begin:pos],
			Offset: start,
		})
		state = scanInit

		switch c {
		case '[':
			tokens = append(tokens, Token{Kind: TokenLBracket, Offset: pos})
		case ']':
			tokens = append(tokens, Token{Kind: TokenRBracket, Offset: pos})
		}
	}

	if state != scanInit {
		tokens = append(tokens, Token{
			Kind:   bufferKind[state],
			Text:   input[begin:],
			Offset: start,
		})
	}

	return tokens
}

// isSpace reports whether c is ASCII whitespace: space, tab, line feed,
// form feed, or carriage return. Vertical tab is not whitespace.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}

	return false
}
