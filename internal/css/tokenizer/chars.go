package tokenizer

func isWhitespace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c rune) rune {
	switch {
	case isDigit(c):
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	}
	return c - 'A' + 10
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameStart(c rune) bool {
	return isLetter(c) || c == '_' || c >= 0x80
}

func isName(c rune) bool {
	return isNameStart(c) || isDigit(c) || c == '-'
}

func isNonPrintable(c rune) bool {
	return (c >= 0 && c <= 0x08) || c == 0x0B || (c >= 0x0E && c <= 0x1F) || c == 0x7F
}

// isValidEscape reports whether c1 and c2 start an escape. (§4.3.8)
func isValidEscape(c1, c2 rune) bool {
	return c1 == '\\' && c2 != '\n'
}

// wouldStartIdent reports whether the three code points start an
// identifier. (§4.3.9)
func wouldStartIdent(c1, c2, c3 rune) bool {
	switch {
	case c1 == '-':
		return isNameStart(c2) || c2 == '-' || isValidEscape(c2, c3)
	case c1 == '\\':
		return isValidEscape(c1, c2)
	}
	return isNameStart(c1)
}

// startsNumber reports whether the three code points start a number. (§4.3.10)
func startsNumber(c1, c2, c3 rune) bool {
	switch {
	case c1 == '+' || c1 == '-':
		return isDigit(c2) || (c2 == '.' && isDigit(c3))
	case c1 == '.':
		return isDigit(c2)
	}
	return isDigit(c1)
}
