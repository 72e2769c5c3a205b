package settings

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize("Bind  ctrl+q Quit\n\nGrid 1")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	want := []struct {
		kind  TokenKind
		value string
		line  int
		col   int
	}{
		{TokenString, "Bind", 1, 1},
		{TokenArgDelim, "  ", 1, 5},
		{TokenString, "ctrl+q", 1, 7},
		{TokenArgDelim, " ", 1, 13},
		{TokenString, "Quit", 1, 14},
		{TokenStatementDelim, "\n", 1, 18},
		{TokenStatementDelim, "\n", 2, 1},
		{TokenString, "Grid", 3, 1},
		{TokenArgDelim, " ", 3, 5},
		{TokenString, "1", 3, 6},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(tokens), len(want), tokens)
	}
	for i, w := range want {
		got := tokens[i]
		if got.Kind != w.kind || got.Value != w.value || got.Line != w.line || got.Column != w.col {
			t.Errorf("token %d = {%s %q %d:%d}, want {%s %q %d:%d}",
				i, got.Kind, got.Value, got.Line, got.Column, w.kind, w.value, w.line, w.col)
		}
	}
}

func TestTokenizeEmpty(t *testing.T) {
	tokens, err := Tokenize("")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("expected no tokens, got %v", tokens)
	}
}

func TestTokenizeNoEscaping(t *testing.T) {
	tokens, err := Tokenize(`"a\b" 'c'`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(tokens) != 3 || tokens[0].Value != `"a\b"` || tokens[2].Value != `'c'` {
		t.Errorf("quotes and backslashes should be kept verbatim, got %+v", tokens)
	}
}

func TestTokenizeInvalidUTF8(t *testing.T) {
	_, err := Tokenize("Bind \xff\xfe Quit")
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *LexError, got %v", err)
	}
	if lexErr.Line != 1 || lexErr.Column != 6 {
		t.Errorf("LexError at %d:%d, want 1:6", lexErr.Line, lexErr.Column)
	}
}

func TestLexerRestartable(t *testing.T) {
	src := "Bind ctrl+q Quit\nGrid 1 2 3\n"
	first, _ := Tokenize(src)
	second, _ := Tokenize(src)
	if len(first) != len(second) {
		t.Fatalf("token counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("token %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestTokenizeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []byte("abcXYZ019+-_/<>\"'")

	for i := 0; i < 200; i++ {
		var sb strings.Builder
		n := rng.Intn(60)
		for j := 0; j < n; j++ {
			switch r := rng.Intn(10); {
			case r < 2:
				sb.WriteByte(' ')
			case r < 3:
				sb.WriteByte('\n')
			default:
				sb.WriteByte(alphabet[rng.Intn(len(alphabet))])
			}
		}
		src := sb.String()

		tokens, err := Tokenize(src)
		if err != nil {
			t.Fatalf("Tokenize(%q): %v", src, err)
		}
		var rebuilt strings.Builder
		for _, tok := range tokens {
			rebuilt.WriteString(tok.Value)
		}
		if rebuilt.String() != src {
			t.Fatalf("round trip mismatch:\n got %q\nwant %q", rebuilt.String(), src)
		}
	}
}

func TestSanitizeStripsCarriageReturns(t *testing.T) {
	if got := Sanitize("Grid 1 2 3\r\nSetServer Development\r\n"); got != "Grid 1 2 3\nSetServer Development\n" {
		t.Errorf("Sanitize = %q", got)
	}
}
