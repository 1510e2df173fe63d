package importer

import (
	"strings"
)

// sourceFile holds the lines of one source file as runes.
type sourceFile struct {
	lines [][]rune
}

func newSourceFile(content []byte) *sourceFile {
	raw := strings.Split(string(content), "\n")
	lines := make([][]rune, len(raw))
	for i, l := range raw {
		lines[i] = []rune(strings.TrimSuffix(l, "\r"))
	}
	return &sourceFile{lines: lines}
}

type position struct {
	line, col int
}

func (p position) before(o position) bool {
	return p.line < o.line || (p.line == o.line && p.col < o.col)
}

// clamp moves a 0-based position inside the document the way an editor validates a range end.
func (s *sourceFile) clamp(p position) position {
	if p.line < 0 {
		return position{}
	}
	if p.line >= len(s.lines) {
		last := len(s.lines) - 1
		return position{line: last, col: len(s.lines[last])}
	}
	if p.col < 0 {
		p.col = 0
	}
	if n := len(s.lines[p.line]); p.col > n {
		p.col = n
	}
	return p
}

// Slice returns the text between 1-based start and end positions; the end column is exclusive.
func (s *sourceFile) Slice(startLine, startCol, endLine, endCol int) string {
	start := s.clamp(position{line: startLine - 1, col: startCol - 1})
	end := s.clamp(position{line: endLine - 1, col: endCol - 1})
	if end.before(start) {
		start, end = end, start
	}

	if start.line == end.line {
		return string(s.lines[start.line][start.col:end.col])
	}

	var b strings.Builder
	b.WriteString(string(s.lines[start.line][start.col:]))
	for l := start.line + 1; l < end.line; l++ {
		b.WriteByte('\n')
		b.WriteString(string(s.lines[l]))
	}
	b.WriteByte('\n')
	b.WriteString(string(s.lines[end.line][:end.col]))
	return b.String()
}
