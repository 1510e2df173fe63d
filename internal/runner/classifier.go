package runner

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

type lineKind int

const (
	lineDiagnostic lineKind = iota
	lineProgress
	linePrologue
	lineNoise
)

const nothingToScan = "Nothing to scan."

var (
	ansiPattern     = regexp.MustCompile(`[\x{001b}\x{009b}][\[()#;?]*(?:[0-9]{1,4}(?:;[0-9]{0,4})*)?[0-9A-ORZcf-nqry=><]`)
	progressPattern = regexp.MustCompile(`(\d+)%\s*.*?([-\d]{1,2}:[-\d]{2}:[-\d]{2})`)
	noisePattern    = regexp.MustCompile(`[\x{2800}-\x{28FF}]*\s*Loading rules from registry|SUPPLY CHAIN RULES|Semgrep CLI|Code rules:|^[\s\x{2500}-\x{257F}]+$`)

	prologueMarkers = []string{`{"version":`, `{"results":`, `{"errors":`}
)

// stripANSI removes terminal control sequences.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

type classified struct {
	kind    lineKind
	percent int
	elapsed string
}

// prologueIndex returns the offset of the first JSON prologue marker in s, or -1.
func prologueIndex(s string) int {
	first := -1
	for _, marker := range prologueMarkers {
		if i := strings.Index(s, marker); i >= 0 && (first < 0 || i < first) {
			first = i
		}
	}
	return first
}

// classifyLine checks the JSON prologue, then progress, then noise. Everything else is a diagnostic.
func classifyLine(line string) classified {
	if prologueIndex(line) >= 0 {
		return classified{kind: linePrologue}
	}
	if m := progressPattern.FindStringSubmatch(line); m != nil {
		percent, _ := strconv.Atoi(m[1])
		return classified{kind: lineProgress, percent: percent, elapsed: m[2]}
	}
	if strings.TrimSpace(line) == "" || noisePattern.MatchString(line) {
		return classified{kind: lineNoise}
	}
	return classified{kind: lineDiagnostic}
}

// lineSplitter turns output chunks into lines, carrying a partial line to the next chunk.
// The carry keeps at most limit bytes of the partial line when limit is positive.
type lineSplitter struct {
	carry string
	limit int
}

func isLineBreak(r rune) bool { return r == '\n' || r == '\r' }

// Push returns the complete lines in chunk. When a JSON prologue marker shows up, Push
// returns only the lines before the one holding the marker, reports prologue and drops the rest.
func (s *lineSplitter) Push(chunk string) ([]string, bool) {
	data := s.carry + chunk
	if i := prologueIndex(data); i >= 0 {
		s.carry = ""
		return strings.FieldsFunc(data[:strings.LastIndexAny(data[:i], "\r\n")+1], isLineBreak), true
	}

	last := strings.LastIndexAny(data, "\r\n")
	var lines []string
	if last >= 0 {
		lines = strings.FieldsFunc(data[:last], isLineBreak)
		data = data[last+1:]
	}
	s.carry = tail(data, s.limit)
	return lines, false
}

// Flush returns the carried partial line, if any.
func (s *lineSplitter) Flush() string {
	rest := s.carry
	s.carry = ""
	return rest
}

// Reset drops the carried partial line.
func (s *lineSplitter) Reset() {
	s.carry = ""
}

// tail returns the last limit bytes of s without splitting a rune.
func tail(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := len(s) - limit
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return s[cut:]
}

// tailBuffer keeps the most recent bytes written to it.
type tailBuffer struct {
	limit int
	data  []byte
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (b *tailBuffer) WriteLine(line string) {
	b.data = append(b.data, line...)
	b.data = append(b.data, '\n')
	if b.limit > 0 && len(b.data) > b.limit {
		cut := len(b.data) - b.limit
		for cut < len(b.data) && !utf8.RuneStart(b.data[cut]) {
			cut++
		}
		b.data = b.data[cut:]
	}
}

func (b *tailBuffer) String() string {
	return strings.TrimRight(string(b.data), "\n")
}
