package runner

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantKind    lineKind
		wantPercent int
		wantElapsed string
	}{
		{name: "progress bar", line: "  45% ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸ 0:00:12", wantKind: lineProgress, wantPercent: 45, wantElapsed: "0:00:12"},
		{name: "progress with unknown remaining", line: "100% -:--:--", wantKind: lineProgress, wantPercent: 100, wantElapsed: "-:--:--"},
		{name: "version prologue", line: `{"version":"1.50.0","results":[`, wantKind: linePrologue},
		{name: "results prologue", line: `{"results":[],"errors":[]}`, wantKind: linePrologue},
		{name: "errors prologue", line: `{"errors":[{"level":"error"}]}`, wantKind: linePrologue},
		{name: "prologue with progress-like text", line: `{"version":"1.50.0","results":[{"extra":{"lines":"  45% done 0:00:12"}}]}`, wantKind: linePrologue},
		{name: "registry banner with spinner", line: "⠙ Loading rules from registry...", wantKind: lineNoise},
		{name: "supply chain header", line: "SUPPLY CHAIN RULES", wantKind: lineNoise},
		{name: "cli header", line: "Semgrep CLI", wantKind: lineNoise},
		{name: "code rules", line: "Code rules: 1024", wantKind: lineNoise},
		{name: "box drawing", line: "┌──────────────┐", wantKind: lineNoise},
		{name: "blank", line: "   ", wantKind: lineNoise},
		{name: "diagnostic", line: "[ERROR] invalid configuration file found", wantKind: lineDiagnostic},
		{name: "nothing to scan", line: "Nothing to scan.", wantKind: lineDiagnostic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyLine(tt.line)
			assert.Equal(t, tt.wantKind, got.kind)
			assert.Equal(t, tt.wantPercent, got.percent)
			assert.Equal(t, tt.wantElapsed, got.elapsed)
		})
	}
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "45% done 0:00:01", stripANSI("\x1b[32m45%\x1b[0m done \x1b[?25l0:00:01"))
	assert.Equal(t, "plain", stripANSI("plain"))
}

func TestLineSplitterCarriesPartialLines(t *testing.T) {
	var s lineSplitter

	lines, prologue := s.Push("  12% ━━ 0:0")
	assert.Empty(t, lines)
	assert.False(t, prologue)

	lines, _ = s.Push("0:03\r")
	assert.Equal(t, []string{"  12% ━━ 0:00:03"}, lines)

	lines, _ = s.Push("first\r\nsecond\nthi")
	assert.Equal(t, []string{"first", "second"}, lines)
	assert.Equal(t, "thi", s.Flush())
	assert.Equal(t, "", s.Flush())
}

func TestLineSplitterDetectsPrologue(t *testing.T) {
	tests := []struct {
		name      string
		chunks    []string
		wantLines []string
	}{
		{name: "marker at line start", chunks: []string{"warn\n{\"results\":[]}"}, wantLines: []string{"warn"}},
		{name: "marker split across chunks", chunks: []string{"warn line\n{\"ver", "sion\":\"1.0\",\"results\":["}, wantLines: []string{"warn line"}},
		{name: "marker after text on the same line", chunks: []string{"a\nb", "c {\"errors\":[]}\n"}, wantLines: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s lineSplitter
			var got []string
			detected := false
			for _, c := range tt.chunks {
				lines, prologue := s.Push(c)
				got = append(got, lines...)
				if prologue {
					detected = true
					break
				}
			}
			assert.True(t, detected)
			assert.Equal(t, tt.wantLines, got)
			assert.Equal(t, "", s.Flush())
		})
	}
}

func TestLineSplitterCapsCarry(t *testing.T) {
	s := lineSplitter{limit: 16}
	for i := 0; i < 1000; i++ {
		lines, prologue := s.Push(strings.Repeat("é", 100))
		assert.Empty(t, lines)
		assert.False(t, prologue)
		assert.LessOrEqual(t, len(s.carry), 16)
	}
	assert.True(t, utf8.ValidString(s.carry))

	lines, _ := s.Push(" end\n")
	assert.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], "é end"))
}

func TestLineSplitterKeepsSplitEscapeSequence(t *testing.T) {
	var s lineSplitter
	lines, _ := s.Push("[ERROR] bad rule \x1b[3")
	assert.Empty(t, lines)
	lines, _ = s.Push("1mfoo\x1b[0m\n")
	if assert.Len(t, lines, 1) {
		assert.Equal(t, "[ERROR] bad rule foo", stripANSI(lines[0]))
	}
}

func TestTailBufferKeepsMostRecentBytes(t *testing.T) {
	b := newTailBuffer(10)
	b.WriteLine("aaaa")
	b.WriteLine("bbbb")
	b.WriteLine("cccc")

	assert.Equal(t, "bbb\ncccc", b.String())
	assert.LessOrEqual(t, len(b.data), 10)

	runes := newTailBuffer(6)
	runes.WriteLine("ééé")
	runes.WriteLine("x")
	assert.True(t, utf8.ValidString(runes.String()))
	assert.Equal(t, "é\nx", runes.String())

	unbounded := newTailBuffer(0)
	unbounded.WriteLine(strings.Repeat("x", 100))
	assert.Len(t, unbounded.String(), 100)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(Idle, Starting))
	assert.True(t, CanTransition(Running, Succeeded))
	assert.True(t, CanTransition(Draining, Failed))
	assert.True(t, CanTransition(Failed, Idle))
	assert.False(t, CanTransition(Idle, Running))
	assert.False(t, CanTransition(Succeeded, Running))
	assert.False(t, CanTransition(Draining, Running))
	assert.True(t, Failed.Terminal())
	assert.False(t, Draining.Terminal())
}
