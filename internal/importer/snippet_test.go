package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceFileSlice(t *testing.T) {
	src := newSourceFile([]byte("first line\r\nпривет мир\nabcxyz\nlast"))

	tests := []struct {
		name                                 string
		startLine, startCol, endLine, endCol int
		want                                 string
	}{
		{name: "single line", startLine: 3, startCol: 1, endLine: 3, endCol: 4, want: "abc"},
		{name: "carriage return stripped", startLine: 1, startCol: 7, endLine: 1, endCol: 20, want: "line"},
		{name: "rune columns", startLine: 2, startCol: 1, endLine: 2, endCol: 7, want: "привет"},
		{name: "multi line", startLine: 2, startCol: 8, endLine: 4, endCol: 3, want: "мир\nabcxyz\nla"},
		{name: "end past document", startLine: 4, startCol: 1, endLine: 10, endCol: 1, want: "last"},
		{name: "reversed range", startLine: 3, startCol: 4, endLine: 3, endCol: 1, want: "abc"},
		{name: "empty range", startLine: 3, startCol: 2, endLine: 3, endCol: 2, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, src.Slice(tt.startLine, tt.startCol, tt.endLine, tt.endCol))
		})
	}
}
