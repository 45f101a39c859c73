package window

import (
	"errors"
	"testing"
)

func TestParseTaggedPair(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		want      WindowInfo
		wantErr   bool
		toolError bool
	}{
		{
			name:   "simple pair",
			output: "Chrome|Example Page",
			want:   WindowInfo{Class: "Chrome", Title: "Example Page"},
		},
		{
			name:   "trailing newline from osascript",
			output: "Finder|Downloads\n",
			want:   WindowInfo{Class: "Finder", Title: "Downloads"},
		},
		{
			name:   "title keeps later separators",
			output: "Terminal|vim a|b",
			want:   WindowInfo{Class: "Terminal", Title: "vim a|b"},
		},
		{
			name:   "empty title",
			output: "Slack|",
			want:   WindowInfo{Class: "Slack", Title: ""},
		},
		{
			name:      "no separator",
			output:    "Finder",
			wantErr:   true,
			toolError: true,
		},
		{
			name:    "empty output",
			output:  "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			output:  "  \n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTaggedPair(tt.output)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTaggedPair(%q) = %+v, want error", tt.output, got)
				}
				if tt.toolError && !IsExternalToolError(err) {
					t.Errorf("error %v is not an ExternalToolError", err)
				}
				if !tt.toolError && !errors.Is(err, ErrNoActiveWindow) {
					t.Errorf("error %v, want ErrNoActiveWindow", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTaggedPair(%q) error: %v", tt.output, err)
			}
			if got != tt.want {
				t.Errorf("ParseTaggedPair(%q) = %+v, want %+v", tt.output, got, tt.want)
			}
		})
	}
}
