package macos

import (
	"context"
	"testing"

	"github.com/locus/locus/pkg/window"
)

type scriptResult struct {
	out string
	err error
}

// fakeRunner answers osascript calls by script text
type fakeRunner struct {
	results map[string]scriptResult
	calls   []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	src := args[len(args)-1]
	f.calls = append(f.calls, scriptName(src))
	r, ok := f.results[src]
	if !ok {
		return "", &window.ExternalToolError{Tool: name, Message: "execution error"}
	}
	return r.out, r.err
}

func scriptName(src string) string {
	switch src {
	case enhancedScript:
		return "enhanced"
	case browserScript:
		return "browser"
	case generalScript:
		return "general"
	case basicScript:
		return "basic"
	}
	return "unknown"
}

func nativeReturns(name string, err error) NativeQuery {
	return func() (string, error) { return name, err }
}

var toolFailure = &window.ExternalToolError{Tool: "osascript", Message: "not authorized"}

func TestDetectorFallbackOrder(t *testing.T) {
	tests := []struct {
		name      string
		native    NativeQuery
		results   map[string]scriptResult
		want      window.WindowInfo
		wantCalls []string
	}{
		{
			name:      "native wins",
			native:    nativeReturns("Finder", nil),
			want:      window.WindowInfo{Class: "Finder", Title: "Finder"},
			wantCalls: nil,
		},
		{
			name:   "native placeholder falls through to enhanced",
			native: nativeReturns(unknownApplication, nil),
			results: map[string]scriptResult{
				enhancedScript: {out: "Chrome|Example Page - Google Chrome"},
			},
			want:      window.WindowInfo{Class: "Chrome", Title: "Example Page"},
			wantCalls: []string{"enhanced"},
		},
		{
			name:   "enhanced Active is rejected, browser tab accepted",
			native: nativeReturns("", window.ErrNoActiveWindow),
			results: map[string]scriptResult{
				enhancedScript: {out: "Arc|Active"},
				browserScript:  {out: "Arc|Release notes"},
			},
			want:      window.WindowInfo{Class: "Arc", Title: "Release notes"},
			wantCalls: []string{"enhanced", "browser"},
		},
		{
			name:   "malformed enhanced output falls through",
			native: nativeReturns("", window.ErrNoActiveWindow),
			results: map[string]scriptResult{
				enhancedScript: {out: "Safari"},
				browserScript:  {out: "Safari|Apple — Start Page"},
			},
			want:      window.WindowInfo{Class: "Safari", Title: "Apple"},
			wantCalls: []string{"enhanced", "browser"},
		},
		{
			name:   "unknown browser falls to general",
			native: nativeReturns("", window.ErrNoActiveWindow),
			results: map[string]scriptResult{
				enhancedScript: {out: "Slack|No Window"},
				browserScript:  {out: "Unknown|No Browser Tab"},
				generalScript:  {out: "Slack|general - Acme"},
			},
			want:      window.WindowInfo{Class: "Slack", Title: "general - Acme"},
			wantCalls: []string{"enhanced", "browser", "general"},
		},
		{
			name:   "general Active is never rejected",
			native: nativeReturns("", window.ErrNoActiveWindow),
			results: map[string]scriptResult{
				enhancedScript: {err: toolFailure},
				browserScript:  {err: toolFailure},
				generalScript:  {out: "Preview|Active"},
			},
			want:      window.WindowInfo{Class: "Preview", Title: "Active"},
			wantCalls: []string{"enhanced", "browser", "general"},
		},
		{
			name:   "general suffix stripping",
			native: nativeReturns("", window.ErrNoActiveWindow),
			results: map[string]scriptResult{
				enhancedScript: {out: "Chrome|Error|timeout"},
				browserScript:  {out: "Chrome|"},
				generalScript:  {out: "Chrome|Example Page - Google Chrome"},
			},
			want:      window.WindowInfo{Class: "Chrome", Title: "Example Page"},
			wantCalls: []string{"enhanced", "browser", "general"},
		},
		{
			name:   "basic app name is the last resort",
			native: nativeReturns("", window.ErrNoActiveWindow),
			results: map[string]scriptResult{
				generalScript: {out: "garbage"},
				basicScript:   {out: "loginwindow\n"},
			},
			want:      window.WindowInfo{Class: "loginwindow", Title: "loginwindow - Active"},
			wantCalls: []string{"enhanced", "browser", "general", "basic"},
		},
		{
			name:      "total failure yields none",
			native:    nativeReturns("", window.ErrNoActiveWindow),
			results:   map[string]scriptResult{basicScript: {out: ""}},
			want:      window.None(),
			wantCalls: []string{"enhanced", "browser", "general", "basic"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{results: tt.results}
			chain := New(tt.native, runner, "osascript").Chain()

			got := chain.Probe(context.Background())
			if got != tt.want {
				t.Errorf("Probe() = %+v, want %+v", got, tt.want)
			}
			if len(runner.calls) != len(tt.wantCalls) {
				t.Fatalf("calls = %v, want %v", runner.calls, tt.wantCalls)
			}
			for i := range tt.wantCalls {
				if runner.calls[i] != tt.wantCalls[i] {
					t.Errorf("call %d = %s, want %s", i, runner.calls[i], tt.wantCalls[i])
				}
			}
		})
	}
}

func TestAcceptPredicates(t *testing.T) {
	tests := []struct {
		title                            string
		native, enhanced, browserTabWant bool
	}{
		{"Inbox", true, true, true},
		{"", false, false, false},
		{unknownApplication, false, true, true},
		{"No Window", true, false, false},
		{"Error|boom", true, false, false},
		{"Active", true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			info := window.WindowInfo{Class: "App", Title: tt.title}
			if got := acceptNative(info); got != tt.native {
				t.Errorf("acceptNative(%q) = %v, want %v", tt.title, got, tt.native)
			}
			if got := acceptEnhanced(info); got != tt.enhanced {
				t.Errorf("acceptEnhanced(%q) = %v, want %v", tt.title, got, tt.enhanced)
			}
			if got := acceptBrowserTab(info); got != tt.browserTabWant {
				t.Errorf("acceptBrowserTab(%q) = %v, want %v", tt.title, got, tt.browserTabWant)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want window.WindowInfo
	}{
		{window.WindowInfo{Class: "Chrome", Title: "Example Page - Google Chrome"}, window.WindowInfo{Class: "Chrome", Title: "Example Page"}},
		{window.WindowInfo{Class: "Firefox", Title: "Docs - Mozilla Firefox"}, window.WindowInfo{Class: "Firefox", Title: "Docs"}},
		{window.WindowInfo{Class: "Brave", Title: "News - Brave"}, window.WindowInfo{Class: "Brave", Title: "News"}},
		{window.WindowInfo{Class: "Safari", Title: "Apple — Start Page"}, window.WindowInfo{Class: "Safari", Title: "Apple"}},
		{window.WindowInfo{Class: "Edge", Title: "Bing - Microsoft Edge"}, window.WindowInfo{Class: "Edge", Title: "Bing"}},
		{window.WindowInfo{Class: "Terminal", Title: "vim - Google Chrome"}, window.WindowInfo{Class: "Terminal", Title: "vim - Google Chrome"}},
		{window.WindowInfo{Class: "Chrome", Title: " - Google Chrome"}, window.WindowInfo{Class: "Chrome", Title: " - Google Chrome"}},
	}

	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Errorf("normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestStrategyOrder(t *testing.T) {
	d := New(nativeReturns("", nil), &fakeRunner{}, "")
	want := []string{"native", "enhanced-script", "browser-tab", "general-script", "basic-app-name"}

	strategies := d.Strategies()
	if len(strategies) != len(want) {
		t.Fatalf("len(Strategies()) = %d, want %d", len(strategies), len(want))
	}
	for i, s := range strategies {
		if s.Name != want[i] {
			t.Errorf("strategy %d = %s, want %s", i, s.Name, want[i])
		}
	}
	if d.Chain().DisplayServer() != DisplayServer {
		t.Errorf("DisplayServer() = %s", d.Chain().DisplayServer())
	}
}

func TestNativeQueryFollowsFocus(t *testing.T) {
	names := []string{"Finder", "Finder", "Terminal", "Google Chrome"}
	calls := 0
	native := func() (string, error) {
		name := names[calls]
		calls++
		return name, nil
	}
	chain := New(native, &fakeRunner{}, "osascript").Chain()

	for i, name := range names {
		got := chain.Probe(context.Background())
		if got.Title != name {
			t.Errorf("probe %d = %+v, want title %q", i, got, name)
		}
	}
	if calls != len(names) {
		t.Errorf("native query called %d times, want %d", calls, len(names))
	}
}
