package cli

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/doeshing/exa-go/internal/domain"
)

// parsedCommand runs flag parsing only, so the helpers that depend on
// pflag's Changed tracking can be exercised.
func parsedCommand(t *testing.T, flags *Flags, args ...string) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "exa", Run: func(*cobra.Command, []string) {}}
	registerGlobalFlags(root, flags, domain.DefaultCacheTTLMinutes)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return root
}

func TestMaxAgeHoursUnsetIsNil(t *testing.T) {
	flags := &Flags{}
	cmd := parsedCommand(t, flags)
	if maxAgeHours(cmd, flags) != nil {
		t.Fatal("max-age should be nil when the flag is absent")
	}
}

func TestMaxAgeHoursZeroAndNegativeSurvive(t *testing.T) {
	for _, arg := range []string{"0", "-1", "24"} {
		flags := &Flags{}
		cmd := parsedCommand(t, flags, "--max-age="+arg)
		got := maxAgeHours(cmd, flags)
		if got == nil {
			t.Fatalf("--max-age=%s produced nil", arg)
		}
	}

	flags := &Flags{}
	cmd := parsedCommand(t, flags, "--max-age=0")
	if v := maxAgeHours(cmd, flags); v == nil || *v != 0 {
		t.Fatalf("--max-age=0 = %v, want pointer to 0", v)
	}
}

func TestBuildContentsHighlightsBeatsContent(t *testing.T) {
	flags := &Flags{}
	cmd := parsedCommand(t, flags, "--content", "--highlights")

	contents := buildContents(cmd, flags)
	if contents == nil || contents.Highlights == nil {
		t.Fatalf("contents = %+v, want highlights config", contents)
	}
	if contents.Highlights.MaxCharacters != 2000 {
		t.Fatalf("bare --highlights = %d chars, want 2000", contents.Highlights.MaxCharacters)
	}
	if contents.Text != nil {
		t.Fatal("text must not be requested alongside highlights")
	}
}

func TestBuildContentsTextOnly(t *testing.T) {
	flags := &Flags{}
	cmd := parsedCommand(t, flags, "--content")

	contents := buildContents(cmd, flags)
	if contents == nil || contents.Text == nil || !*contents.Text {
		t.Fatalf("contents = %+v, want text requested", contents)
	}
}

func TestBuildContentsAbsent(t *testing.T) {
	flags := &Flags{}
	cmd := parsedCommand(t, flags)
	if contents := buildContents(cmd, flags); contents != nil {
		t.Fatalf("contents = %+v, want nil without content flags", contents)
	}
}

func TestHighlightsFieldDistinguishesUnset(t *testing.T) {
	flags := &Flags{}
	cmd := parsedCommand(t, flags)
	if got := highlightsField(cmd, flags); got != "" {
		t.Fatalf("unset highlights field = %q, want empty", got)
	}

	flags = &Flags{}
	cmd = parsedCommand(t, flags, "--highlights=500")
	if got := highlightsField(cmd, flags); got != "500" {
		t.Fatalf("highlights field = %q, want 500", got)
	}
}
