package panels

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/zappabad/papertrade/internal/session"
)

func TestTruncateName_RuneBoundaries(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short ascii", "Alice", 10, "Alice"},
		{"long ascii", "Maximilian the 3rd", 10, "Maximilian"},
		{"multibyte at cut", " Принцесса!", 10, "Принцесса!"},
		{"multibyte past cut", "Ценная бумага", 10, "Ценная бум"},
		{"emoji", "🚀🚀🚀🚀🚀🚀🚀🚀🚀🚀🚀🚀", 10, "🚀🚀🚀🚀🚀🚀🚀🚀🚀🚀"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := truncateName(tc.in, tc.max)
			if got != tc.want {
				t.Fatalf("truncateName(%q, %d) got %q want %q", tc.in, tc.max, got, tc.want)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("truncateName(%q, %d) produced invalid UTF-8: %q", tc.in, tc.max, got)
			}
		})
	}
}

func TestStatsView_MultibyteNameStaysValid(t *testing.T) {
	p := NewStatsPanel()
	p.SetSize(80, 10)
	p.SetPlayers([]session.PlayerView{
		{ID: 1, Name: "Длинное имя игрока", Cash: 10000, Pending: true},
	}, 1)

	out := p.View()
	if !utf8.ValidString(out) {
		t.Fatalf("stats view produced invalid UTF-8")
	}
}

func TestMetricsView_PlainTitleSeparator(t *testing.T) {
	p := NewMetricsPanel()
	p.SetSize(60, 20)
	p.SetPlayer(session.PlayerView{ID: 1, Name: "Player 1"})

	out := p.View()
	if strings.Contains(out, "—") {
		t.Fatalf("metrics view contains an em dash")
	}
	if !strings.Contains(out, "Performance - Player 1") {
		t.Fatalf("metrics title missing:\n%s", out)
	}
}
