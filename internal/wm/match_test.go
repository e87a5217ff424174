package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func str(s string) *string { return &s }

func TestMatchesApp(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		title   *string
		class   *string
		want    bool
	}{
		{"class prefix ignores case", "class=Alacritty", nil, str("alacritty"), true},
		{"class prefix is exact", "class=Alacritty", nil, str("org.alacritty"), false},
		{"class prefix needs a class", "class=Alacritty", str("Alacritty"), nil, false},
		{"bare falls back to title substring", "Alacritty", str("Terminal — Alacritty"), nil, true},
		{"bare with class mismatch", "Alacritty", str("Other"), str("OtherApp"), false},
		{"bare with class ignores title", "Alacritty", str("Alacritty"), str("kitty"), false},
		{"bare class match", "alacritty", nil, str("Alacritty"), true},
		{"title exact", "title=MyTerm", str("myterm"), nil, true},
		{"title exact rejects substring", "title=MyTerm", str("Other MyTerm!"), nil, false},
		{"title contains", "title_contains=MyTerm", str("Other MyTerm!"), nil, true},
		{"title contains needs a title", "title_contains=MyTerm", nil, str("MyTerm"), false},
		{"pattern is trimmed", "  class=foot  ", nil, str("foot"), true},
		{"empty pattern", "   ", str("anything"), str("anything"), false},
		{"nothing known", "Alacritty", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesApp(tt.pattern, tt.title, tt.class))
		})
	}
}

func TestSelectPreferred(t *testing.T) {
	tests := []struct {
		name       string
		candidates []Candidate
		want       Handle
		ok         bool
	}{
		{"empty", nil, 0, false},
		{
			"current and visible first",
			[]Candidate{{10, false, true}, {11, true, false}, {12, true, true}},
			12, true,
		},
		{
			"current and hidden next",
			[]Candidate{{20, false, true}, {21, true, false}},
			21, true,
		},
		{
			"visible elsewhere next",
			[]Candidate{{30, false, true}, {31, false, false}},
			30, true,
		},
		{
			"first otherwise",
			[]Candidate{{40, false, false}, {41, false, false}},
			40, true,
		},
		{
			"earliest wins within a tier",
			[]Candidate{{50, false, false}, {51, true, true}, {52, true, true}},
			51, true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectPreferred(tt.candidates)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDesktopMessage(t *testing.T) {
	m := DesktopMessage(0x1234, 3, 0x55A)
	assert.Equal(t, uint32(0x55A), m.Type)
	assert.Equal(t, uint32(0x1234), m.Window)
	assert.Equal(t, [5]uint32{3, 1, 0, 0, 0}, m.Data)
}

func TestActivateMessage(t *testing.T) {
	m := ActivateMessage(0x9999, 0x77B)
	assert.Equal(t, uint32(0x77B), m.Type)
	assert.Equal(t, uint32(0x9999), m.Window)
	assert.Equal(t, [5]uint32{1, 0, 0, 0, 0}, m.Data)
}

func TestIconifyMessage(t *testing.T) {
	m := IconifyMessage(0x42, 0x99)
	assert.Equal(t, uint32(0x99), m.Type)
	assert.Equal(t, uint32(0x42), m.Window)
	assert.Equal(t, [5]uint32{3, 0, 0, 0, 0}, m.Data)
}

func TestHaveAll(t *testing.T) {
	supported := []uint32{1, 10, 100, 1000, 42}
	assert.True(t, haveAll(supported, []uint32{10, 42}))
	assert.False(t, haveAll(supported, []uint32{999}))
	assert.True(t, haveAll(supported, nil))
	assert.True(t, haveAll([]string{"_NET_WM_DESKTOP", "_NET_ACTIVE_WINDOW", "_NET_WM_NAME"}, ewmhRequired))
	assert.False(t, haveAll([]string{"_NET_WM_DESKTOP"}, ewmhRequired))
}
