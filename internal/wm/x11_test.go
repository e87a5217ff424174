package wm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summon/pkg/config"
	"summon/pkg/logger"
)

var errNoProperty = errors.New("no such property")

type fakeX struct {
	supported []string
	atoms     map[string]uint32

	stacking []uint32
	clients  []uint32
	children []uint32

	titles   map[uint32]string
	classes  map[uint32]string
	current  *uint32
	desktops map[uint32]uint32
	states   map[uint32]uint32
	viewable map[uint32]bool

	sent      []ClientMessage
	cardinals map[uint32]uint32
	mapped    []uint32
	unmapped  []uint32

	dials  int
	closes int
}

func newFakeX() *fakeX {
	return &fakeX{
		supported: []string{"_NET_SUPPORTED", "_NET_WM_DESKTOP", "_NET_ACTIVE_WINDOW"},
		atoms:     map[string]uint32{"_NET_WM_DESKTOP": 301, "_NET_ACTIVE_WINDOW": 302, "WM_CHANGE_STATE": 303},
		titles:    map[uint32]string{},
		classes:   map[uint32]string{},
		desktops:  map[uint32]uint32{},
		states:    map[uint32]uint32{},
		viewable:  map[uint32]bool{},
		cardinals: map[uint32]uint32{},
	}
}

func (f *fakeX) Close() { f.closes++ }

func (f *fakeX) Atom(name string) (uint32, error) {
	if a, ok := f.atoms[name]; ok {
		return a, nil
	}
	return 0, errors.New("bad atom")
}

func (f *fakeX) Supported() ([]string, error) {
	if f.supported == nil {
		return nil, errNoProperty
	}
	return f.supported, nil
}

func list(ws []uint32) ([]uint32, error) {
	if ws == nil {
		return nil, errNoProperty
	}
	return ws, nil
}

func (f *fakeX) ClientListStacking() ([]uint32, error) { return list(f.stacking) }
func (f *fakeX) ClientList() ([]uint32, error)         { return list(f.clients) }
func (f *fakeX) Children() ([]uint32, error)           { return list(f.children) }

func (f *fakeX) Title(w uint32) (string, bool) {
	t, ok := f.titles[w]
	return t, ok
}

func (f *fakeX) Class(w uint32) (string, bool) {
	c, ok := f.classes[w]
	return c, ok
}

func (f *fakeX) CurrentDesktop() (uint32, error) {
	if f.current == nil {
		return 0, errNoProperty
	}
	return *f.current, nil
}

func (f *fakeX) WindowDesktop(w uint32) (uint32, error) {
	d, ok := f.desktops[w]
	if !ok {
		return 0, errNoProperty
	}
	return d, nil
}

func (f *fakeX) WMState(w uint32) (uint32, error) {
	s, ok := f.states[w]
	if !ok {
		return 0, errNoProperty
	}
	return s, nil
}

func (f *fakeX) Viewable(w uint32) (bool, error) {
	v, ok := f.viewable[w]
	if !ok {
		return false, errors.New("BadWindow")
	}
	return v, nil
}

func (f *fakeX) SendToRoot(m ClientMessage) error {
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeX) SetCardinal(w uint32, prop string, v uint32) error {
	f.cardinals[w] = v
	return nil
}

func (f *fakeX) Map(w uint32) error {
	f.mapped = append(f.mapped, w)
	return nil
}

func (f *fakeX) Unmap(w uint32) error {
	f.unmapped = append(f.unmapped, w)
	return nil
}

func desktop(d uint32) *uint32 { return &d }

func newTestX11(cfg *config.Config, srv *fakeX) *X11 {
	var launches []recordedLaunch
	x := NewX11(cfg, logger.Nop(), testLauncher(&launches))
	x.dial = func() (xserver, error) {
		srv.dials++
		return srv, nil
	}
	return x
}

// terminals puts three Alacritty windows on the server: 0x10 on another
// desktop, 0x11 minimized on the current one and 0x12 visible on the
// current one.
func terminals() *fakeX {
	srv := newFakeX()
	srv.current = desktop(1)
	srv.stacking = []uint32{0x10, 0x11, 0x12, 0x20}
	for _, w := range []uint32{0x10, 0x11, 0x12} {
		srv.classes[w] = "Alacritty"
		srv.titles[w] = "term"
		srv.viewable[w] = true
	}
	srv.classes[0x20] = "firefox"
	srv.viewable[0x20] = true

	srv.desktops[0x10] = 0
	srv.desktops[0x11] = 1
	srv.desktops[0x12] = 1
	srv.desktops[0x20] = 1
	srv.states[0x11] = wmStateIconic
	srv.viewable[0x11] = false
	return srv
}

func TestX11FindWindowPrefersCurrentVisible(t *testing.T) {
	srv := terminals()
	x := newTestX11(testConfig(), srv)

	h, ok := x.FindWindow("class=Alacritty")
	require.True(t, ok)
	assert.Equal(t, Handle(0x12), h)
	assert.Equal(t, srv.dials, srv.closes)
}

func TestX11FindWindowFallsBackToClientList(t *testing.T) {
	srv := terminals()
	srv.clients = srv.stacking
	srv.stacking = []uint32{}

	x := newTestX11(testConfig(), srv)
	h, ok := x.FindWindow("firefox")
	require.True(t, ok)
	assert.Equal(t, Handle(0x20), h)
}

func TestX11FindWindowFallsBackToQueryTree(t *testing.T) {
	srv := newFakeX()
	srv.children = []uint32{0x30, 0x31}
	srv.titles[0x31] = "Scratch Notes"
	srv.viewable[0x31] = true

	x := newTestX11(testConfig(), srv)
	h, ok := x.FindWindow("notes")
	require.True(t, ok)
	assert.Equal(t, Handle(0x31), h)
}

func TestX11FindWindowNoMatch(t *testing.T) {
	x := newTestX11(testConfig(), terminals())
	_, ok := x.FindWindow("class=kitty")
	assert.False(t, ok)
}

func TestX11Workspace(t *testing.T) {
	srv := terminals()
	srv.desktops[0x40] = desktopAll
	x := newTestX11(testConfig(), srv)

	assert.False(t, x.IsOnCurrentWorkspace(0x10))
	assert.True(t, x.IsOnCurrentWorkspace(0x12))
	assert.True(t, x.IsOnCurrentWorkspace(0x40))

	// Missing values on both sides read as desktop 0.
	srv.current = nil
	assert.True(t, x.IsOnCurrentWorkspace(0x99))
	assert.True(t, x.IsOnCurrentWorkspace(0x10))
}

func TestX11Visibility(t *testing.T) {
	srv := terminals()
	x := newTestX11(testConfig(), srv)

	assert.True(t, x.IsVisible(0x12))
	assert.False(t, x.IsVisible(0x11))

	srv.states[0x12] = wmStateIconic
	assert.False(t, x.IsVisible(0x12))

	// A window that no longer exists.
	assert.False(t, x.IsVisible(0xdead))
}

func TestX11ActionsWithEWMH(t *testing.T) {
	srv := terminals()
	x := newTestX11(testConfig(), srv)

	x.MoveToCurrentWorkspace(0x10)
	x.Show(0x10)
	x.Hide(0x12)

	require.Len(t, srv.sent, 3)
	assert.Equal(t, DesktopMessage(0x10, 1, 301), srv.sent[0])
	assert.Equal(t, ActivateMessage(0x10, 302), srv.sent[1])
	assert.Equal(t, IconifyMessage(0x12, 303), srv.sent[2])
	assert.Empty(t, srv.cardinals)
	assert.Empty(t, srv.mapped)
	assert.Empty(t, srv.unmapped)
	assert.Equal(t, 3, srv.dials)
	assert.Equal(t, 3, srv.closes)
}

func TestX11ActionsWithoutEWMH(t *testing.T) {
	srv := terminals()
	srv.supported = []string{"_NET_WM_DESKTOP"}
	x := newTestX11(testConfig(), srv)

	x.MoveToCurrentWorkspace(0x10)
	x.Show(0x10)
	x.Hide(0x12)

	assert.Empty(t, srv.sent)
	assert.Equal(t, map[uint32]uint32{0x10: 1}, srv.cardinals)
	assert.Equal(t, []uint32{0x10}, srv.mapped)
	assert.Equal(t, []uint32{0x12}, srv.unmapped)
}

func TestX11HideNone(t *testing.T) {
	srv := terminals()
	cfg := testConfig()
	cfg.HideMethod = config.HideNone
	x := newTestX11(cfg, srv)

	x.Hide(0x12)
	assert.Zero(t, srv.dials)
	assert.Empty(t, srv.sent)
}

func TestX11NoDisplay(t *testing.T) {
	var launches []recordedLaunch
	x := NewX11(testConfig(), logger.Nop(), testLauncher(&launches))
	x.dial = func() (xserver, error) { return nil, errors.New("cannot open display") }

	_, ok := x.FindWindow("class=Alacritty")
	assert.False(t, ok)
	assert.False(t, x.IsOnCurrentWorkspace(1))
	assert.False(t, x.IsVisible(1))
	x.MoveToCurrentWorkspace(1)
	x.Show(1)
	x.Hide(1)

	x.LaunchApp("alacritty")
	require.Len(t, launches, 1)
	assert.Equal(t, []string{"alacritty"}, launches[0].args)
}
