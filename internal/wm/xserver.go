package wm

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
)

// xserver is the slice of the X protocol the X11 adapter needs. Window ids
// are plain uint32 so the adapter logic can run against a fake.
type xserver interface {
	Close()

	Atom(name string) (uint32, error)
	Supported() ([]string, error)

	ClientListStacking() ([]uint32, error)
	ClientList() ([]uint32, error)
	Children() ([]uint32, error)

	Title(w uint32) (string, bool)
	Class(w uint32) (string, bool)
	CurrentDesktop() (uint32, error)
	WindowDesktop(w uint32) (uint32, error)
	WMState(w uint32) (uint32, error)
	Viewable(w uint32) (bool, error)

	SendToRoot(m ClientMessage) error
	SetCardinal(w uint32, prop string, v uint32) error
	Map(w uint32) error
	Unmap(w uint32) error
}

// xgbServer implements xserver over one xgbutil connection.
type xgbServer struct {
	X *xgbutil.XUtil
}

func dialX() (xserver, error) {
	X, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("open X display: %w", err)
	}
	return &xgbServer{X: X}, nil
}

func (s *xgbServer) Close() {
	s.X.Conn().Close()
}

func (s *xgbServer) Atom(name string) (uint32, error) {
	atom, err := xprop.Atm(s.X, name)
	return uint32(atom), err
}

func (s *xgbServer) Supported() ([]string, error) {
	return ewmh.SupportedGet(s.X)
}

func windowIDs(wins []xproto.Window, err error) ([]uint32, error) {
	if err != nil {
		return nil, err
	}
	ids := make([]uint32, len(wins))
	for i, w := range wins {
		ids[i] = uint32(w)
	}
	return ids, nil
}

func (s *xgbServer) ClientListStacking() ([]uint32, error) {
	return windowIDs(ewmh.ClientListStackingGet(s.X))
}

func (s *xgbServer) ClientList() ([]uint32, error) {
	return windowIDs(ewmh.ClientListGet(s.X))
}

func (s *xgbServer) Children() ([]uint32, error) {
	reply, err := xproto.QueryTree(s.X.Conn(), s.X.RootWin()).Reply()
	if err != nil {
		return nil, err
	}
	return windowIDs(reply.Children, nil)
}

func (s *xgbServer) Title(w uint32) (string, bool) {
	if name, err := ewmh.WmNameGet(s.X, xproto.Window(w)); err == nil && name != "" {
		return name, true
	}
	if name, err := icccm.WmNameGet(s.X, xproto.Window(w)); err == nil && name != "" {
		return name, true
	}
	return "", false
}

func (s *xgbServer) Class(w uint32) (string, bool) {
	class, err := icccm.WmClassGet(s.X, xproto.Window(w))
	if err != nil || class == nil {
		return "", false
	}
	return class.Class, true
}

func (s *xgbServer) CurrentDesktop() (uint32, error) {
	d, err := ewmh.CurrentDesktopGet(s.X)
	return uint32(d), err
}

func (s *xgbServer) WindowDesktop(w uint32) (uint32, error) {
	d, err := ewmh.WmDesktopGet(s.X, xproto.Window(w))
	return uint32(d), err
}

func (s *xgbServer) WMState(w uint32) (uint32, error) {
	state, err := icccm.WmStateGet(s.X, xproto.Window(w))
	if err != nil {
		return 0, err
	}
	return uint32(state.State), nil
}

func (s *xgbServer) Viewable(w uint32) (bool, error) {
	attrs, err := xproto.GetWindowAttributes(s.X.Conn(), xproto.Window(w)).Reply()
	if err != nil {
		return false, err
	}
	return attrs.MapState == xproto.MapStateViewable, nil
}

func (s *xgbServer) SendToRoot(m ClientMessage) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: xproto.Window(m.Window),
		Type:   xproto.Atom(m.Type),
		Data:   xproto.ClientMessageDataUnionData32New(m.Data[:]),
	}
	mask := uint32(xproto.EventMaskSubstructureNotify | xproto.EventMaskSubstructureRedirect)
	return xproto.SendEventChecked(s.X.Conn(), false, s.X.RootWin(), mask, string(ev.Bytes())).Check()
}

func (s *xgbServer) SetCardinal(w uint32, prop string, v uint32) error {
	return xprop.ChangeProp32(s.X, xproto.Window(w), prop, "CARDINAL", uint(v))
}

func (s *xgbServer) Map(w uint32) error {
	return xproto.MapWindowChecked(s.X.Conn(), xproto.Window(w)).Check()
}

func (s *xgbServer) Unmap(w uint32) error {
	return xproto.UnmapWindowChecked(s.X.Conn(), xproto.Window(w)).Check()
}
