package x11

import (
	"encoding/binary"
	"strings"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/locus/locus/pkg/window"
)

var atomNames = []string{
	"_NET_ACTIVE_WINDOW",
	"_NET_WM_NAME",
	"WM_NAME",
	"WM_CLASS",
	"UTF8_STRING",
}

// conn is a lazily opened X connection. A failed request drops the
// connection so the next probe reconnects.
type conn struct {
	mu    sync.Mutex
	xc    *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

func (c *conn) open() error {
	if c.xc != nil {
		return nil
	}

	xc, err := xgb.NewConn()
	if err != nil {
		return &window.ExternalToolError{Tool: "xgb", Message: "cannot connect to X server", Err: err}
	}

	atoms := make(map[string]xproto.Atom, len(atomNames))
	for _, name := range atomNames {
		reply, err := xproto.InternAtom(xc, false, uint16(len(name)), name).Reply()
		if err != nil {
			xc.Close()
			return &window.ExternalToolError{Tool: "xgb", Message: "intern atom " + name, Err: err}
		}
		atoms[name] = reply.Atom
	}

	c.xc = xc
	c.root = xproto.Setup(xc).DefaultScreen(xc).Root
	c.atoms = atoms
	return nil
}

func (c *conn) available() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open() == nil
}

// focused returns WM_CLASS class and title of the active top-level window
func (c *conn) focused() (window.WindowInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.open(); err != nil {
		return window.WindowInfo{}, err
	}

	win, err := c.activeWindow()
	if err != nil {
		c.reset()
		return window.WindowInfo{}, err
	}

	return window.WindowInfo{
		Class: c.windowClass(win),
		Title: c.windowName(win),
	}, nil
}

func (c *conn) activeWindow() (xproto.Window, error) {
	data, err := c.property(c.root, c.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if err != nil {
		return 0, &window.ExternalToolError{Tool: "xgb", Message: "read _NET_ACTIVE_WINDOW", Err: err}
	}
	if len(data) >= 4 {
		if win := xproto.Window(binary.LittleEndian.Uint32(data)); win != 0 {
			return win, nil
		}
	}

	focus, err := xproto.GetInputFocus(c.xc).Reply()
	if err != nil {
		return 0, &window.ExternalToolError{Tool: "xgb", Message: "get input focus", Err: err}
	}
	if focus.Focus == 0 || focus.Focus == c.root {
		return 0, window.ErrNoActiveWindow
	}
	return c.topLevel(focus.Focus), nil
}

func (c *conn) topLevel(win xproto.Window) xproto.Window {
	for {
		reply, err := xproto.QueryTree(c.xc, win).Reply()
		if err != nil || reply.Parent == c.root || reply.Parent == 0 {
			return win
		}
		win = reply.Parent
	}
}

func (c *conn) property(win xproto.Window, atom, atomType xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(c.xc, false, win, atom, atomType, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

func (c *conn) windowName(win xproto.Window) string {
	if data, err := c.property(win, c.atoms["_NET_WM_NAME"], c.atoms["UTF8_STRING"], 256); err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}
	if data, err := c.property(win, c.atoms["WM_NAME"], xproto.AtomString, 256); err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}
	return ""
}

func (c *conn) windowClass(win xproto.Window) string {
	data, err := c.property(win, c.atoms["WM_CLASS"], xproto.AtomString, 256)
	if err != nil || len(data) == 0 {
		return ""
	}
	return classFromWMClass(data)
}

func (c *conn) reset() {
	if c.xc != nil {
		c.xc.Close()
		c.xc = nil
	}
}

// Close drops the connection
func (c *conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
	return nil
}

// classFromWMClass returns the class half of a raw "instance\0class\0" WM_CLASS value
func classFromWMClass(data []byte) string {
	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	if len(parts) >= 2 && parts[1] != "" {
		return parts[1]
	}
	return parts[0]
}
