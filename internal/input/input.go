//go:build linux

package input

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sys/unix"

	"summon/pkg/core"
)

const (
	devInputDir = "/dev/input"
	evKey       = 0x01

	keyRelease = 0
	keyPress   = 1
	keyRepeat  = 2

	// udev needs a moment to apply group permissions on new nodes
	hotplugSettle = 300 * time.Millisecond
)

// Event is a single key transition.
type Event struct {
	Key     Key
	Pressed bool
	Time    time.Time
	Device  string
}

// rawEvent matches struct input_event on 64-bit Linux.
type rawEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Listener reads key events from evdev keyboards and funnels them into one
// channel.
type Listener struct {
	log        core.Logger
	configured []string
	events     chan Event

	mu     sync.Mutex
	open   map[string]struct{}
	closed bool
	wg     sync.WaitGroup
}

var errListenerClosed = errors.New("listener closed")

// NewListener creates a listener. With an empty device list keyboards are
// discovered from /proc and hot-plugged devices are picked up.
func NewListener(log core.Logger, devices []string) *Listener {
	return &Listener{
		log:        log,
		configured: devices,
		events:     make(chan Event, 64),
		open:       make(map[string]struct{}),
	}
}

// Start opens every keyboard and returns the event channel. The channel is
// closed once ctx is done and all readers have exited.
func (l *Listener) Start(ctx context.Context) (<-chan Event, error) {
	devices := l.configured
	if len(devices) == 0 {
		found, err := FindKeyboards()
		if err != nil {
			l.log.Warn("Keyboard discovery failed", "error", err.Error())
		}
		devices = found
	}

	opened := 0
	for _, dev := range devices {
		if err := l.openDevice(ctx, dev); err != nil {
			l.log.Warn("Cannot read input device", "device", dev, "error", err.Error())
			continue
		}
		opened++
	}

	watching := false
	if len(l.configured) == 0 {
		if err := l.watchHotplug(ctx); err != nil {
			l.log.Warn("Input hotplug watch unavailable", "error", err.Error())
		} else {
			watching = true
		}
	}

	if opened == 0 && !watching {
		return nil, fmt.Errorf("no readable keyboard devices (add the user to the 'input' group)")
	}
	if opened == 0 {
		l.log.Warn("No keyboard opened yet, waiting for hotplug")
	}

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()
		l.wg.Wait()
		close(l.events)
	}()

	return l.events, nil
}

func (l *Listener) openDevice(ctx context.Context, path string) error {
	l.mu.Lock()
	_, dup := l.open[path]
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return errListenerClosed
	}
	if dup {
		return nil
	}

	if err := unix.Access(path, unix.R_OK); err != nil {
		return fmt.Errorf("access %s: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	// Registration and wg.Add happen under mu so they cannot race the
	// shutdown Wait.
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		f.Close()
		return errListenerClosed
	}
	if _, ok := l.open[path]; ok {
		l.mu.Unlock()
		f.Close()
		return nil
	}
	l.open[path] = struct{}{}
	l.wg.Add(1)
	l.mu.Unlock()

	l.log.Info("Listening on keyboard", "device", path)

	go func() {
		defer l.wg.Done()
		defer func() {
			l.mu.Lock()
			delete(l.open, path)
			l.mu.Unlock()
		}()

		stop := context.AfterFunc(ctx, func() { f.Close() })
		defer stop()
		defer f.Close()

		err := l.readLoop(ctx, f, path)
		if err != nil && ctx.Err() == nil {
			l.log.Warn("Keyboard reader stopped", "device", path, "error", err.Error())
		}
	}()
	return nil
}

func (l *Listener) readLoop(ctx context.Context, r io.Reader, device string) error {
	for {
		var raw rawEvent
		if err := binary.Read(r, binary.NativeEndian, &raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		ev, ok := decode(raw, time.Now())
		if !ok {
			continue
		}
		ev.Device = device
		select {
		case l.events <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

// decode turns a raw record into a key transition. Autorepeat is reported as
// a press so a held key never looks like press-release-press.
func decode(raw rawEvent, now time.Time) (Event, bool) {
	if raw.Type != evKey {
		return Event{}, false
	}
	switch raw.Value {
	case keyPress, keyRepeat:
		return Event{Key: Key(raw.Code), Pressed: true, Time: now}, true
	case keyRelease:
		return Event{Key: Key(raw.Code), Pressed: false, Time: now}, true
	}
	return Event{}, false
}

func (l *Listener) watchHotplug(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(devInputDir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", devInputDir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Create == 0 || !strings.HasPrefix(filepath.Base(event.Name), "event") {
					continue
				}
				time.AfterFunc(hotplugSettle, func() { l.hotplug(ctx, event.Name) })
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.log.Warn("Input watcher error", "error", err.Error())
			}
		}
	}()
	return nil
}

func (l *Listener) hotplug(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	keyboards, err := FindKeyboards()
	if err != nil {
		return
	}
	for _, kb := range keyboards {
		if kb != path {
			continue
		}
		if err := l.openDevice(ctx, path); err != nil {
			l.log.Warn("Cannot read hot-plugged keyboard", "device", path, "error", err.Error())
		}
		return
	}
}
