package input

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
)

const procDevices = "/proc/bus/input/devices"

// Capability bits from the "B: EV=" line.
const (
	evKeyBit = 1 << 0x01
	evRepBit = 1 << 0x14
)

// FindKeyboards lists /dev/input/eventN nodes whose capabilities look like
// a keyboard.
func FindKeyboards() ([]string, error) {
	f, err := os.Open(procDevices)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseKeyboards(f)
}

// parseKeyboards reads the /proc/bus/input/devices format: blocks separated
// by blank lines, "H: Handlers=" naming the event node and "B: EV=" carrying
// the event type bitmask.
func parseKeyboards(r io.Reader) ([]string, error) {
	var devices []string
	var handler string
	var hasKbd bool
	var ev uint64

	flush := func() {
		if handler != "" && hasKbd && ev&evKeyBit != 0 && ev&evRepBit != 0 {
			devices = append(devices, "/dev/input/"+handler)
		}
		handler, hasKbd, ev = "", false, 0
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "H: Handlers="):
			for _, part := range strings.Fields(strings.TrimPrefix(line, "H: Handlers=")) {
				if part == "kbd" {
					hasKbd = true
				}
				if strings.HasPrefix(part, "event") {
					handler = part
				}
			}
		case strings.HasPrefix(line, "B: EV="):
			v, err := strconv.ParseUint(strings.TrimPrefix(line, "B: EV="), 16, 64)
			if err == nil {
				ev = v
			}
		}
	}
	flush()
	return devices, scanner.Err()
}
