package wm

import (
	"errors"
	"os/exec"
	"strings"

	"summon/pkg/config"
	"summon/pkg/logger"
)

type fakeResponse struct {
	out string
	err error
}

// fakeRunner answers commands from a table keyed by the joined command line.
// Unknown commands fail as if the binary were missing.
type fakeRunner struct {
	responses map[string]fakeResponse
	calls     []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: make(map[string]fakeResponse)}
}

func (f *fakeRunner) on(cmd, out string) *fakeRunner {
	f.responses[cmd] = fakeResponse{out: out}
	return f
}

func (f *fakeRunner) fail(cmd string) *fakeRunner {
	f.responses[cmd] = fakeResponse{err: errors.New("exit status 1")}
	return f
}

func (f *fakeRunner) Run(name string, args ...string) ([]byte, error) {
	cmd := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, cmd)
	r, ok := f.responses[cmd]
	if !ok {
		return nil, errors.New("executable file not found: " + name)
	}
	return []byte(r.out), r.err
}

func (f *fakeRunner) count(cmd string) int {
	n := 0
	for _, c := range f.calls {
		if c == cmd {
			n++
		}
	}
	return n
}

// controlCalls drops the read-only queries.
func (f *fakeRunner) controlCalls() []string {
	var out []string
	for _, c := range f.calls {
		if strings.Contains(c, " -t ") || strings.HasPrefix(c, "hyprctl -j") {
			continue
		}
		out = append(out, c)
	}
	return out
}

type fakeShell struct {
	scripts []string
	respond func(script string) (string, error)
}

func (f *fakeShell) Eval(script string) (string, error) {
	f.scripts = append(f.scripts, script)
	if f.respond == nil {
		return "", errors.New("no shell")
	}
	return f.respond(script)
}

type recordedLaunch struct {
	args []string
}

func testLauncher(launches *[]recordedLaunch) *Launcher {
	return &Launcher{
		log: logger.Nop(),
		start: func(cmd *exec.Cmd) error {
			*launches = append(*launches, recordedLaunch{args: cmd.Args})
			return nil
		},
	}
}

func testConfig() *config.Config {
	return config.DefaultConfig()
}
