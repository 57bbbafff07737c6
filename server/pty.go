package server

import (
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/creack/pty"
)

// EnvRule is one entry of the "+KEY=VAL add/replace, -KEY remove" rule
// list the pty collaborator contract takes (spec §6).
type EnvRule string

// ApplyEnvRules applies the rule set to a base environment (typically
// os.Environ()), returning the resulting environment slice.
func ApplyEnvRules(base []string, rules []EnvRule) []string {
	out := append([]string(nil), base...)
	for _, rule := range rules {
		s := string(rule)
		if strings.HasPrefix(s, "-") {
			key := s[1:]
			out = removeEnvKey(out, key)
			continue
		}
		s = strings.TrimPrefix(s, "+")
		key, _, ok := strings.Cut(s, "=")
		if !ok {
			continue
		}
		out = removeEnvKey(out, key)
		out = append(out, s)
	}
	return out
}

func removeEnvKey(env []string, key string) []string {
	prefix := key + "="
	out := env[:0]
	for _, e := range env {
		if !strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

// Collaborator is the pty contract spec §6 describes: the core forks a
// child into a pty, resizes it as the terminal resizes, and toggles
// raw mode; it never touches the tty layer directly.
type Collaborator interface {
	Start(argv []string, env []EnvRule, dir string, width, height int) (Pty, error)
}

// Pty is a running child attached to a pseudo-terminal.
type Pty interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Resize(width, height int) error
	Close() error
	Wait() error
	Pid() int
}

// ExecCollaborator is the default Collaborator, grounded on
// creack/pty's Start/StartWithSize helpers.
type ExecCollaborator struct{}

func (ExecCollaborator) Start(argv []string, env []EnvRule, dir string, width, height int) (Pty, error) {
	if len(argv) == 0 {
		argv = []string{"/bin/sh"}
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = ApplyEnvRules(os.Environ(), env)
	cmd.Dir = dir

	f, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(height), Cols: uint16(width)})
	if err != nil {
		return nil, err
	}
	return &execPty{cmd: cmd, f: f}, nil
}

type execPty struct {
	cmd *exec.Cmd
	f   *os.File
	mu  sync.Mutex
}

func (p *execPty) Read(b []byte) (int, error)  { return p.f.Read(b) }
func (p *execPty) Write(b []byte) (int, error) { return p.f.Write(b) }
func (p *execPty) Close() error                { return p.f.Close() }
func (p *execPty) Wait() error                 { return p.cmd.Wait() }
func (p *execPty) Pid() int {
	if p.cmd.Process == nil {
		return -1
	}
	return p.cmd.Process.Pid
}

func (p *execPty) Resize(width, height int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return pty.Setsize(p.f, &pty.Winsize{Rows: uint16(height), Cols: uint16(width)})
}
