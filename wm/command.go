package wm

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/mattn/go-shellwords"
)

// Command is a launcher entry shown in the menu and optionally bound
// to a key.
type Command struct {
	Name string `koanf:"name"`
	Run  string `koanf:"run"`
	Key  string `koanf:"key"`
}

// Argv splits the command line the way a shell would, honouring quotes
// and environment variables.
func (c Command) Argv() ([]string, error) {
	p := shellwords.NewParser()
	p.ParseEnv = true
	args, err := p.Parse(c.Run)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse command %q: %w", c.Run, err)
	}
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}
	return args, nil
}

// Start launches the command without waiting for it. The child is
// reaped in the background.
func (c Command) Start() (*exec.Cmd, error) {
	args, err := c.Argv()
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	go cmd.Wait()
	return cmd, nil
}

func (wm *WM) launch(c Command) {
	cmd, err := c.Start()
	if err != nil {
		wm.log.Error("couldn't run command", "name", c.Name, "error", err)
		return
	}
	wm.log.Info("launched command", "name", c.Name, "pid", cmd.Process.Pid)
}
