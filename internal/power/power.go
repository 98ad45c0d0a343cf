// Package power provides the deep-sleep and restart primitives. Both end the
// current run.
package power

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
)

// Default commands. A Raspberry Pi has no suspend state: halting leaves the
// SoC in its lowest power mode until the wake pin is pulled low.
const (
	DefaultSleepCommand   = "systemctl poweroff"
	DefaultRestartCommand = "systemctl reboot"
)

// CommandTimeout bounds how long a power command may run.
const CommandTimeout = 10 * time.Second

// Controller fulfils sleep and restart requests.
type Controller interface {
	Sleep() error
	Restart() error
}

// CommandController runs a system command for each request.
type CommandController struct {
	sleep   []string
	restart []string

	// run executes argv. Replaced in tests.
	run func(ctx context.Context, argv []string) error
}

// NewCommandController creates a controller from shell-quoted command
// lines. Empty strings select the defaults.
func NewCommandController(sleepCmd, restartCmd string) (*CommandController, error) {
	sleep, err := parseCommand(sleepCmd, DefaultSleepCommand)
	if err != nil {
		return nil, fmt.Errorf("power: sleep command: %w", err)
	}
	restart, err := parseCommand(restartCmd, DefaultRestartCommand)
	if err != nil {
		return nil, fmt.Errorf("power: restart command: %w", err)
	}
	return &CommandController{sleep: sleep, restart: restart, run: runCommand}, nil
}

func parseCommand(line, def string) ([]string, error) {
	if strings.TrimSpace(line) == "" {
		line = def
	}
	return shlex.Split(line)
}

func runCommand(ctx context.Context, argv []string) error {
	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// Sleep puts the device into deep sleep.
func (c *CommandController) Sleep() error {
	log.Printf("power: entering deep sleep")
	return c.exec("sleep", c.sleep)
}

// Restart reboots the device.
func (c *CommandController) Restart() error {
	log.Printf("power: restarting")
	return c.exec("restart", c.restart)
}

func (c *CommandController) exec(what string, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("power: %s: %w", what, ErrNoCommand)
	}
	ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
	defer cancel()
	if err := c.run(ctx, argv); err != nil {
		return fmt.Errorf("power: %s: %w", what, err)
	}
	return nil
}

// ErrNoCommand is returned when a request has no command configured.
var ErrNoCommand = errors.New("no command configured")
