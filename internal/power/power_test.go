package power

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recording(c *CommandController, err error) *[][]string {
	var calls [][]string
	c.run = func(_ context.Context, argv []string) error {
		calls = append(calls, argv)
		return err
	}
	return &calls
}

func TestDefaults(t *testing.T) {
	c, err := NewCommandController("", "  ")
	require.NoError(t, err)
	calls := recording(c, nil)

	require.NoError(t, c.Sleep())
	require.NoError(t, c.Restart())
	assert.Equal(t, [][]string{{"systemctl", "poweroff"}, {"systemctl", "reboot"}}, *calls)
}

func TestCustomCommands(t *testing.T) {
	c, err := NewCommandController("/usr/local/bin/pitboss-sleep --gpio 3", `sh -c "sync && reboot"`)
	require.NoError(t, err)
	calls := recording(c, nil)

	require.NoError(t, c.Sleep())
	require.NoError(t, c.Restart())
	assert.Equal(t, [][]string{
		{"/usr/local/bin/pitboss-sleep", "--gpio", "3"},
		{"sh", "-c", "sync && reboot"},
	}, *calls)
}

func TestCommandFailureWrapped(t *testing.T) {
	boom := errors.New("exit status 1")
	c, err := NewCommandController("", "")
	require.NoError(t, err)
	recording(c, boom)

	err = c.Sleep()
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "power: sleep")
}

func TestUnterminatedQuote(t *testing.T) {
	_, err := NewCommandController(`sh -c "poweroff`, "")
	assert.ErrorContains(t, err, "power: sleep command")
}

func TestRunCommand(t *testing.T) {
	assert.NoError(t, runCommand(context.Background(), []string{"true"}))
	assert.Error(t, runCommand(context.Background(), []string{"false"}))
}

func TestFakeController(t *testing.T) {
	f := &FakeController{}
	require.NoError(t, f.Sleep())
	f.Err = errors.New("denied")
	assert.Error(t, f.Restart())
	assert.Equal(t, 1, f.Sleeps)
	assert.Equal(t, 1, f.Restarts)
}
