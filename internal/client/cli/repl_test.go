package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error {
	f.loggedIn = true
	return f.record("register", nil)
}
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Guest(context.Context) error {
	f.loggedIn = true
	return f.record("guest", nil)
}
func (f *fakeExec) List(context.Context) error { return f.record("list", nil) }
func (f *fakeExec) Add(context.Context) error  { return f.record("add", nil) }
func (f *fakeExec) Delete(_ context.Context, args []string) error {
	return f.record("delete", args)
}
func (f *fakeExec) Partner(_ context.Context, args []string) error {
	return f.record("partner", args)
}
func (f *fakeExec) Avatar(_ context.Context, args []string) error {
	return f.record("avatar", args)
}
func (f *fakeExec) Gallery(context.Context) error { return f.record("gallery", nil) }
func (f *fakeExec) Save(_ context.Context, args []string) error {
	return f.record("save", args)
}
func (f *fakeExec) Countdown(context.Context) error { return f.record("countdown", nil) }
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}

func TestRunREPL_SessionFlowAndCommands(t *testing.T) {
	input := strings.Join([]string{
		"help",
		"list",
		"guest",
		"help",
		"l",
		"add",
		"delete e1",
		"partner abc",
		"avatar me.png",
		"gallery",
		"save e1 out.png",
		"countdown",
		"foobar",
		"logout",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	var out bytes.Buffer

	runREPL(context.Background(), exec, func() string { return " (status)" }, bufio.NewReader(strings.NewReader(input)), &out)

	assert.Equal(t, []string{"guest", "list", "add", "delete", "partner", "avatar", "gallery", "save", "countdown", "logout"}, exec.calls)
	assert.Equal(t, []string{"e1"}, exec.args[3])
	assert.Equal(t, []string{"e1", "out.png"}, exec.args[7])

	text := out.String()
	assert.Contains(t, text, helpLoggedOut)
	assert.Contains(t, text, helpLoggedIn)
	assert.Contains(t, text, "Start a session first")
	assert.Contains(t, text, "Unknown command: foobar")
	assert.Contains(t, text, "diary (status)> ")
	assert.Contains(t, text, "Bye!")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	var out bytes.Buffer

	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("countdown")), &out)

	require.Equal(t, []string{"countdown"}, exec.calls)
	assert.NotContains(t, out.String(), "Bye!")
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{loggedIn: true}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("list\n")), &bytes.Buffer{})

	assert.Empty(t, exec.calls)
}
