package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/client/client"
	"github.com/dmitrijs2005/swapdiary/internal/client/config"
	"github.com/dmitrijs2005/swapdiary/internal/client/localstore"
	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/dmitrijs2005/swapdiary/internal/filex"
	"github.com/dmitrijs2005/swapdiary/internal/logging"
)

type App struct {
	config *config.Config
	api    client.Client
	local  *localstore.LocalStore
	logger logging.Logger
	reader *bufio.Reader
	now    diary.Clock

	outMu sync.Mutex
	out   io.Writer

	mu          sync.Mutex
	session     *diary.Session
	remote      *client.RemoteStore
	watcher     *diary.SwapWatcher
	stopWatcher context.CancelFunc
}

// NewApp opens the local database and prepares the backend connection. The
// connection itself is established lazily on the first call.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewText(os.Stderr, slog.LevelWarn)

	if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, err
	}
	local, err := localstore.Open(ctx, c.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api, err := client.NewGRPCClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		_ = local.Close()
		return nil, err
	}

	return newApp(c, api, local, logger, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, api client.Client, local *localstore.LocalStore, logger logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		api:    api,
		local:  local,
		logger: logger,
		reader: bufio.NewReader(in),
		out:    out,
		now:    time.Now,
	}
}

// Run starts the REPL and releases resources when it ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.println("Welcome to SwapDiary (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader, a.writer())
}

func (a *App) Close() {
	a.endSession()
	if err := a.api.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing connection", "error", err)
	}
	if err := a.local.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing database", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.currentSession() != nil
}

func (a *App) currentSession() *diary.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

func (a *App) getStatus() string {
	s := a.currentSession()
	if s == nil {
		return ""
	}
	p := s.Profile()
	v := s.View()
	status := p.DisplayName
	if v.Swapped {
		status += " as " + v.Effective.DisplayName()
	}
	if p.IsGuest() {
		status += ", offline"
	}
	return fmt.Sprintf(" (%s)", status)
}

// startSession binds profile to store, replacing any open session, and
// starts the swap watcher. The first check runs synchronously so the
// notice for an odd day shows before the next prompt. Cloud sessions tell
// the day by the server's clock.
func (a *App) startSession(ctx context.Context, p diary.Profile, store diary.Store) error {
	clock := a.now
	if remote, ok := store.(*client.RemoteStore); ok {
		clock = remote.Now
	}
	session, err := diary.NewSession(p, store, clock)
	if err != nil {
		return err
	}
	a.endSession()

	watcher := diary.NewSwapWatcher(session, a.notice, a.logger)
	watcher.Check(ctx)

	wctx, cancel := context.WithCancel(ctx)

	a.mu.Lock()
	a.session = session
	a.remote, _ = store.(*client.RemoteStore)
	a.watcher = watcher
	a.stopWatcher = cancel
	a.mu.Unlock()

	go watcher.Run(wctx, a.config.SwapCheckInterval)
	return nil
}

func (a *App) endSession() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopWatcher != nil {
		a.stopWatcher()
	}
	a.session, a.remote, a.watcher, a.stopWatcher = nil, nil, nil, nil
}

func (a *App) notice(n diary.Notice) {
	a.printf("*** %s\n", n.Message)
}

// writer serialises output shared by the REPL and the watcher goroutine.
func (a *App) writer() io.Writer {
	return lockedWriter{a}
}

type lockedWriter struct{ a *App }

func (l lockedWriter) Write(p []byte) (int, error) {
	l.a.outMu.Lock()
	defer l.a.outMu.Unlock()
	return l.a.out.Write(p)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.writer(), format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.writer(), args...)
}
