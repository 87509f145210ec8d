package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Guest(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Partner(ctx context.Context, args []string) error
	Avatar(ctx context.Context, args []string) error
	Gallery(ctx context.Context) error
	Save(ctx context.Context, args []string) error
	Countdown(ctx context.Context) error
	Logout(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, guest, countdown, exit"
	helpLoggedIn  = "Available commands: (l)ist, add, delete <id>, partner [uid], avatar <file>, gallery, save <id> <file>, countdown, logout, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a
// until EOF, "exit" or "quit". Handlers report their own errors to the
// user; the loop only prints the prompt and unknown commands.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "diary%s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if !a.isLoggedIn() && requiresSession(cmd) {
			fmt.Fprintln(w, "Start a session first: login, register or guest")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpLoggedIn)
			} else {
				fmt.Fprintln(w, helpLoggedOut)
			}
		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "guest":
			_ = a.Guest(ctx)
		case "l", "list":
			_ = a.List(ctx)
		case "add":
			_ = a.Add(ctx)
		case "delete", "rm":
			_ = a.Delete(ctx, args)
		case "partner":
			_ = a.Partner(ctx, args)
		case "avatar":
			_ = a.Avatar(ctx, args)
		case "gallery":
			_ = a.Gallery(ctx)
		case "save":
			_ = a.Save(ctx, args)
		case "countdown":
			_ = a.Countdown(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}

func requiresSession(cmd string) bool {
	switch cmd {
	case "l", "list", "add", "delete", "rm", "partner", "avatar", "gallery", "save", "logout":
		return true
	}
	return false
}
