package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"switchcore/auth"
	"switchcore/eventlog"
	"switchcore/sysstate"
)

// Task runs the CLI interpreter as one long-lived goroutine: while not
// authenticated it prompts for username then password and checks them
// against the user table; once authenticated it reads newline-terminated
// lines and walks them against the command tree, exactly as §4.3
// describes. Echo suppression during the password prompt is a UART-layer
// concern outside this package's scope (see DESIGN.md).
type Task struct {
	Env    *Env
	Tree   *Tree
	St     *sysstate.State
	Logger *eventlog.Logger
	In     io.Reader
	Out    io.Writer
}

// Run blocks until ctx is cancelled or the input stream ends.
func (t *Task) Run(ctx context.Context) {
	scanner := bufio.NewScanner(t.In)
	session := &Session{Tree: t.Tree}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !t.St.Authenticated() {
			if !t.login(scanner) {
				return
			}
			session.ActiveUser = t.St.ActiveUser()
			continue
		}

		fmt.Fprint(t.Out, "> ")
		if !scanner.Scan() {
			return
		}
		session.ActiveUser = t.St.ActiveUser()
		Dispatch(t.Out, session, scanner.Text())

		if !t.St.Authenticated() {
			session.ActiveUser = nil
		}
	}
}

// login runs the username/password exchange, returning false if the input
// stream ended before a line could be read.
func (t *Task) login(scanner *bufio.Scanner) bool {
	fmt.Fprint(t.Out, "Username: ")
	if !scanner.Scan() {
		return false
	}
	username := scanner.Text()

	fmt.Fprint(t.Out, "Password: ")
	if !scanner.Scan() {
		return false
	}
	password := scanner.Text()

	if _, ok := auth.Login(t.St, t.Logger, username, password); !ok {
		fmt.Fprintln(t.Out, "Login incorrect")
	}
	return true
}
