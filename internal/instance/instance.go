// Package instance implements waves's single-instance mechanism: the first
// process to start binds a TCP control socket and becomes the main
// instance; any later invocation finds the port already taken, becomes a
// "sub" instance, and forwards its one command line to the main process
// instead of starting a second player. Ported verbatim in spirit from
// original_source/src/main.rs's Instance::Main/Instance::Sub enum.
package instance

import (
	"bufio"
	"fmt"
	"net"
	"strings"

	"github.com/llehouerou/waves/internal/logx"
)

// Command is one of the control lines exchanged over the socket. A few
// verbs (CommandVolume, CommandSeek) carry a trailing argument separated by
// a space, e.g. "volume 0.8" or "seek 30"; the rest are bare verbs.
type Command string

const (
	CommandExit     Command = "exit"
	CommandNext     Command = "next"
	CommandPrevious Command = "previous"
	CommandPause    Command = "pause"
	CommandPlay     Command = "play"
	CommandStop     Command = "stop"
	CommandVolume   Command = "volume"
	CommandSeek     Command = "seek"
)

// Parsed is one received control line split into its verb and optional
// argument (empty for bare verbs).
type Parsed struct {
	Cmd Command
	Arg string
}

func addr(port int) string {
	return fmt.Sprintf("127.0.0.1:%d", port)
}

// Instance is either the Main instance (Listener non-nil, owns the
// socket) or a Sub instance (Listener nil — the caller should forward its
// command with Send and exit).
type Instance struct {
	Listener net.Listener
}

// Acquire attempts to bind the control socket on port. If another process
// already owns it, it returns a Sub instance (Listener == nil) rather than
// an error — failing to bind the port is the expected, common case.
func Acquire(port int) (*Instance, error) {
	l, err := net.Listen("tcp", addr(port))
	if err != nil {
		return &Instance{}, nil
	}
	return &Instance{Listener: l}, nil
}

// IsMain reports whether this process owns the control socket.
func (i *Instance) IsMain() bool { return i.Listener != nil }

// Serve accepts connections and invokes handle once per received command
// line, until the listener is closed. Only valid on a Main instance.
func (i *Instance) Serve(handle func(Parsed)) error {
	for {
		conn, err := i.Listener.Accept()
		if err != nil {
			return err
		}
		go i.handleConn(conn, handle)
	}
}

func (i *Instance) handleConn(conn net.Conn, handle func(Parsed)) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		return
	}
	line := strings.TrimSpace(scanner.Text())
	if line == "" {
		return
	}

	verb, arg, _ := strings.Cut(line, " ")
	switch Command(verb) {
	case CommandExit, CommandNext, CommandPrevious, CommandPause, CommandPlay, CommandStop,
		CommandVolume, CommandSeek:
		handle(Parsed{Cmd: Command(verb), Arg: strings.TrimSpace(arg)})
	default:
		logx.Debug("instance: ignoring unknown command", "line", line)
	}
}

// Close releases the listener.
func (i *Instance) Close() error {
	if i.Listener == nil {
		return nil
	}
	return i.Listener.Close()
}

// Send connects to the main instance's control socket and forwards cmd as
// a single line. Used by a Sub instance (and by CLI flags like `waves
// next` on an already-running instance).
func Send(port int, cmd Command) error {
	return SendArg(port, cmd, "")
}

// SendArg is Send for a command that carries an argument, e.g.
// SendArg(port, CommandVolume, "0.8").
func SendArg(port int, cmd Command, arg string) error {
	conn, err := net.Dial("tcp", addr(port))
	if err != nil {
		return err
	}
	defer conn.Close()
	line := string(cmd)
	if arg != "" {
		line += " " + arg
	}
	_, err = fmt.Fprintln(conn, line)
	return err
}
