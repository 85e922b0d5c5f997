package vm

import (
	"bufio"
	"context"
	goIO "io"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// memory mapped register addresses
const (
	KBSR = MemoryMappedRegistersStart          /* keyboard status register */
	KBDR = MemoryMappedRegistersStart + 0x0002 /* keyboard data register */
)

// console is the character device behind the trap routines and the
// keyboard registers. Input is pulled by a background reader so that
// polling KBSR never blocks the cpu.
type console struct {
	input        goIO.Reader
	stdoutWriter *bufio.Writer
	keyBuffer    chan byte
	readErr      error

	pending    byte
	hasPending bool
	started    bool
}

func newConsole(input goIO.Reader, output goIO.Writer) *console {
	if input == nil {
		input = os.Stdin
	}
	if output == nil {
		output = os.Stdout
	}
	return &console{
		input:        input,
		stdoutWriter: bufio.NewWriter(output),
		keyBuffer:    make(chan byte, 1),
	}
}

func (io *console) pollKeyboard() {
	buf := make([]byte, 1)
	for {
		n, err := io.input.Read(buf)
		if n > 0 {
			io.keyBuffer <- buf[0]
		}
		if err != nil {
			io.readErr = err
			close(io.keyBuffer)
			return
		}
	}
}

func (io *console) start() {
	if !io.started {
		io.started = true
		go io.pollKeyboard()
	}
}

// keyReady reports whether a key is waiting, without blocking.
func (io *console) keyReady() bool {
	if io.hasPending {
		return true
	}
	io.start()
	select {
	case b, ok := <-io.keyBuffer:
		if ok {
			io.pending, io.hasPending = b, true
		}
	default:
	}
	return io.hasPending
}

// takeKey consumes the key found by keyReady.
func (io *console) takeKey() byte {
	io.hasPending = false
	return io.pending
}

// getChar blocks until a key arrives, the input ends or ctx is cancelled.
func (io *console) getChar(ctx context.Context) (byte, error) {
	if io.hasPending {
		return io.takeKey(), nil
	}
	io.start()
	select {
	case b, ok := <-io.keyBuffer:
		if !ok {
			return 0, &ConsoleError{Op: "read", Err: io.readErr}
		}
		return b, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (io *console) write(p []byte) error {
	if _, err := io.stdoutWriter.Write(p); err != nil {
		return &ConsoleError{Op: "write", Err: err}
	}
	return nil
}

func (io *console) flush() error {
	if err := io.stdoutWriter.Flush(); err != nil {
		return &ConsoleError{Op: "flush", Err: err}
	}
	return nil
}

// Terminal switches an input tty between canonical and raw mode.
type Terminal struct {
	file                   *os.File
	originalTerminalConfig unix.Termios
	raw                    bool
}

func NewTerminal(file *os.File) *Terminal {
	return &Terminal{file: file}
}

// EnableRawMode turns off line buffering and echo. It does nothing when the
// file is not a terminal, so images can be fed input from a pipe.
func (t *Terminal) EnableRawMode() error {
	if t.raw || !term.IsTerminal(int(t.file.Fd())) {
		return nil
	}
	if err := termios.Tcgetattr(t.file.Fd(), &t.originalTerminalConfig); err != nil {
		return err
	}
	newTermios := t.originalTerminalConfig
	newTermios.Lflag &^= unix.ICANON | unix.ECHO
	if err := termios.Tcsetattr(t.file.Fd(), termios.TCSANOW, &newTermios); err != nil {
		return err
	}
	t.raw = true
	return nil
}

func (t *Terminal) DisableRawMode() error {
	if !t.raw {
		return nil
	}
	t.raw = false
	return termios.Tcsetattr(t.file.Fd(), termios.TCSANOW, &t.originalTerminalConfig)
}
