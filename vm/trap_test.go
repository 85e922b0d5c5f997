package vm

import (
	"context"
	"errors"
	goIO "io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrapPuts(t *testing.T) {
	assert := assert.New(t)

	m, output := newTestVM(t, "", opTRAP(TRAP_PUTS))
	m.Memory().Load(0x4000, []word{'H', 'I', 0, 'X'})
	m.Registers().Set(R0, 0x4000)

	require.NoError(t, m.Step(context.Background()))
	assert.Equal("HI", output.String())
	assert.Equal(word(0x3001), m.Registers().Get(R7))
}

func TestTrapPutsLowByteOnly(t *testing.T) {
	m, output := newTestVM(t, "", opTRAP(TRAP_PUTS))
	m.Memory().Load(0x4000, []word{0x4142, 0})
	m.Registers().Set(R0, 0x4000)

	require.NoError(t, m.Step(context.Background()))
	assert.Equal(t, "B", output.String())
}

func TestTrapPutsp(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name  string
		cells []word
		want  string
	}{
		{"odd", []word{'E'<<8 | 'H', 'L', 0}, "HEL"},
		{"even", []word{'E'<<8 | 'H', 'L'<<8 | 'L', 'O', 0}, "HELLO"},
		{"empty", []word{0}, ""},
	}

	for _, entry := range table {
		m, output := newTestVM(t, "", opTRAP(TRAP_PUTSP))
		m.Memory().Load(0x4000, entry.cells)
		m.Registers().Set(R0, 0x4000)

		require.NoError(t, m.Step(context.Background()), entry.name)
		assert.Equal(entry.want, output.String(), entry.name)
	}
}

func TestTrapOut(t *testing.T) {
	m, output := newTestVM(t, "", opTRAP(TRAP_OUT), opTRAP(TRAP_OUT))
	m.Registers().Set(R0, 0x1241)

	require.NoError(t, m.Step(context.Background()))
	require.NoError(t, m.Step(context.Background()))
	assert.Equal(t, "AA", output.String())
}

func TestTrapGetc(t *testing.T) {
	assert := assert.New(t)

	m, output := newTestVM(t, "ab", opTRAP(TRAP_GETC), opTRAP(TRAP_GETC))

	require.NoError(t, m.Step(context.Background()))
	assert.Equal(word('a'), m.Registers().Get(R0))
	assert.Equal(FLAG_POS, m.Registers().Cond())

	require.NoError(t, m.Step(context.Background()))
	assert.Equal(word('b'), m.Registers().Get(R0))
	assert.Empty(output.String())
}

func TestTrapGetcZero(t *testing.T) {
	m, _ := newTestVM(t, "\x00", opADDi(R0, R0, -1), opTRAP(TRAP_GETC))

	require.NoError(t, m.Step(context.Background()))
	assert.Equal(t, FLAG_NEG, m.Registers().Cond())
	require.NoError(t, m.Step(context.Background()))
	assert.Equal(t, word(0), m.Registers().Get(R0))
	assert.Equal(t, FLAG_ZRO, m.Registers().Cond())
}

func TestTrapIn(t *testing.T) {
	assert := assert.New(t)

	m, output := newTestVM(t, "x", opTRAP(TRAP_IN))

	require.NoError(t, m.Step(context.Background()))
	assert.Equal(word('x'), m.Registers().Get(R0))
	assert.Equal(FLAG_POS, m.Registers().Cond())
	assert.Equal("Enter a character: x", output.String())
}

func TestTrapGetcEOF(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestVM(t, "", opTRAP(TRAP_GETC))

	err := m.Step(context.Background())
	assert.ErrorIs(err, ErrConsoleIO)
	assert.ErrorIs(err, goIO.EOF)
	assert.True(m.Halted())
}

func TestTrapGetcCancelled(t *testing.T) {
	assert := assert.New(t)

	r, w := goIO.Pipe()
	defer w.Close()

	m := NewVM(Config{Input: r, Output: goIO.Discard})
	m.Memory().Write(UserSpaceStart, opTRAP(TRAP_GETC))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := m.Step(ctx)
	assert.ErrorIs(err, context.DeadlineExceeded)
	assert.True(m.Halted())
}

type failingWriter struct{}

var errBrokenPipe = errors.New("broken pipe")

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errBrokenPipe
}

func TestTrapWriteError(t *testing.T) {
	assert := assert.New(t)

	for _, vector := range []word{TRAP_OUT, TRAP_PUTS, TRAP_PUTSP, TRAP_IN, TRAP_HALT} {
		m := NewVM(Config{Input: goIO.LimitReader(nil, 0), Output: failingWriter{}})
		m.Memory().Write(UserSpaceStart, opTRAP(vector))
		m.Memory().Write(0x4000, 'Z')
		m.Registers().Set(R0, 0x4000)

		err := m.Step(context.Background())
		assert.ErrorIs(err, ErrConsoleIO, "x%02X", vector)
		assert.ErrorIs(err, errBrokenPipe, "x%02X", vector)
		assert.True(m.Halted(), "x%02X", vector)
	}
}

func TestTrapHalt(t *testing.T) {
	assert := assert.New(t)

	m, output := newTestVM(t, "", opTRAP(TRAP_HALT), opADDi(R0, R0, 1))

	require.NoError(t, m.Run(context.Background()))
	assert.True(m.Halted())
	assert.Equal("HALT\n", output.String())
	assert.Equal(word(0), m.Registers().Get(R0))
	assert.Equal(word(0x3001), m.Registers().PC())
	assert.Equal(word(0x3001), m.Registers().Get(R7))
}

func TestInvalidTrap(t *testing.T) {
	assert := assert.New(t)

	for _, vector := range []word{0x00, 0x1F, 0x26, 0xFF} {
		m, output := newTestVM(t, "", opTRAP(vector))

		err := m.Run(context.Background())
		assert.ErrorIs(err, ErrInvalidTrap)

		var trapErr *TrapError
		if assert.ErrorAs(err, &trapErr) {
			assert.Equal(word(0x3000), trapErr.Addr)
			assert.Equal(vector, trapErr.Vector)
		}
		assert.True(m.Halted())
		assert.Empty(output.String())
	}
}
