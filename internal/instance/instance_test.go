package instance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireSecondInstanceIsSub(t *testing.T) {
	const port = 28346
	main, err := Acquire(port)
	require.NoError(t, err)
	defer main.Close()
	require.True(t, main.IsMain())

	sub, err := Acquire(port)
	require.NoError(t, err)
	assert.False(t, sub.IsMain())
}

func TestSendDeliversCommand(t *testing.T) {
	const port = 28347
	main, err := Acquire(port)
	require.NoError(t, err)
	defer main.Close()

	received := make(chan Parsed, 1)
	go func() {
		_ = main.Serve(func(p Parsed) { received <- p })
	}()

	require.NoError(t, Send(port, CommandNext))

	select {
	case p := <-received:
		assert.Equal(t, CommandNext, p.Cmd)
		assert.Empty(t, p.Arg)
	case <-time.After(time.Second):
		t.Fatal("expected command to be received")
	}
}

func TestSendArgDeliversArgument(t *testing.T) {
	const port = 28349
	main, err := Acquire(port)
	require.NoError(t, err)
	defer main.Close()

	received := make(chan Parsed, 1)
	go func() {
		_ = main.Serve(func(p Parsed) { received <- p })
	}()

	require.NoError(t, SendArg(port, CommandVolume, "0.8"))

	select {
	case p := <-received:
		assert.Equal(t, CommandVolume, p.Cmd)
		assert.Equal(t, "0.8", p.Arg)
	case <-time.After(time.Second):
		t.Fatal("expected command to be received")
	}
}

func TestSendUnknownCommandIgnored(t *testing.T) {
	const port = 28348
	main, err := Acquire(port)
	require.NoError(t, err)
	defer main.Close()

	received := make(chan Parsed, 1)
	go func() {
		_ = main.Serve(func(p Parsed) { received <- p })
	}()

	require.NoError(t, Send(port, Command("not-a-command")))
	require.NoError(t, Send(port, CommandStop))

	select {
	case p := <-received:
		assert.Equal(t, CommandStop, p.Cmd)
	case <-time.After(time.Second):
		t.Fatal("expected the valid command to be received")
	}
}
