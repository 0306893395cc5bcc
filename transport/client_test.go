package transport

import (
	"bytes"
	"io"
	"net"
	"os"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestClient(t *testing.T) {
	t.Run("read and pushback", func(t *testing.T) {
		server, peer := net.Pipe()
		defer peer.Close()

		clk := clock.NewMock()
		clk.Set(time.Now())
		client := NewClient(server, clk, time.Minute, time.Minute, make([]byte, 64))
		defer client.Close()

		go func() {
			_, _ = peer.Write([]byte("Hello, world!"))
		}()

		data, err := client.Read()
		require.NoError(t, err)
		require.Equal(t, "Hello, world!", string(data))

		client.Pushback(data[7:])
		data, err = client.Read()
		require.NoError(t, err)
		require.Equal(t, "world!", string(data))
	})

	t.Run("deadline", func(t *testing.T) {
		server, peer := net.Pipe()
		defer peer.Close()

		// the mock clock stays at the epoch, so the deadline is long gone
		client := NewClient(server, clock.NewMock(), 5*time.Second, 5*time.Second, make([]byte, 64))
		defer client.Close()

		_, err := client.Read()
		require.ErrorIs(t, err, os.ErrDeadlineExceeded)
	})

	t.Run("pushback skips the deadline", func(t *testing.T) {
		server, peer := net.Pipe()
		defer peer.Close()

		client := NewClient(server, clock.NewMock(), 5*time.Second, 5*time.Second, make([]byte, 64))
		defer client.Close()

		client.Pushback([]byte("GET / HTTP/1.1\r\n"))
		data, err := client.Read()
		require.NoError(t, err)
		require.Equal(t, "GET / HTTP/1.1\r\n", string(data))
	})

	t.Run("write", func(t *testing.T) {
		server, peer := net.Pipe()
		defer peer.Close()

		client := NewClient(server, clock.New(), 5*time.Second, 5*time.Second, nil)
		defer client.Close()

		go func() {
			_, _ = client.Write([]byte("pong"))
		}()

		buff := make([]byte, 4)
		n, err := peer.Read(buff)
		require.NoError(t, err)
		require.Equal(t, "pong", string(buff[:n]))
		require.Equal(t, server.RemoteAddr(), client.Remote())
		require.Equal(t, server, client.Conn())
	})

	t.Run("write deadline", func(t *testing.T) {
		server, peer := net.Pipe()
		defer peer.Close()

		// nobody reads from the peer, and the deadline is already in the past
		client := NewClient(server, clock.NewMock(), 5*time.Second, 5*time.Second, nil)
		defer client.Close()

		_, err := client.Write([]byte("pong"))
		require.ErrorIs(t, err, os.ErrDeadlineExceeded)

		_, err = io.CopyN(client, bytes.NewReader([]byte("pong")), 4)
		require.ErrorIs(t, err, os.ErrDeadlineExceeded)
	})

	t.Run("stream", func(t *testing.T) {
		server, peer := net.Pipe()

		client := NewClient(server, clock.New(), 5*time.Second, 5*time.Second, nil)
		received := make(chan []byte, 1)
		go func() {
			data, _ := io.ReadAll(peer)
			received <- data
		}()

		body := bytes.Repeat([]byte("0123456789"), streamChunk/10+7)
		n, err := io.CopyN(client, io.MultiReader(bytes.NewReader(body), bytes.NewReader([]byte("tail"))), int64(len(body)))
		require.NoError(t, err)
		require.Equal(t, int64(len(body)), n)

		n, err = io.CopyN(client, bytes.NewReader([]byte("short")), 10)
		require.ErrorIs(t, err, io.EOF)
		require.Equal(t, int64(5), n)

		require.NoError(t, client.Close())
		require.Equal(t, append(body, "short"...), <-received)
	})
}
