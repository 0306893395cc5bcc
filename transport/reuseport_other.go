//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package transport

import (
	"syscall"

	"github.com/pkg/errors"
)

func reusePortControl(string, string, syscall.RawConn) error {
	return errors.New("SO_REUSEPORT is not supported on this platform")
}
