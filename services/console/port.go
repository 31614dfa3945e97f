package console

import "context"

// Port is the serial transport. uartx.UART and shmring.Ring-backed host
// ports both satisfy it.
type Port interface {
	RecvSomeContext(ctx context.Context, p []byte) (int, error)
	Write(p []byte) (int, error)
}
