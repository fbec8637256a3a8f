// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

package capability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ResourceError is an OS-level failure while resolving a capability:
// a missing descriptor, a failed open, name resolution trouble, or a
// bind/listen failure. It carries the offending manifest value.
type ResourceError struct {
	// Value is the manifest token or attribute the resolution was for.
	Value string
	// Err is the underlying failure, OS error text included.
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Value, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// Resolver turns declarative resource references into open file
// descriptors. Descriptors are opened without close-on-exec: they must
// survive the process replace that hands them to the target.
//
// The zero value is not usable; construct with NewResolver.
type Resolver struct {
	logger *slog.Logger

	// lookupIPAddr and lookupPort default to net.DefaultResolver and
	// exist so tests can substitute deterministic name resolution.
	lookupIPAddr func(ctx context.Context, host string) ([]net.IPAddr, error)
	lookupPort   func(ctx context.Context, network, service string) (int, error)
}

// NewResolver returns a Resolver logging through logger.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		logger:       logger,
		lookupIPAddr: net.DefaultResolver.LookupIPAddr,
		lookupPort:   net.DefaultResolver.LookupPort,
	}
}

// ResolveExisting resolves a reference to a descriptor that is already
// open in the launching process. The token is a decimal numeral or one
// of the symbolic names "stdout" and "stderr". Both symbolic names
// resolve to descriptor 1; this mirrors the original behavior and is
// kept deliberately.
//
// A malformed token is reported as a plain error for the caller to
// classify; a descriptor that is not open is a *ResourceError.
func (r *Resolver) ResolveExisting(token string) (int, error) {
	var fd int
	switch token {
	case "stdout", "stderr":
		fd = 1
	default:
		n, err := strconv.ParseUint(token, 10, 64)
		if err != nil || n > math.MaxInt32 {
			return -1, fmt.Errorf("invalid file descriptor number %q", token)
		}
		fd = int(n)
	}

	// The process-replace primitive does not report which descriptors
	// were invalid, so probe here.
	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		return -1, &ResourceError{Value: token, Err: fmt.Errorf("file descriptor %d: %w", fd, err)}
	}
	r.logger.Debug("resolved existing descriptor", "token", token, "fd", fd)
	return fd, nil
}

// ResolveFile opens path read-only and returns the descriptor.
func (r *Resolver) ResolveFile(path string) (int, error) {
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return -1, &ResourceError{Value: path, Err: fmt.Errorf("failed to open: %w", err)}
	}
	r.logger.Debug("opened file capability", "path", path, "fd", fd)
	return fd, nil
}

// Socket types accepted by ResolveSocket.
const (
	SocketStream    = "stream"
	SocketDgram     = "dgram"
	SocketSeqpacket = "seqpacket"
)

// sunPathMax is the size of sockaddr_un.sun_path, including the NUL
// terminator.
const sunPathMax = len(unix.RawSockaddrUnix{}.Path)

// ResolveSocket creates a socket of the named type, binds it to the
// declared address, and puts it in a passive listening state. A bind
// string starting with "/" is a filesystem path for a local socket;
// anything else is host:port, with "[host]:port" recognized for
// bracketed hosts. An unbracketed bind string splits at the first
// colon, so a bare IPv6 literal without brackets misparses; this is a
// known limitation carried over from the original.
//
// An unsupported socket type is reported as a plain error for the
// caller to classify as malformed input; everything else is a
// *ResourceError.
func (r *Resolver) ResolveSocket(sockType, bind string) (int, error) {
	var typ int
	switch sockType {
	case SocketStream:
		typ = unix.SOCK_STREAM
	case SocketDgram:
		typ = unix.SOCK_DGRAM
	case SocketSeqpacket:
		typ = unix.SOCK_SEQPACKET
	default:
		return -1, fmt.Errorf("unsupported type attribute: %s", sockType)
	}

	var (
		family int
		sa     unix.Sockaddr
	)
	if strings.HasPrefix(bind, "/") {
		if len(bind) >= sunPathMax {
			return -1, &ResourceError{Value: bind, Err: errors.New("socket path too long")}
		}
		family = unix.AF_UNIX
		sa = &unix.SockaddrUnix{Name: bind}
	} else {
		ip, port, err := r.resolveInetAddr(typ, bind)
		if err != nil {
			return -1, err
		}
		if v4 := ip.To4(); v4 != nil {
			family = unix.AF_INET
			a := &unix.SockaddrInet4{Port: port}
			copy(a.Addr[:], v4)
			sa = a
		} else {
			family = unix.AF_INET6
			a := &unix.SockaddrInet6{Port: port}
			copy(a.Addr[:], ip.To16())
			sa = a
		}
	}

	fd, err := unix.Socket(family, typ, 0)
	if err != nil {
		return -1, &ResourceError{Value: bind, Err: fmt.Errorf("failed to create socket: %w", err)}
	}
	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	if err := unix.Bind(fd, sa); err != nil {
		return -1, &ResourceError{Value: bind, Err: fmt.Errorf("failed to bind: %w", err)}
	}
	// Datagram sockets cannot listen; tolerate that one failure.
	if err := unix.Listen(fd, 0); err != nil && !errors.Is(err, unix.EOPNOTSUPP) {
		return -1, &ResourceError{Value: bind, Err: fmt.Errorf("failed to listen: %w", err)}
	}
	r.logger.Debug("bound socket capability", "type", sockType, "bind", bind, "fd", fd)
	return fd, nil
}

// resolveInetAddr splits bind into host and service and resolves both,
// restricted to the socket type. Exactly one address must come back.
func (r *Resolver) resolveInetAddr(typ int, bind string) (net.IP, int, error) {
	var host, service string
	if strings.HasPrefix(bind, "[") {
		i := strings.Index(bind, "]:")
		if i < 0 {
			return nil, 0, &ResourceError{Value: bind, Err: errors.New("address does not contain a port number")}
		}
		host, service = bind[1:i], bind[i+2:]
	} else {
		i := strings.Index(bind, ":")
		if i < 0 {
			return nil, 0, &ResourceError{Value: bind, Err: errors.New("address does not contain a port number")}
		}
		host, service = bind[:i], bind[i+1:]
	}

	var network string
	switch typ {
	case unix.SOCK_STREAM:
		network = "tcp"
	case unix.SOCK_DGRAM:
		network = "udp"
	default:
		// getaddrinfo has no IP protocol for seqpacket sockets.
		return nil, 0, &ResourceError{Value: bind, Err: errors.New("socket type not supported for network addresses")}
	}

	// Blocking, no timeout: one manifest per invocation, the process
	// exits after launch.
	ctx := context.Background()
	port, err := r.lookupPort(ctx, network, service)
	if err != nil {
		return nil, 0, &ResourceError{Value: bind, Err: fmt.Errorf("failed to resolve: %w", err)}
	}
	addrs, err := r.lookupIPAddr(ctx, host)
	if err != nil {
		return nil, 0, &ResourceError{Value: bind, Err: fmt.Errorf("failed to resolve: %w", err)}
	}
	switch len(addrs) {
	case 0:
		return nil, 0, &ResourceError{Value: bind, Err: errors.New("failed to resolve: no addresses")}
	case 1:
		return addrs[0].IP, port, nil
	default:
		return nil, 0, &ResourceError{Value: bind, Err: errors.New("resolves to multiple addresses")}
	}
}
