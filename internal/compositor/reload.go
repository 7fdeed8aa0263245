package compositor

import (
	"fmt"
	"log"

	"golang.org/x/sys/unix"

	"github.com/FoxMoss/DoteWM/internal/protocol"
)

// inotifyEventHeaderLen mirrors the struct inotify_event header the kernel
// writes ahead of each (optional) variable-length name.
const inotifyEventHeaderLen = unix.SizeofInotifyEvent

// reloadBufLen: room for 1024 headers plus a generous 16-byte name each.
const reloadBufLen = 1024 * (inotifyEventHeaderLen + 16)

// ReloadWatcher wraps a non-blocking inotify file descriptor, watching an
// arbitrary set of files for IN_MODIFY and surfacing at most one reload
// signal per drain no matter how many files changed or how many events the
// kernel queued (the reload watcher in §4.5 deliberately only inspects the
// first event it reads).
type ReloadWatcher struct {
	fd int
}

// NewReloadWatcher opens a fresh non-blocking inotify instance.
func NewReloadWatcher() (*ReloadWatcher, error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK)
	if err != nil {
		return nil, fmt.Errorf("compositor: inotify_init1: %w", err)
	}
	return &ReloadWatcher{fd: fd}, nil
}

// AddWatch registers path for IN_MODIFY notifications, satisfying the
// FileWatcher interface the IPC pump uses for file_register_request.
func (r *ReloadWatcher) AddWatch(path string) (int32, error) {
	wd, err := unix.InotifyAddWatch(r.fd, path, unix.IN_MODIFY)
	if err != nil {
		return 0, fmt.Errorf("compositor: inotify_add_watch %s: %w", path, err)
	}
	return int32(wd), nil
}

// Close releases the inotify file descriptor.
func (r *ReloadWatcher) Close() error {
	return unix.Close(r.fd)
}

// Poll performs one non-blocking read of the inotify descriptor. It
// preserves the original's "just grab the first event" behavior: even if
// the kernel returns several queued events in one read, only the first is
// inspected, and at most one reload_reply segment is ever produced.
func (r *ReloadWatcher) Poll(s *State) ([]protocol.Segment, error) {
	buf := make([]byte, reloadBufLen)
	n, err := unix.Read(r.fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil, nil
		}
		return nil, fmt.Errorf("compositor: read inotify fd: %w", err)
	}
	if n < inotifyEventHeaderLen {
		return nil, nil
	}

	wd := int32(int32(buf[0]) | int32(buf[1])<<8 | int32(buf[2])<<16 | int32(buf[3])<<24)
	if path, ok := s.WatchedPath(wd); ok {
		log.Printf("file updated %s", path)
	}

	return []protocol.Segment{protocol.ReloadReply{}}, nil
}
