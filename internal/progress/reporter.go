// Package progress renders upload progress: a single overwritable status
// line on interactive terminals, plain lines everywhere else.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// Reporter prints one status update per uploaded file. Safe for concurrent
// use by pool workers.
type Reporter struct {
	mu    sync.Mutex
	out   io.Writer
	tty   bool
	total int
	done  int
}

// New builds a reporter for total expected uploads; a total of 0 means the
// count is unknown and omitted from output. TTY detection only applies when
// out is an *os.File.
func New(out io.Writer, total int) *Reporter {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Reporter{out: out, tty: tty, total: total}
}

// FileUploaded records one successful upload and refreshes the status line.
func (r *Reporter) FileUploaded(remoteName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done++
	status := fmt.Sprintf("uploaded %d %s", r.done, remoteName)
	if r.total > 0 {
		status = fmt.Sprintf("uploaded %d/%d %s", r.done, r.total, remoteName)
	}
	if r.tty {
		// \033[2K clears the previous, possibly longer, line.
		fmt.Fprintf(r.out, "\r\033[2K%s", status)
		return
	}
	fmt.Fprintln(r.out, status)
}

// Finish terminates the overwritable line so subsequent output starts
// cleanly. No-op when nothing was printed or output is not a terminal.
func (r *Reporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tty && r.done > 0 {
		fmt.Fprintln(r.out)
	}
}

// Done reports how many uploads have been recorded.
func (r *Reporter) Done() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}
