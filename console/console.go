// Package console implements the boot-time command window: a short
// period after startup in which persisted state can be inspected or
// erased over the serial/stdin line before navigation begins.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/robocore-labs/maze-rover/persist"
)

// Persistence is the slice of the store the console operates on.
type Persistence interface {
	EraseAll() error
	Status() persist.Status
}

// Run reads line commands from r until the window elapses or r ends.
// Supported commands:
//
//	RESET (or R)  erase both persisted records
//	STATUS        print the persistence status record
//
// Anything else produces an error line. The window elapsing silently is
// the normal boot path.
func Run(r io.Reader, w io.Writer, window time.Duration, store Persistence) {
	fmt.Fprintf(w, "BOOT: accepting commands for %d ms (RESET/STATUS)\n", window.Milliseconds())

	done := make(chan struct{})
	defer close(done)
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		close(lines)
	}()

	deadline := time.After(window)
	for {
		select {
		case <-deadline:
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			handle(strings.TrimSpace(line), w, store)
		}
	}
}

func handle(cmd string, w io.Writer, store Persistence) {
	switch cmd {
	case "":
	case "RESET", "R":
		result := "done"
		if err := store.EraseAll(); err != nil {
			result = "fail"
		}
		fmt.Fprintf(w, "OK RESET %s\n", result)
	case "STATUS":
		st := store.Status()
		fmt.Fprintf(w, "STATUS saved=%d profile=%d\n", st.SavedCount, st.ActiveProfile)
	default:
		fmt.Fprintln(w, "ERR cmd")
	}
}
