package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yoloset/pkg/journal"
)

// Exit code for a run that was interrupted by the user
const ExitInterrupted = 130

// ExitOnInterrupt terminates the process with ExitInterrupted on SIGINT or SIGTERM
func ExitOnInterrupt(log logs.Log) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		log.Warnf("Operation cancelled by user")
		os.Exit(ExitInterrupted)
	}()
}

// Confirm writes the question to w and reads an answer from r.
// Only "y" and "yes" (any case) count as agreement. EOF is a refusal.
func Confirm(r io.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%v (yes/no): ", question)
	answer, _ := bufio.NewReader(r).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// OpenJournal opens the run history if filename is not empty.
// A journal that fails to open is reported, and the run continues without one.
func OpenJournal(log logs.Log, filename string) *journal.Journal {
	if filename == "" {
		return nil
	}
	j, err := journal.Open(log, filename)
	if err != nil {
		log.Warnf("Run history disabled: %v", err)
		return nil
	}
	return j
}

// RecordRun stores a run in the journal (if any), logging failures
func RecordRun(log logs.Log, j *journal.Journal, run Run) {
	if _, err := j.Record(run.Operation, run.StartedAt, run.Summary); err != nil {
		log.Warnf("%v", err)
	}
}
