package app

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"example.com/scoreboard/internal/scoreboard"
)

// Feed lines are CSV records:
//
//	start,Mexico,Canada
//	update,Mexico,0,Canada,5
//	finish,Mexico,Canada
//	summary
//
// Blank lines and lines starting with # are skipped.

var errBadCommand = errors.New("bad command")

type command struct {
	op        string
	home      string
	away      string
	homeScore int
	awayScore int
}

func parseCommand(line string) (command, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	rec, err := r.Read()
	if err != nil {
		return command{}, fmt.Errorf("%w: %v", errBadCommand, err)
	}

	cmd := command{op: strings.ToLower(strings.TrimSpace(rec[0]))}
	args := rec[1:]

	switch cmd.op {
	case "start", "finish":
		if len(args) != 2 {
			return command{}, fmt.Errorf("%w: %s wants home,away", errBadCommand, cmd.op)
		}
		cmd.home, cmd.away = args[0], args[1]

	case "update":
		if len(args) != 4 {
			return command{}, fmt.Errorf("%w: update wants home,homeScore,away,awayScore", errBadCommand)
		}
		cmd.home, cmd.away = args[0], args[2]
		if cmd.homeScore, err = parseScore(args[1]); err != nil {
			return command{}, err
		}
		if cmd.awayScore, err = parseScore(args[3]); err != nil {
			return command{}, err
		}

	case "summary":
		if len(args) != 0 {
			return command{}, fmt.Errorf("%w: summary takes no arguments", errBadCommand)
		}

	default:
		return command{}, fmt.Errorf("%w: unknown command %q", errBadCommand, cmd.op)
	}

	return cmd, nil
}

func parseScore(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: score %q is not a number", errBadCommand, s)
	}
	return n, nil
}

// exec applies one feed line and writes its result.
func (a *App) exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	cmd, err := parseCommand(line)
	if err == nil {
		err = a.apply(cmd)
	}
	if err != nil {
		a.log.Debug("command rejected", "line", line, "err", err)
		_, werr := fmt.Fprintf(a.out, "error: %v\n", err)
		return werr
	}
	return nil
}

func (a *App) apply(cmd command) error {
	switch cmd.op {
	case "start":
		if _, err := a.board.Start(cmd.home, cmd.away); err != nil {
			return err
		}
	case "update":
		if err := a.board.UpdateScore(cmd.home, cmd.homeScore, cmd.away, cmd.awayScore); err != nil {
			return err
		}
	case "finish":
		if err := a.board.Finish(cmd.home, cmd.away); err != nil {
			return err
		}
	case "summary":
		return writeSummary(a.out, a.board.Summary())
	}
	_, err := io.WriteString(a.out, "ok\n")
	return err
}

func writeSummary(w io.Writer, summary []scoreboard.Match) error {
	if len(summary) == 0 {
		_, err := io.WriteString(w, "no ongoing matches\n")
		return err
	}
	bw := bufio.NewWriter(w)
	for i, m := range summary {
		fmt.Fprintf(bw, "%d. %s\n", i+1, m)
	}
	return bw.Flush()
}

// maxLineBytes caps one feed line. Longer lines are skipped and reported.
const maxLineBytes = 64 * 1024

type feedLine struct {
	text    string
	tooLong bool
}

// readLines sends every line of in to lines until EOF or ctx is done.
func readLines(ctx context.Context, in io.Reader, lines chan<- feedLine) error {
	br := bufio.NewReaderSize(in, maxLineBytes)
	for {
		data, err := br.ReadSlice('\n')
		line := feedLine{text: strings.TrimRight(string(data), "\r\n")}
		for err == bufio.ErrBufferFull {
			line.tooLong = true
			_, err = br.ReadSlice('\n')
		}

		if len(data) > 0 || line.tooLong {
			select {
			case lines <- line:
			case <-ctx.Done():
				return nil
			}
		}

		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// runFeed reads lines in a separate goroutine so cancellation does not wait
// on a blocked read.
func (a *App) runFeed(ctx context.Context) error {
	lines := make(chan feedLine)
	errc := make(chan error, 1)

	// On cancel a reader blocked in ReadSlice stays alive until a.in closes.
	go func() {
		errc <- readLines(ctx, a.in, lines)
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-errc; err != nil {
					return fmt.Errorf("read feed: %w", err)
				}
				return nil
			}
			if err := a.execLine(line); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
		}
	}
}

func (a *App) execLine(line feedLine) error {
	if line.tooLong {
		a.log.Debug("command rejected", "err", "line too long")
		_, err := fmt.Fprintf(a.out, "error: %v: line longer than %d bytes\n", errBadCommand, maxLineBytes)
		return err
	}
	return a.exec(line.text)
}
