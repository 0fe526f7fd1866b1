package reading

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"epubnav/navigator"
	"epubnav/publication"
)

// input is where session signals are read from when no script is given.
var input io.Reader = os.Stdin

// Track runs reading session driven by renderer signals read line by line
// from a script file or standard input. Published locators are printed as
// JSON lines; publications arriving faster than they are printed are
// coalesced and only the newest is printed, the final one always is.
// Reading position is saved when session ends.
//
// Recognized signals:
//
//	scroll PROGRESSION
//	page INDEX TOTAL
//	resource INDEX|HREF
//	loaded
//	go HREF
//	wait
func Track(ctx context.Context, cmd *cli.Command) (err error) {
	b, err := openBook(ctx, cmd, "track")
	if err != nil {
		return err
	}
	defer b.Close()

	src := input
	if script := cmd.Args().Get(1); len(script) > 0 {
		f, err := os.Open(script)
		if err != nil {
			return fmt.Errorf("unable to open script '%s': %w", script, err)
		}
		defer f.Close()
		src = f
	}

	r := &logRenderer{log: b.log}
	n, err := b.session(ctx, r)
	if err != nil {
		return err
	}
	defer func() {
		if er := n.Close(context.WithoutCancel(ctx)); er != nil && !errors.Is(er, navigator.ErrClosed) {
			err = multierr.Append(err, fmt.Errorf("unable to save reading position: %w", er))
		}
	}()

	tr := n.Tracker()
	updates, cancel := tr.Subscribe()
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for loc := range updates {
			if err := writeLocator(output, loc); err != nil {
				b.log.Warn("Unable to print locator", zap.Error(err))
			}
		}
	}()
	defer func() {
		cancel()
		<-printed
	}()

	delay := b.env.Cfg.Navigator.Debounce()
	scanner := bufio.NewScanner(src)
	for line := 1; scanner.Scan(); line++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := signal(ctx, n, scanner.Text(), delay); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("unable to read signals: %w", err)
	}
	return settle(ctx, tr, delay)
}

func signal(ctx context.Context, n *navigator.Navigator, line string, delay time.Duration) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	tr := n.Tracker()

	switch verb, args := strings.ToLower(fields[0]), fields[1:]; verb {
	case "scroll":
		if len(args) != 1 {
			return errors.New("scroll expects progression")
		}
		p, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("bad progression: %w", err)
		}
		tr.OnScroll(p)
	case "page":
		if len(args) != 2 {
			return errors.New("page expects index and total")
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad page index: %w", err)
		}
		total, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad page total: %w", err)
		}
		tr.OnPageChanged(index, total)
	case "resource":
		if len(args) != 1 {
			return errors.New("resource expects index or href")
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			if index = n.Publication().ResourceIndex(args[0]); index < 0 {
				return fmt.Errorf("resource '%s' is not in reading order", args[0])
			}
		}
		tr.OnResourceLoaded(index)
	case "loaded":
		tr.OnPageLoaded()
	case "go":
		if len(args) != 1 {
			return errors.New("go expects href")
		}
		link := publication.Link{Href: args[0]}
		ok, err := n.GoToLink(ctx, link)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("link '%s' does not point into publication", args[0])
		}
		// log renderer shows resource right away
		tr.OnResourceLoaded(n.Publication().ResourceIndex(args[0]))
	case "wait":
		return settle(ctx, tr, delay)
	default:
		return fmt.Errorf("unknown signal '%s'", verb)
	}
	return nil
}

// settle waits until pending locator computation is over.
func settle(ctx context.Context, tr *navigator.Tracker, delay time.Duration) error {
	for tr.State() == navigator.StateSettling {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay / 2):
		}
	}
	return nil
}
