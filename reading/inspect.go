package reading

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"epubnav/config"
	"epubnav/navigator"
	"epubnav/publication"
)

// output is where commands print results, tests replace it.
var output io.Writer = os.Stdout

// Settings lists settings offered for the publication with their resolved
// values.
func Settings(ctx context.Context, cmd *cli.Command) error {
	b, err := openBook(ctx, cmd, "settings")
	if err != nil {
		return err
	}
	defer b.Close()

	s := b.settings()
	tag := b.env.Cfg.Navigator.Language()
	showAll := cmd.Bool("all")

	w := tabwriter.NewWriter(output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVALUE\tACTIVE")
	for _, d := range s.Descriptors() {
		active := d.IsActiveWithPreferences(s.Preferences())
		if !active && !showAll {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%t\n", d.Name(), d.ValueLabel(tag), active)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	b.log.Debug("Settings listed",
		zap.Stringer("layout", s.Layout()),
		zap.Bool("rtl", s.IsRTL()),
		zap.Strings("inactive", s.Inactive()))
	return nil
}

// CSS prints custom properties renderer would inject for current
// preferences.
func CSS(ctx context.Context, cmd *cli.Command) error {
	b, err := openBook(ctx, cmd, "css")
	if err != nil {
		return err
	}
	defer b.Close()

	s := b.settings()
	props := s.Properties()
	switch {
	case cmd.Bool("user"):
		props = s.UserProperties().ToProperties()
	case cmd.Bool("rs"):
		props = s.ReadingSystemProperties().ToProperties()
	}
	_, err = props.WriteTo(output)
	return err
}

// Positions computes position list and writes it as JSON.
func Positions(ctx context.Context, cmd *cli.Command) error {
	b, err := openBook(ctx, cmd, "positions")
	if err != nil {
		return err
	}
	defer b.Close()

	table, err := b.buildPositions(ctx)
	if err != nil {
		return err
	}
	b.log.Info("Positions computed", zap.Int("total", table.Total()), zap.Int("resources", table.Resources()))

	out := output
	if dst := cmd.Args().Get(1); len(dst) > 0 {
		if dst, err = b.positionsPath(dst); err != nil {
			return err
		}
		if _, err := os.Stat(dst); err == nil && !cmd.Bool("overwrite") {
			return fmt.Errorf("destination '%s' already exists", dst)
		}
		f, err := os.Create(dst)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", dst, err)
		}
		defer f.Close()
		out = f
		b.log.Info("Writing positions", zap.String("file", dst))
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(table.All())
}

// positionsPath names output file with configured template when dst is a
// directory.
func (b *book) positionsPath(dst string) (string, error) {
	dst, err := filepath.Abs(dst)
	if err != nil {
		return "", err
	}
	if fi, err := os.Stat(dst); err != nil || !fi.IsDir() {
		return dst, nil
	}
	name, err := expandName(config.PositionsNameTemplateFieldName, b.env.Cfg.Output.PositionsNameTemplate, b.src, b.pub)
	if err != nil {
		return "", fmt.Errorf("unable to name positions file: %w", err)
	}
	return filepath.Join(dst, name), nil
}

// Locate computes locator for a position in reading order the same way a
// reading session does: signals are fed to tracker and the result is taken
// once debounce delay has passed.
func Locate(ctx context.Context, cmd *cli.Command) error {
	b, err := openBook(ctx, cmd, "locate")
	if err != nil {
		return err
	}
	defer b.Close()

	table, err := b.buildPositions(ctx)
	if err != nil {
		return err
	}

	resource := cmd.Int("resource")
	if href := cmd.String("href"); len(href) > 0 {
		if resource = b.pub.ResourceIndex(href); resource < 0 {
			return fmt.Errorf("resource '%s' is not in reading order", href)
		}
	}
	if resource < 0 || resource >= len(b.pub.ReadingOrder) {
		return fmt.Errorf("resource index %d is out of range [0, %d)", resource, len(b.pub.ReadingOrder))
	}

	tr := navigator.NewTracker(b.pub, table,
		navigator.WithDebounce(b.env.Cfg.Navigator.Debounce()),
		navigator.WithLogger(b.log))
	defer tr.Close()

	updates, cancel := tr.Subscribe()
	defer cancel()

	tr.OnResourceLoaded(resource)
	tr.OnScroll(cmd.Float("progression"))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case loc, ok := <-updates:
		if !ok {
			return navigator.ErrClosed
		}
		return writeLocator(output, loc)
	}
}

func writeLocator(w io.Writer, loc publication.Locator) error {
	data, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
