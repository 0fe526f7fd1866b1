package reading

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"epubnav/utils/images"
)

// Cover writes thumbnail of publication cover image.
func Cover(ctx context.Context, cmd *cli.Command) error {
	b, err := openBook(ctx, cmd, "cover")
	if err != nil {
		return err
	}
	defer b.Close()

	link, ok := b.pub.CoverLink()
	if !ok {
		return errors.New("publication has no cover image")
	}
	data, err := b.pub.Read(link.Href)
	if err != nil {
		return fmt.Errorf("unable to read cover image: %w", err)
	}

	cfg := b.env.Cfg.Output.Cover
	img, err := images.Thumbnail(data, link.Type, cfg.Width, cfg.Height)
	if err != nil {
		return fmt.Errorf("unable to prepare cover '%s': %w", link.Href, err)
	}
	buf := new(bytes.Buffer)
	if err := images.Encode(buf, img, cfg.Format, cfg.JPEGQuality); err != nil {
		return err
	}

	dst, err := b.coverPath(cmd.Args().Get(1), cfg.Format)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dst); err == nil && !cmd.Bool("overwrite") {
		return fmt.Errorf("destination '%s' already exists", dst)
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("unable to write cover: %w", err)
	}
	b.log.Info("Cover written",
		zap.String("source", link.Href),
		zap.String("file", dst),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return nil
}

// coverPath names output file after publication when dst is a directory or
// is not given.
func (b *book) coverPath(dst, format string) (string, error) {
	if len(dst) == 0 {
		dst = "."
	}
	dst, err := filepath.Abs(dst)
	if err != nil {
		return "", err
	}
	if fi, err := os.Stat(dst); err != nil || !fi.IsDir() {
		return dst, nil
	}
	base := strings.TrimSuffix(filepath.Base(b.src), filepath.Ext(b.src))
	return filepath.Join(dst, base+".cover"+images.Extension(format)), nil
}
