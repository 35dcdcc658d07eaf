package fetch

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/desihub/desida/metrics"
)

func joinLocal(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

// File downloads |src| to |dest|, or to the mirror of |src| under the
// Client's Root if |dest| is empty. An existing destination is authoritative:
// the call succeeds immediately with zero network requests. Otherwise the
// body is streamed to a temporary sibling and renamed into place only once
// fully written, so a partial file is never observable at the final path.
func (c *Client) File(ctx context.Context, src, dest string) error {
	var err error
	if dest == "" {
		if dest, err = c.LocalPath(src); err != nil {
			return err
		}
	}

	if _, err = c.Fs.Stat(dest); err == nil {
		log.WithField("path", dest).Debug("destination exists; skipping download")
		metrics.FetchSkippedTotal.Inc()
		return nil
	}

	if err = c.Fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		metrics.FetchFilesTotal.WithLabelValues(metrics.Fail).Inc()
		return err
	}

	body, err := c.get(ctx, src)
	if err != nil {
		metrics.FetchFilesTotal.WithLabelValues(metrics.Fail).Inc()
		return err
	}
	defer body.Close()

	f, err := afero.TempFile(c.Fs, filepath.Dir(dest), ".partial-"+filepath.Base(dest))
	if err != nil {
		metrics.FetchFilesTotal.WithLabelValues(metrics.Fail).Inc()
		return err
	}

	defer func(name string) {
		if rmErr := c.Fs.Remove(name); rmErr != nil && !os.IsNotExist(rmErr) {
			log.WithFields(log.Fields{"err": rmErr, "path": dest}).
				Warn("failed to cleanup temp file")
		}
	}(f.Name())

	n, err := io.Copy(f, body)

	if err == nil {
		err = f.Close()
	} else {
		f.Close()
	}
	if err == nil {
		err = c.Fs.Rename(f.Name(), dest)
	}
	if err != nil {
		metrics.FetchFilesTotal.WithLabelValues(metrics.Fail).Inc()
		return &TransferError{URL: src, Err: err}
	}

	metrics.FetchBytesTotal.Add(float64(n))
	metrics.FetchFilesTotal.WithLabelValues(metrics.Ok).Inc()

	log.WithFields(log.Fields{
		"file": path.Base(src),
		"size": humanize.Bytes(uint64(n)),
	}).Info("fetched file")
	return nil
}
