package fetch

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// SyncDir downloads every file of the flat remote directory |dirURL| to its
// mirror path. Sub-directories (trailing-slash entries) are not recursed:
// the directories synchronized by this tool are known to be flat, and any
// recursion is the caller's explicit responsibility. Every entry is
// attempted regardless of earlier failures; the returned error aggregates
// the failed entries, and is nil only if every file fetched.
func (c *Client) SyncDir(ctx context.Context, dirURL string) error {
	var entries, err = c.List(ctx, dirURL)
	if err != nil {
		return errors.WithMessagef(err, "listing %s", dirURL)
	}

	var files, failed int
	for _, entry := range entries {
		if strings.HasSuffix(entry, "/") {
			continue // Sub-directory.
		}
		files++

		if err := c.File(ctx, entry, ""); err != nil {
			log.WithFields(log.Fields{"err": err, "url": entry}).Warn("failed to fetch file")
			failed++
		}
	}

	log.WithFields(log.Fields{"dir": dirURL, "files": files, "failed": failed}).
		Info("synchronized directory")

	if failed != 0 {
		return errors.Errorf("%d of %d files of %s failed to fetch", failed, files, dirURL)
	}
	return nil
}
