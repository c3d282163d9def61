package watch

import (
	"context"

	"github.com/jadeaffenjaeger/rdclipper/internal/debrid"
	"github.com/jadeaffenjaeger/rdclipper/internal/logctx"
)

// Unrestrictor converts hoster links into direct-download links. It serves
// both directly-pasted hoster links and the file links of finished torrents.
type Unrestrictor struct {
	client debrid.Client
}

func NewUnrestrictor(client debrid.Client) *Unrestrictor {
	return &Unrestrictor{client: client}
}

// Convert returns the direct-download link for a hoster link. The boolean is
// false when the service fails or returns no download field; the failure is
// logged and the link is simply not produced. No retries.
func (u *Unrestrictor) Convert(ctx context.Context, link string) (string, bool) {
	logger := logctx.LoggerFromContext(ctx)

	dl, err := u.client.UnrestrictLink(ctx, link)
	if err != nil {
		logger.ErrorContext(ctx, "failed to unrestrict link", "link", link, "err", err)

		return "", false
	}

	if dl.Download == "" {
		logger.ErrorContext(ctx, "no download link in unrestrict response", "link", link, "host", dl.Host)

		return "", false
	}

	logger.InfoContext(ctx, "collected download link", "download", dl.Download, "host", dl.Host)

	return dl.Download, true
}
