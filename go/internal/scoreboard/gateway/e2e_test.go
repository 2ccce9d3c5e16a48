//go:build e2e

package gateway

import (
	"context"
	"flag"
	"log"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/require"
)

var withChromeDP = flag.String("with-chromedp", "", "The url of the remote debugging port")

func browserContext(t *testing.T) context.Context {
	t.Helper()
	if *withChromeDP == "" {
		t.Skip("--with-chromedp not set")
	}

	ctx, cancel := chromedp.NewRemoteAllocator(t.Context(), *withChromeDP)
	t.Cleanup(cancel)
	ctx, cancel = chromedp.NewContext(ctx,
		chromedp.WithErrorf(log.Printf),
		chromedp.WithLogf(log.Printf),
	)
	t.Cleanup(cancel)
	ctx, cancel = context.WithTimeout(ctx, 60*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func waitForText(selector, text string) chromedp.Action {
	return chromedp.Poll(
		`document.querySelector("`+selector+`") && document.querySelector("`+selector+`").innerText.includes("`+text+`")`,
		nil,
		chromedp.WithPollingTimeout(10*time.Second),
	)
}

func TestE2E_LiveScoreboard(t *testing.T) {
	ctx := browserContext(t)
	g := startGateway(t)

	var title string
	require.NoError(t, chromedp.Run(ctx,
		chromedp.Navigate(g.server.URL+"/"),
		chromedp.WaitVisible("#board", chromedp.ByID),
		waitForText("#board", "178/4"),
		waitForText("#board", "Target: 166"),
		waitForText("#clock", "7:30:00 PM"),
		chromedp.Title(&title),
	))
	require.Equal(t, "T20 International Match", title)

	// a new document is pushed without a reload
	g.mem.Set([]byte(`{"matchTitle": "Final", "battingTeam": {"name": "England", "score": 101, "wickets": 2}}`))
	require.NoError(t, g.feed.Reload(g.ctx))
	require.NoError(t, chromedp.Run(ctx,
		waitForText("#board", "England"),
		waitForText("#board", "101/2"),
	))

	require.NoError(t, g.tickClock.BlockUntilContext(g.ctx, 1))
	g.tickClock.Advance(time.Second)
	require.NoError(t, chromedp.Run(ctx, waitForText("#clock", "7:30:01 PM")))
}
