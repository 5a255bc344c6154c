package cli

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/quiltchat/quilt/internal/common"
	"github.com/quiltchat/quilt/internal/netx"
)

// getSecret is an indirection used to facilitate testing. It points to the
// interactive input helper and can be swapped in tests.
var getSecret = GetSecret

// Login prompts for an access token and persists it in the local session.
//
// The token is issued by the web app ("Settings > API access") and pasted
// here; it is read without echo and the buffer is wiped after saving. When
// the token is a JWT the user id is extracted from it, so cached data can be
// scoped to the right account. Connectivity Mode is set from a reachability
// probe: a saved token with an unreachable server still allows offline
// browsing of cached data.
func (a *App) Login(ctx context.Context) error {
	token, err := getSecret("Enter access token", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(token)

	if err := a.session.SaveToken(ctx, strings.TrimSpace(string(token))); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	if netx.IsReachable(ctx, a.config.ServerURL, a.config.RequestTimeout) {
		a.setMode(ModeOnline)
		if err := a.syncer.SyncAll(ctx); err != nil {
			log.Printf("Initial sync failed: %s", err.Error())
		}
	} else {
		log.Printf("Server unavailable, starting in offline mode")
		a.setMode(ModeOffline)
	}

	log.Printf("Login successful")
	return nil
}

// Logout clears the locally stored session. Cached entity data is kept so a
// later login by the same user starts warm; it is keyed by user id and never
// served for a different account.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Clear(ctx); err != nil {
		return err
	}
	a.currentConversation = ""
	log.Printf("Logged out")
	return nil
}
