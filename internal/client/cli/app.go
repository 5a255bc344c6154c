package cli

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/quiltchat/quilt/internal/client/api"
	"github.com/quiltchat/quilt/internal/client/config"
	"github.com/quiltchat/quilt/internal/client/services"
	"github.com/quiltchat/quilt/internal/client/session"
	"github.com/quiltchat/quilt/internal/client/store"
	clientsync "github.com/quiltchat/quilt/internal/client/sync"
	"github.com/quiltchat/quilt/internal/logging"
	"github.com/quiltchat/quilt/internal/netx"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config        *config.Config
	store         *store.Store
	session       *session.Manager
	conversations services.ConversationService
	messages      services.MessageService
	projects      services.ProjectService
	assistants    services.AssistantService
	settings      services.SettingsService
	catalog       services.CatalogService
	syncer        *services.Syncer

	// currentConversation is the conversation the chat commands operate on.
	currentConversation string

	Mode   Mode
	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	st, err := store.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	sess := session.NewManager(st.Session)
	apiClient := api.NewHTTPClient(c.ServerURL, c.RequestTimeout, sess)

	// Sync internals report through slog; only warnings and errors reach the
	// terminal so the REPL stays readable.
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))
	rec := clientsync.NewReconciler(st, logger)
	pending := clientsync.NewPendingTracker(st, logger)

	cs := services.NewConversationService(apiClient, st, rec, sess, logger)
	ms := services.NewMessageService(apiClient, st, rec, pending, logger)
	ps := services.NewProjectService(apiClient, st, rec, logger)
	as := services.NewAssistantService(apiClient, st, rec, logger)
	ss := services.NewSettingsService(apiClient, st, rec, sess, logger)
	cat := services.NewCatalogService(apiClient, c.CatalogTTL, logger)

	return &App{
		config:        c,
		store:         st,
		session:       sess,
		conversations: cs,
		messages:      ms,
		projects:      ps,
		assistants:    as,
		settings:      ss,
		catalog:       cat,
		syncer:        services.NewSyncer(cs, ps, as, ss, logger),
		reader:        bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.store.Close()
	a.Root(ctx)
}

func (a *App) isSignedIn() bool {
	return a.session.SignedIn(context.Background())
}

// StartOnlineStatusWatcher probes server reachability on a fixed interval and
// flips Mode accordingly. It returns when ctx is cancelled.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			ok := netx.IsReachable(probeCtx, a.config.ServerURL, 3*time.Second)
			cancel()

			if ok {
				a.setMode(ModeOnline)
			} else {
				a.setMode(ModeOffline)
			}

		case <-ctx.Done():
			return
		}
	}
}
