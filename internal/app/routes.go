package app

import (
	"net/http"

	"github.com/markdave123-py/SpiderCare/internal/api/handlers"
	middleware "github.com/markdave123-py/SpiderCare/internal/api/middlewares"
	"github.com/markdave123-py/SpiderCare/internal/api/router"
	"github.com/markdave123-py/SpiderCare/internal/core"
	"github.com/markdave123-py/SpiderCare/internal/services"
)

// staticPattern matches every path outside /api/ so unknown API routes
// still answer 404.
const staticPattern = `^/((?:[^a].*|a[^p].*|ap[^i].*|api[^/].*|a|ap|api)?)$`

type routeDeps struct {
	auth    *services.AuthService
	chat    *services.ChatService
	users   *services.UserService
	store   core.DbClient
	static  *handlers.StaticHandler
	limiter *middleware.RateLimiter
}

// newDispatcher builds the ordered route table. Order matters: exact
// /api/history/search precedes the id pattern and the static catch-all
// comes last.
func newDispatcher(d routeDeps) *router.Router {
	authH := handlers.NewAuthHandler(d.auth)
	chatH := handlers.NewChatHandler(d.chat)
	userH := handlers.NewUserHandler(d.users)
	healthH := handlers.NewHealthHandler(d.store)

	requireAuth := middleware.RequireAuth(d.auth)
	optionalAuth := middleware.OptionalAuth(d.auth)
	limit := d.limiter.Middleware()

	return router.New(
		router.Exact("/api/auth/register", router.Methods{http.MethodPost: authH.Register}, limit),
		router.Exact("/api/auth/login", router.Methods{http.MethodPost: authH.Login}, limit),
		router.Exact("/api/auth/logout", router.Methods{http.MethodPost: authH.Logout}, requireAuth),

		router.Exact("/api/greeting", router.Methods{http.MethodGet: chatH.Greeting}),
		router.Exact("/api/chat", router.Methods{http.MethodPost: chatH.Chat}, optionalAuth),
		router.Exact("/api/health", router.Methods{http.MethodGet: healthH.Health}),

		router.Exact("/api/user/settings", router.Methods{
			http.MethodGet: userH.GetSettings,
			http.MethodPut: userH.UpdateSettings,
		}, requireAuth),
		router.Exact("/api/user/change-password", router.Methods{http.MethodPost: userH.ChangePassword}, requireAuth),
		router.Exact("/api/user/delete-account", router.Methods{http.MethodDelete: userH.DeleteAccount}, requireAuth),

		router.Exact("/api/history", router.Methods{http.MethodGet: chatH.ListHistory}, requireAuth),
		router.Exact("/api/history/search", router.Methods{http.MethodGet: chatH.SearchHistory}, requireAuth),
		router.Pattern(`^/api/history/([a-zA-Z0-9-]+)$`, router.Methods{
			http.MethodGet:    chatH.GetConversation,
			http.MethodDelete: chatH.DeleteConversation,
		}, requireAuth),

		router.Pattern(staticPattern, router.Methods{http.MethodGet: d.static.Serve}),
	)
}
