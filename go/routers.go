package bdoserver

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var bindingNamesOnce sync.Once

// useWireFieldNames makes binding errors name fields by their json or form key.
func useWireFieldNames() {
	bindingNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return field.Name
		})
	})
}

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Public routes skip bearer authentication.
	Public bool
}

// ApiHandleFunctions groups the API sections served by the router.
type ApiHandleFunctions struct {
	// Auth runs before every non-public route.
	Auth gin.HandlerFunc

	RootAPI    RootAPI
	ReportsAPI ReportsAPI
	DashAPI    DashAPI
	UsersAPI   UsersAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing engine. Middleware must
// be registered on router before calling it.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	useWireFieldNames()
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{route.HandlerFunc}
		if !route.Public && handleFunctions.Auth != nil {
			handlers = []gin.HandlerFunc{handleFunctions.Auth, route.HandlerFunc}
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, handlers...)
		case http.MethodPost:
			router.POST(route.Pattern, handlers...)
		case http.MethodPut:
			router.PUT(route.Pattern, handlers...)
		case http.MethodPatch:
			router.PATCH(route.Pattern, handlers...)
		case http.MethodDelete:
			router.DELETE(route.Pattern, handlers...)
		}
	}
	return router
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"Root",
			http.MethodGet,
			"/",
			handleFunctions.RootAPI.Root,
			true,
		},
		{
			"LoginUser",
			http.MethodPost,
			"/users/login",
			handleFunctions.UsersAPI.Login,
			true,
		},
		{
			"LogoutUser",
			http.MethodPost,
			"/users/logout",
			handleFunctions.UsersAPI.Logout,
			false,
		},
		{
			"GetCurrentUser",
			http.MethodGet,
			"/users/me",
			handleFunctions.UsersAPI.Me,
			false,
		},
		{
			"ListUsers",
			http.MethodGet,
			"/users/all",
			handleFunctions.UsersAPI.List,
			false,
		},
		{
			"CreateUser",
			http.MethodPost,
			"/users/",
			handleFunctions.UsersAPI.CreateUser,
			false,
		},
		{
			"ListReports",
			http.MethodGet,
			"/reports/",
			handleFunctions.ReportsAPI.ListReports,
			false,
		},
		{
			"CreateReport",
			http.MethodPost,
			"/reports/",
			handleFunctions.ReportsAPI.CreateReport,
			false,
		},
		{
			"UpdateReportStatus",
			http.MethodPut,
			"/reports/",
			handleFunctions.ReportsAPI.UpdateReportStatus,
			false,
		},
		{
			"GetReportCounts",
			http.MethodGet,
			"/dash/",
			handleFunctions.DashAPI.GetReportCounts,
			false,
		},
		{
			"GetAverageCompletionTimes",
			http.MethodGet,
			"/dash/average-completion-times",
			handleFunctions.DashAPI.GetAverageCompletionTimes,
			false,
		},
		{
			"GetStatusPercentages",
			http.MethodGet,
			"/dash/status-percentages",
			handleFunctions.DashAPI.GetStatusPercentages,
			false,
		},
	}
}
