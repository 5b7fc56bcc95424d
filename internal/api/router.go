// api/router.go
package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dynform/internal/provider"
	"dynform/internal/render"
	"dynform/internal/session"
)

// App — зависимости HTTP-слоя.
type App struct {
	Provider *provider.Static
	Sessions *session.Manager
	FormsDir string // откуда перечитывать формы при reload
	Log      *zap.SugaredLogger
}

func NewRouter(app *App) *gin.Engine {
	if app.Log == nil {
		app.Log = zap.NewNop().Sugar()
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(app.Log))
	r.SetHTMLTemplate(render.MustTemplates())

	// meta — без сессии
	r.GET("/api/meta", MetaListHandler(app))
	r.GET("/api/meta/:formType", MetaFormHandler(app))
	r.POST("/api/admin/reload", AdminReloadHandler(app))

	// HTML
	page := r.Group("/", SessionMiddleware(app))
	{
		page.GET("/", PageHandler(app))
		page.POST("/form-type", SelectFormPageHandler(app))
		page.POST("/submit", SubmitPageHandler(app))
		page.POST("/cancel", CancelPageHandler(app))
		page.POST("/entries/:index/edit", EditPageHandler(app))
		page.POST("/entries/:index/delete", DeletePageHandler(app))
	}

	// JSON
	apiGroup := r.Group("/api/session", SessionMiddleware(app))
	{
		apiGroup.GET("", StateHandler(app))
		apiGroup.PUT("/form-type", SelectFormHandler(app))
		apiGroup.PATCH("/values", SetValuesHandler(app))
		apiGroup.POST("/submit", SubmitHandler(app))
		apiGroup.POST("/cancel", CancelHandler(app))
		apiGroup.POST("/entries/:index/edit", EditHandler(app))
		apiGroup.DELETE("/entries/:index", DeleteHandler(app))
	}

	return r
}
