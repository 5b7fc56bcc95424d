package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ===== META HANDLERS =====

type metaFormListItem struct {
	FormType string `json:"formType"`
	Fields   int    `json:"fields"`
}

// GET /api/meta
func MetaListHandler(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		types := app.Provider.Forms(ctx)
		out := make([]metaFormListItem, 0, len(types))
		for _, t := range types {
			f, err := app.Provider.GetForm(ctx, t)
			if err != nil {
				// каталог могли перезагрузить между вызовами
				continue
			}
			out = append(out, metaFormListItem{FormType: t, Fields: len(f.Fields)})
		}
		c.JSON(http.StatusOK, out)
	}
}

// GET /api/meta/:formType
func MetaFormHandler(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := app.Provider.GetForm(c.Request.Context(), c.Param("formType"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, f)
	}
}
