package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dynform/internal/provider"
)

type reloadReq struct {
	FormsDir string `json:"forms_dir"` // директория с *.yaml / *.form
}

// POST /api/admin/reload
func AdminReloadHandler(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reloadReq
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
				return
			}
		}

		dir := strings.TrimSpace(req.FormsDir)
		if dir == "" {
			dir = app.FormsDir
		}

		// 1) читаем каталог
		catalog, err := provider.Load(dir)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "forms load error", "details": err.Error()})
			return
		}

		// 2) линтер + атомарная замена
		if issues, err := app.Provider.Reload(catalog); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":    err.Error(),
				"issues":   issues,
				"hint":     "fix form definitions and retry",
				"formsDir": dir,
			})
			return
		}

		app.Log.Infow("form catalog reloaded", "formsDir", dir, "forms", catalog.Len())
		c.JSON(http.StatusOK, gin.H{
			"ok":       true,
			"formsDir": dir,
			"forms":    catalog.Len(),
		})
	}
}
