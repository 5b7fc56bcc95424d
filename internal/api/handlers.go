package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/session
func StateHandler(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, sessionFrom(c).Snapshot(false))
	}
}

type selectFormReq struct {
	FormType string `json:"formType" binding:"required"`
}

// PUT /api/session/form-type
func SelectFormHandler(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req selectFormReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		sess := sessionFrom(c)
		if err := sess.SelectFormType(c.Request.Context(), req.FormType); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, sess.Snapshot(false))
	}
}

// PATCH /api/session/values
// Каждое поле проверяется так же, как при вводе в браузере; ошибки попадают в state.errors.
func SetValuesHandler(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var obj map[string]any
		if err := c.ShouldBindJSON(&obj); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		values, ferrs := toRawValues(obj)
		if len(ferrs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"errors": ferrs})
			return
		}
		sess := sessionFrom(c)
		if err := sess.SetValues(values); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, sess.Snapshot(false))
	}
}

// POST /api/session/submit
// Тело необязательно: если передано — значения применяются перед отправкой.
func SubmitHandler(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		if c.Request.ContentLength != 0 {
			var obj map[string]any
			if err := c.ShouldBindJSON(&obj); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
				return
			}
			values, ferrs := toRawValues(obj)
			if len(ferrs) > 0 {
				c.JSON(http.StatusBadRequest, gin.H{"errors": ferrs})
				return
			}
			if err := sess.SetValues(values); err != nil {
				writeError(c, err)
				return
			}
		}

		res, err := sess.Submit()
		if err != nil {
			writeError(c, err)
			return
		}
		status := http.StatusCreated
		if res.Updated {
			status = http.StatusOK
		}
		c.JSON(status, res)
	}
}

// POST /api/session/cancel
func CancelHandler(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		sess.CancelEdit()
		c.JSON(http.StatusOK, sess.Snapshot(false))
	}
}

// POST /api/session/entries/:index/edit
func EditHandler(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		idx, ok := parseIndex(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index"})
			return
		}
		sess := sessionFrom(c)
		if err := sess.Edit(c.Request.Context(), idx); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, sess.Snapshot(false))
	}
}

// DELETE /api/session/entries/:index
func DeleteHandler(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		idx, ok := parseIndex(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index"})
			return
		}
		sess := sessionFrom(c)
		if err := sess.Delete(idx); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, sess.Snapshot(false))
	}
}
