package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dynform/internal/render"
	"dynform/internal/schema"
)

// Страничные обработчики работают по схеме POST → 303 → GET /.

func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// GET /
func PageHandler(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := sessionFrom(c).Snapshot(true)
		c.HTML(http.StatusOK, "page", render.NewPage(app.Provider.Forms(c.Request.Context()), st))
	}
}

// POST /form-type
func SelectFormPageHandler(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		// ошибка (неизвестный тип) уже превращена в сообщение сессии
		_ = sessionFrom(c).SelectFormType(c.Request.Context(), c.PostForm("formType"))
		redirectHome(c)
	}
}

// POST /submit
func SubmitPageHandler(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		st := sess.Snapshot(false)

		values := make(map[string]string, len(st.Fields))
		for _, f := range st.Fields {
			v := c.PostForm(f.Name)
			// пароль в форму не выводится: пустое значение при редактировании — «не менять»
			if f.Type == schema.TypePassword && v == "" && st.Editing >= 0 {
				continue
			}
			values[f.Name] = v
		}
		if err := sess.SetValues(values); err != nil {
			c.String(statusForError(err), err.Error())
			return
		}
		// ошибки валидации показываются на странице
		_, _ = sess.Submit()
		redirectHome(c)
	}
}

// POST /cancel
func CancelPageHandler(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionFrom(c).CancelEdit()
		redirectHome(c)
	}
}

// POST /entries/:index/edit
func EditPageHandler(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		idx, ok := parseIndex(c)
		if !ok {
			c.String(http.StatusBadRequest, "Invalid index")
			return
		}
		if err := sessionFrom(c).Edit(c.Request.Context(), idx); err != nil {
			c.String(statusForError(err), err.Error())
			return
		}
		redirectHome(c)
	}
}

// POST /entries/:index/delete
func DeletePageHandler(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		idx, ok := parseIndex(c)
		if !ok {
			c.String(http.StatusBadRequest, "Invalid index")
			return
		}
		if err := sessionFrom(c).Delete(idx); err != nil {
			c.String(statusForError(err), err.Error())
			return
		}
		redirectHome(c)
	}
}
