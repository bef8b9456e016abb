package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RespondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{"error": msg})
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(200, payload)
}

// render acrescenta o usuário logado e os flashes pendentes ao contexto do template.
func render(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if user, ok := GetUserLogged(c); ok {
		data["user"] = user
	}
	data["flashes"] = popFlashes(c)
	c.HTML(code, name, data)
}

func renderError(c *gin.Context, code int, msg string) {
	c.String(code, msg)
}

func notFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, "404 page not found")
}
