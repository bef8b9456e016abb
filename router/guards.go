package router

import (
	"net/http"

	"coursehub/controllers"
	"coursehub/models"

	"github.com/gin-gonic/gin"
)

// guard roda check sobre o usuário carregado por AuthRequired; mensagem vazia libera.
func guard(check func(models.User) (string, int)) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := controllers.GetUserLogged(c)
		if !ok {
			controllers.RespondError(c, "unauthorized", http.StatusUnauthorized)
			c.Abort()
			return
		}
		if msg, code := check(user); msg != "" {
			controllers.RespondError(c, msg, code)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Authorizer keeps blocked accounts out of the API.
func Authorizer() gin.HandlerFunc {
	return guard(func(user models.User) (string, int) {
		if user.IsBlocked() {
			return "account blocked", http.StatusForbidden
		}
		return "", 0
	})
}

// Adminizer libera o catálogo só para staff.
func Adminizer() gin.HandlerFunc {
	return guard(func(user models.User) (string, int) {
		if !user.Admin {
			return "admin required", http.StatusForbidden
		}
		return "", 0
	})
}
