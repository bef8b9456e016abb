package controllers

import (
	"coursehub/config"
	"coursehub/events"
	"coursehub/mailer"
	"coursehub/membership"
	"coursehub/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const servicesKey = "services"

// Services agrupa as dependências que os handlers usam além do banco.
type Services struct {
	Config      config.Configuration
	Memberships *membership.Service
	Videos      *storage.VideoResolver
	Mailer      mailer.Mailer
	Events      events.Publisher
	Logger      zerolog.Logger
}

// Mesmo padrão do db.SetDBtoContext
func SetServicesToContext(s *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(servicesKey, s)
		c.Next()
	}
}

func ServicesInstance(c *gin.Context) *Services {
	v, ok := c.Get(servicesKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Services)
	return s
}
