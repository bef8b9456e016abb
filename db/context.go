package db

import (
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

const contextKey = "coursehub.db"

// SetDBtoContext deixa a conexão disponível para os handlers via DBInstance.
func SetDBtoContext(conn *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKey, conn)
		c.Next()
	}
}

// DBInstance returns nil when the middleware was not installed; handlers answer 500.
func DBInstance(c *gin.Context) *gorm.DB {
	if v, ok := c.Get(contextKey); ok {
		if conn, ok := v.(*gorm.DB); ok {
			return conn
		}
	}
	return nil
}
