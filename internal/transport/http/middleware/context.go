package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ragbridge/internal/config"
	"ragbridge/internal/logger"
)

const (
	ContextDBKey     = "db"
	ContextLoggerKey = "logger"
	ContextConfigKey = "config"
)

// Decorate attaches the shared database handle, logger and resolved config
// to every request context. The three values are read-only for the lifetime
// of the process; handlers registered after this middleware can always rely
// on them being present.
func Decorate(db *gorm.DB, log *logger.Logger, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextDBKey, db)
		c.Set(ContextLoggerKey, log)
		c.Set(ContextConfigKey, cfg)
		c.Next()
	}
}

func DB(c *gin.Context) *gorm.DB {
	if v, ok := c.Get(ContextDBKey); ok {
		if db, ok := v.(*gorm.DB); ok {
			return db
		}
	}
	return nil
}

func Log(c *gin.Context) *logger.Logger {
	if v, ok := c.Get(ContextLoggerKey); ok {
		if log, ok := v.(*logger.Logger); ok {
			return log
		}
	}
	return logger.Default()
}

func Conf(c *gin.Context) *config.Config {
	if v, ok := c.Get(ContextConfigKey); ok {
		if cfg, ok := v.(*config.Config); ok {
			return cfg
		}
	}
	return nil
}
