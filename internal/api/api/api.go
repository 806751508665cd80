package api

import (
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"c2creg/cmd/middleware"
	"c2creg/internal/service"
)

type Routers struct {
	Service service.Service
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())
	apiGroup := app.Group("/api")

	apiGroup.POST("/register", r.Service.Register)
	apiGroup.GET("/registrations", r.Service.GetAllRegistrations)
	apiGroup.GET("/registrations/:ticketid", r.Service.Lookup)
	apiGroup.POST("/registrations/:ticketid/reregister", r.Service.Reregister)

	return app
}
