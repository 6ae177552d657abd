package devbackend

import (
	"github.com/gin-gonic/gin"
)

func NewRouter(store *Store) *gin.Engine {
	r := gin.Default()

	h := NewHandler(store)

	api := r.Group("/api")
	{
		api.GET("/attendance", h.ListAttendance)
		api.GET("/users", h.ListUsers)
		api.GET("/users/pending", h.Pending)
		api.POST("/users", h.CreateUser)
		api.DELETE("/users/:uid", h.DeleteUser)
		api.POST("/scan", h.Scan)
	}

	return r
}
