package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hbnb/internal/handler"
	"github.com/iliyamo/hbnb/internal/middleware"
)

// RegisterAPI mounts the resource routes under /api/v1.  Reads are public;
// writes require a bearer token, and amenity writes plus /admin require the
// admin claim.  Auth middleware is attached per route so that unknown paths
// under /api/v1 still answer 404.  IdentifyBearer runs before the limiter so
// authenticated callers get their own bucket.
func RegisterAPI(e *echo.Echo, d Deps) {
	api := e.Group("/api/v1",
		middleware.IdentifyBearer(d.JWTSecret),
		middleware.NewTokenBucket(d.RateLimit, d.Redis),
		middleware.NewRedisCache(d.Cache, d.Redis),
	)
	auth := middleware.JWTAuth(d.JWTSecret)
	admin := middleware.RequireAdmin()

	// ---- Auth ----
	a := handler.NewAuthHandler(d.Facade, d.JWTSecret, d.AccessTTL)
	api.POST("/auth/login", a.Login, middleware.NewTokenBucket(d.LoginRateLimit, d.Redis))
	api.GET("/auth/me", a.Me, auth)

	// ---- Users ----
	u := handler.NewUserHandler(d.Facade)
	api.POST("/users", u.Create)
	api.GET("/users", u.List)
	api.GET("/users/:id", u.Get)
	api.PUT("/users/:id", u.Update, auth)

	// ---- Places ----
	p := handler.NewPlaceHandler(d.Facade)
	api.POST("/places", p.Create, auth)
	api.GET("/places", p.List)
	api.GET("/places/:id", p.Get)
	api.PUT("/places/:id", p.Update, auth)
	api.DELETE("/places/:id", p.Delete, auth)
	api.POST("/places/:id/amenities", p.AddAmenities, auth)
	api.GET("/places/:id/reviews", p.Reviews)

	// ---- Reviews ----
	r := handler.NewReviewHandler(d.Facade)
	api.POST("/reviews", r.Create, auth)
	api.GET("/reviews", r.List)
	api.GET("/reviews/:id", r.Get)
	api.PUT("/reviews/:id", r.Update, auth)
	api.DELETE("/reviews/:id", r.Delete, auth)

	// ---- Amenities ----
	am := handler.NewAmenityHandler(d.Facade)
	api.POST("/amenities", am.Create, auth, admin)
	api.GET("/amenities", am.List)
	api.GET("/amenities/:id", am.Get)
	api.PUT("/amenities/:id", am.Update, auth, admin)

	// ---- Admin ----
	ad := handler.NewAdminHandler(d.Facade)
	g := api.Group("/admin", auth, admin)
	g.POST("/users", ad.CreateUser)
	g.PUT("/users/:id", ad.UpdateUser)
	g.DELETE("/users/:id", ad.DeleteUser)
}
