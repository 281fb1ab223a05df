package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"coursehub/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

// Deps is everything the router needs. Health and UploadsDir are optional.
type Deps struct {
	Auth      service.AuthService
	Courses   service.CourseService
	Users     service.UserService
	Carts     service.CartService
	Wishlists service.WishlistService
	Orders    service.OrderService
	Reviews   service.ReviewService

	Tokens  TokenVerifier
	Uploads Uploader
	Feed    FeedServer
	Health  HealthChecker

	UploadsDir  string
	CORSOrigins []string
	Logger      *slog.Logger

	// HideInternalErrors sends "Server error" instead of the cause on 500s.
	HideInternalErrors bool
}

func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))
	r.Use(cors.New(corsConfig(d.CORSOrigins)))
	if d.HideInternalErrors {
		r.Use(HideInternalErrors())
	}
	r.MaxMultipartMemory = 8 << 20

	if d.UploadsDir != "" {
		r.Static("/uploads", d.UploadsDir)
	}

	r.GET("/health", func(c *gin.Context) {
		if d.Health == nil {
			c.JSON(http.StatusOK, gin.H{"status": "up"})
			return
		}
		stats := d.Health.Health(c.Request.Context())
		if stats["status"] != "up" {
			c.JSON(http.StatusServiceUnavailable, stats)
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	authed := Authenticate(d.Tokens)
	admin := RequireAdmin()

	ah := NewAuthHandler(d.Auth)
	auth := r.Group("/auth")
	auth.POST("/userreg", ah.Register)
	auth.POST("/userlog", ah.Login)

	ch := NewCourseHandler(d.Courses, d.Uploads)
	courses := r.Group("/courses")
	courses.GET("/samplecourses", ch.SampleCourses)
	courses.GET("/allcourses", authed, ch.AllCourses)
	courses.POST("/addcourse", authed, admin, ch.AddCourse)
	courses.GET("/admincourses", authed, admin, ch.AdminCourses)
	courses.PUT("/updatecourse/:id", authed, admin, ch.UpdateCourse)
	courses.DELETE("/deletecourse/:id", authed, admin, ch.DeleteCourse)

	uh := NewUserHandler(d.Users, d.Carts, d.Wishlists, d.Uploads)
	user := r.Group("/user", authed)
	user.GET("/usercourses", uh.UserCourses)
	user.GET("/profile", uh.Profile)
	user.PUT("/updateprofile", uh.UpdateProfile)
	user.PUT("/update-progress/:courseId", uh.UpdateProgress)
	user.GET("/update-cart", uh.GetCart)
	user.PUT("/update-cart", uh.UpdateCart)
	user.GET("/wishlist", uh.Wishlist)
	user.PUT("/wishlist/:courseId", uh.AddToWishlist)
	user.DELETE("/wishlist/:courseId", uh.RemoveFromWishlist)

	ph := NewPaymentHandler(d.Orders, d.Feed)
	pay := r.Group("/payment", authed)
	pay.POST("/initiate-payment", ph.InitiatePayment)
	pay.POST("/verify-payment", ph.VerifyPayment)
	pay.GET("/order-status", ph.OrderStatus)
	pay.GET("/all-orders", admin, ph.AllOrders)
	if d.Feed != nil {
		pay.GET("/ws/orders", admin, ph.OrderFeed)
	}

	rh := NewReviewHandler(d.Reviews)
	review := r.Group("/review")
	review.GET("/course/:courseId", rh.ForCourse)
	review.POST("/create", authed, rh.Create)
	review.DELETE("/:reviewId", authed, rh.Delete)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
