package handler

import (
	"net/http"

	"coursehub/internal/domain"
	"coursehub/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users     service.UserService
	carts     service.CartService
	wishlists service.WishlistService
	uploads   Uploader
}

func NewUserHandler(users service.UserService, carts service.CartService, wishlists service.WishlistService, uploads Uploader) *UserHandler {
	return &UserHandler{users: users, carts: carts, wishlists: wishlists, uploads: uploads}
}

// GET /user/usercourses
func (h *UserHandler) UserCourses(c *gin.Context) {
	courses, err := h.users.ListUserCourses(c.Request.Context(), identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GET /user/profile
func (h *UserHandler) Profile(c *gin.Context) {
	profile, err := h.users.GetProfile(c.Request.Context(), identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// PUT /user/updateprofile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	image, err := optionalUpload(c, h.uploads, "profile")
	if err != nil {
		respondError(c, err)
		return
	}
	upd := domain.ProfileUpdate{
		Username: c.PostForm("username"),
		GitHub:   c.PostForm("github"),
		LinkedIn: c.PostForm("linkedin"),
	}
	profile, err := h.users.UpdateProfile(c.Request.Context(), identity(c), upd, image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": profile})
}

type progressRequest struct {
	Progress *int `json:"progress"`
}

// PUT /user/update-progress/:courseId
func (h *UserHandler) UpdateProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Progress == nil {
		badRequest(c, "progress must be an integer between 0 and 100")
		return
	}
	progress, err := h.users.UpdateProgress(c.Request.Context(), identity(c), c.Param("courseId"), *req.Progress)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Progress updated successfully", "progress": progress})
}

type cartRequest struct {
	Cart    *[]domain.CartItemInput `json:"cart"`
	Version *int                    `json:"version"`
}

// PUT /user/update-cart
func (h *UserHandler) UpdateCart(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Cart == nil {
		badRequest(c, "Cart must be an array of course items")
		return
	}
	cart, err := h.carts.UpsertCart(c.Request.Context(), identity(c), *req.Cart, req.Version)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated successfully", "cart": cart})
}

// GET /user/update-cart
func (h *UserHandler) GetCart(c *gin.Context) {
	cart, err := h.carts.GetCart(c.Request.Context(), identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// GET /user/wishlist
func (h *UserHandler) Wishlist(c *gin.Context) {
	list, err := h.wishlists.GetWishlist(c.Request.Context(), identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": list})
}

// PUT /user/wishlist/:courseId
func (h *UserHandler) AddToWishlist(c *gin.Context) {
	list, err := h.wishlists.AddToWishlist(c.Request.Context(), identity(c), c.Param("courseId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course added to wishlist", "wishlist": list})
}

// DELETE /user/wishlist/:courseId
func (h *UserHandler) RemoveFromWishlist(c *gin.Context) {
	list, err := h.wishlists.RemoveFromWishlist(c.Request.Context(), identity(c), c.Param("courseId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course removed from wishlist", "wishlist": list})
}
