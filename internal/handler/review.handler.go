package handler

import (
	"net/http"

	"coursehub/internal/domain"
	"coursehub/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviews service.ReviewService
}

func NewReviewHandler(reviews service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// POST /review/create
func (h *ReviewHandler) Create(c *gin.Context) {
	var req domain.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid review payload")
		return
	}
	review, err := h.reviews.CreateReview(c.Request.Context(), identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review submitted successfully", "review": review})
}

// GET /review/course/:courseId
func (h *ReviewHandler) ForCourse(c *gin.Context) {
	reviews, err := h.reviews.ListCourseReviews(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// DELETE /review/:reviewId
func (h *ReviewHandler) Delete(c *gin.Context) {
	if err := h.reviews.DeleteReview(c.Request.Context(), identity(c), c.Param("reviewId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
