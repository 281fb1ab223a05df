package handler

import (
	"net/http"

	"coursehub/internal/domain"
	"coursehub/internal/service"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	courses service.CourseService
	uploads Uploader
}

func NewCourseHandler(courses service.CourseService, uploads Uploader) *CourseHandler {
	return &CourseHandler{courses: courses, uploads: uploads}
}

func courseInput(c *gin.Context) domain.CourseInput {
	return domain.CourseInput{
		Title:           c.PostForm("title"),
		Description:     c.PostForm("description"),
		Instructor:      c.PostForm("instructor"),
		InstructorPhone: c.PostForm("instructorPhone"),
		Date:            c.PostForm("date"),
		Price:           c.PostForm("price"),
	}
}

// POST /courses/addcourse
func (h *CourseHandler) AddCourse(c *gin.Context) {
	image, err := optionalUpload(c, h.uploads, "image")
	if err != nil {
		respondError(c, err)
		return
	}
	course, err := h.courses.AddCourse(c.Request.Context(), identity(c), courseInput(c), image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course added successfully", "course": course})
}

// GET /courses/admincourses
func (h *CourseHandler) AdminCourses(c *gin.Context) {
	courses, err := h.courses.ListAdminCourses(c.Request.Context(), identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// PUT /courses/updatecourse/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	image, err := optionalUpload(c, h.uploads, "image")
	if err != nil {
		respondError(c, err)
		return
	}
	course, err := h.courses.UpdateCourse(c.Request.Context(), identity(c), c.Param("id"), courseInput(c), image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course updated successfully", "course": course})
}

// DELETE /courses/deletecourse/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	if err := h.courses.DeleteCourse(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted successfully"})
}

// GET /courses/allcourses?search=
func (h *CourseHandler) AllCourses(c *gin.Context) {
	courses, err := h.courses.ListCourses(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GET /courses/samplecourses
func (h *CourseHandler) SampleCourses(c *gin.Context) {
	courses, err := h.courses.SampleCourses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}
