package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	taskdomain "github.com/tigfin/tigfin/internal/task/domain"
)

// @Summary      Create Task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        request body taskdomain.CreateTaskRequest true "Create Task Request"
// @Success      200  {object}  taskdomain.Task
// @Router       /tasks [post]
func (s *Server) CreateTask(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req taskdomain.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taskSvc.Create(c.Request.Context(), userID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Tasks
// @Description  List tasks with optional status, priority and category filters
// @Tags         tasks
// @Produce      json
// @Param        status    query  string  false  "Status"
// @Param        priority  query  string  false  "Priority"
// @Param        category  query  string  false  "Category"
// @Param        sortBy    query  string  false  "Sort column"
// @Success      200  {object}  []taskdomain.Task
// @Router       /tasks [get]
func (s *Server) ListTasks(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	resp, err := s.taskSvc.List(c.Request.Context(), userID, taskdomain.ListTasksRequest{
		Status:   strings.TrimSpace(c.Query("status")),
		Priority: strings.TrimSpace(c.Query("priority")),
		Category: strings.TrimSpace(c.Query("category")),
		SortBy:   strings.TrimSpace(c.Query("sortBy")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Task
// @Tags         tasks
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  taskdomain.Task
// @Router       /tasks/{id} [get]
func (s *Server) GetTaskByID(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := s.taskSvc.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "Task ID"
// @Param        request  body  taskdomain.UpdateTaskRequest  true  "Update Task Request"
// @Success      200  {object}  taskdomain.Task
// @Router       /tasks/{id} [patch]
func (s *Server) UpdateTask(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req taskdomain.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taskSvc.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Task
// @Tags         tasks
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (s *Server) DeleteTask(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.taskSvc.Delete(c.Request.Context(), userID, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
