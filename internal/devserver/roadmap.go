package devserver

import (
  "errors"
  "net/http"
  "strings"
  "time"
  "github.com/gin-gonic/gin"
  "gorm.io/gorm"
  "github.com/yungbote/roadmap-client/internal/types"
)

func (s *Server) getRoadmap(c *gin.Context) {
  record, err := s.store.GetRoadmap(c.Request.Context(), currentUserID(c))
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      c.JSON(http.StatusNotFound, gin.H{"message": "No roadmap found"})
      return
    }
    s.log.Error("Failed to load roadmap", "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load roadmap"})
    return
  }
  roadmap, err := record.Decode()
  if err != nil {
    s.log.Error("Corrupt roadmap document", "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load roadmap"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"data": roadmap})
}

func (s *Server) getCurrentWeek(c *gin.Context) {
  record, err := s.store.GetRoadmap(c.Request.Context(), currentUserID(c))
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      c.JSON(http.StatusNotFound, gin.H{"message": "No roadmap found"})
      return
    }
    s.log.Error("Failed to load roadmap", "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load roadmap"})
    return
  }
  roadmap, err := record.Decode()
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load roadmap"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"data": currentWeekFor(roadmap, record.CreatedAt, time.Now())})
}

func (s *Server) createRoadmap(c *gin.Context) {
  var req struct {
    TargetRole string `json:"targetRole"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
    return
  }
  req.TargetRole = strings.TrimSpace(req.TargetRole)
  if req.TargetRole == "" {
    c.JSON(http.StatusBadRequest, gin.H{"message": "Target role is required"})
    return
  }

  userID := currentUserID(c)
  record, err := s.store.GetUserByID(c.Request.Context(), userID)
  if err != nil {
    c.JSON(http.StatusUnauthorized, gin.H{"message": "unknown user"})
    return
  }
  user := record.ToUser()
  if len(user.Skills) == 0 {
    c.JSON(http.StatusBadRequest, gin.H{"message": "Add at least one skill to your profile before generating a roadmap"})
    return
  }
  if _, err := s.store.GetRoadmap(c.Request.Context(), userID); err == nil {
    c.JSON(http.StatusBadRequest, gin.H{"message": "Roadmap already exists"})
    return
  }

  roadmap := buildRoadmap(user, req.TargetRole, time.Now())
  if _, err := s.store.SaveRoadmap(c.Request.Context(), userID, roadmap); err != nil {
    s.log.Error("Failed to save roadmap", "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create roadmap"})
    return
  }

  record.TargetRole = req.TargetRole
  if err := s.store.UpdateUser(c.Request.Context(), record); err != nil {
    s.log.Warn("Failed to persist target role on user", "error", err)
  }
  c.JSON(http.StatusCreated, gin.H{"data": roadmap})
}

func (s *Server) updateTask(c *gin.Context) {
  var req struct {
    Completed *bool `json:"completed"`
  }
  if err := c.ShouldBindJSON(&req); err != nil || req.Completed == nil {
    c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
    return
  }
  weekID := c.Param("weekId")
  taskID := c.Param("taskId")

  userID := currentUserID(c)
  record, err := s.store.GetRoadmap(c.Request.Context(), userID)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      c.JSON(http.StatusNotFound, gin.H{"message": "No roadmap found"})
      return
    }
    c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load roadmap"})
    return
  }
  roadmap, err := record.Decode()
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load roadmap"})
    return
  }

  task := roadmap.Task(weekID, taskID)
  if task == nil {
    c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
    return
  }
  task.Completed = *req.Completed
  recompute(roadmap)
  roadmap.UpdatedAt = time.Now()

  if _, err := s.store.SaveRoadmap(c.Request.Context(), userID, roadmap); err != nil {
    s.log.Error("Failed to save roadmap", "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update task"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"data": roadmap})
}

func (s *Server) deleteRoadmap(c *gin.Context) {
  if err := s.store.DeleteRoadmap(c.Request.Context(), currentUserID(c)); err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      c.JSON(http.StatusNotFound, gin.H{"message": "No roadmap found"})
      return
    }
    s.log.Error("Failed to delete roadmap", "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete roadmap"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"data": nil})
}

func (s *Server) updateProfile(c *gin.Context) {
  var req struct {
    Name                   string        `json:"name"`
    TargetRole             string        `json:"targetRole"`
    ExperienceLevel        string        `json:"experienceLevel"`
    WeeklyTimeAvailability int           `json:"weeklyTimeAvailability"`
    Skills                 []types.Skill `json:"skills"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
    return
  }
  req.Name = strings.TrimSpace(req.Name)
  if req.Name == "" {
    c.JSON(http.StatusBadRequest, gin.H{"message": "Name is required"})
    return
  }
  if req.WeeklyTimeAvailability <= 0 {
    c.JSON(http.StatusBadRequest, gin.H{"message": "Weekly time availability must be a positive number of hours"})
    return
  }
  switch types.ExperienceLevel(req.ExperienceLevel) {
  case types.ExperienceBeginner, types.ExperienceIntermediate, types.ExperienceAdvanced:
  default:
    c.JSON(http.StatusBadRequest, gin.H{"message": "Experience level must be beginner, intermediate or advanced"})
    return
  }
  for _, skill := range req.Skills {
    if strings.TrimSpace(skill.Name) == "" {
      c.JSON(http.StatusBadRequest, gin.H{"message": "Skill names must not be empty"})
      return
    }
  }

  record, err := s.store.GetUserByID(c.Request.Context(), currentUserID(c))
  if err != nil {
    c.JSON(http.StatusUnauthorized, gin.H{"message": "unknown user"})
    return
  }
  record.Name = req.Name
  record.TargetRole = strings.TrimSpace(req.TargetRole)
  record.ExperienceLevel = req.ExperienceLevel
  record.WeeklyTimeAvailability = req.WeeklyTimeAvailability
  record.Skills = encodeSkills(req.Skills)

  if err := s.store.UpdateUser(c.Request.Context(), record); err != nil {
    s.log.Error("Failed to update profile", "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update profile"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"data": record.ToUser()})
}
