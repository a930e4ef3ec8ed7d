package types

import (
  "github.com/google/uuid"
)

type ExperienceLevel string

const (
  ExperienceBeginner     ExperienceLevel = "beginner"
  ExperienceIntermediate ExperienceLevel = "intermediate"
  ExperienceAdvanced     ExperienceLevel = "advanced"
)

type Skill struct {
  Name  string          `json:"name"`
  Level ExperienceLevel `json:"level"`
}

type User struct {
  ID                     uuid.UUID       `json:"id"`
  Name                   string          `json:"name"`
  Email                  string          `json:"email"`
  TargetRole             string          `json:"targetRole,omitempty"`
  ExperienceLevel        ExperienceLevel `json:"experienceLevel"`
  WeeklyTimeAvailability int             `json:"weeklyTimeAvailability"`
  Skills                 []Skill         `json:"skills"`
}
