package types

type WeeklyGoal struct {
  ID         string            `json:"id"`
  WeekNumber int               `json:"weekNumber"`
  Phase      string            `json:"phase"`
  Progress   int               `json:"progress"`
  Completed  bool              `json:"completed"`
  Tasks      []Task            `json:"tasks"`
  VideoLinks []SkillVideoGroup `json:"videoLinks"`
}
