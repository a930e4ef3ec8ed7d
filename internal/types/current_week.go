package types

// CurrentWeekProjection is a server-computed view fetched independently of
// the full roadmap.
type CurrentWeekProjection struct {
  CurrentWeek int         `json:"currentWeek"`
  WeeklyGoal  *WeeklyGoal `json:"weeklyGoal"`
}
