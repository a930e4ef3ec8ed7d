package types

type Task struct {
  ID             string  `json:"id"`
  Title          string  `json:"title"`
  Description    string  `json:"description"`
  EstimatedHours float64 `json:"estimatedHours"`
  Completed      bool    `json:"completed"`
}
