package types

type Phase struct {
  Order       int      `json:"order"`
  Name        string   `json:"name"`
  Description string   `json:"description"`
  Skills      []string `json:"skills"`
  Progress    int      `json:"progress"`
}
