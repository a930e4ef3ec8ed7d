package types

// SkillVideoGroup is read-only reference data attached to a weekly goal; the
// client never mutates it.
type SkillVideoGroup struct {
  Skill  string      `json:"skill"`
  Videos []VideoLink `json:"videos"`
}

type VideoLink struct {
  Title    string `json:"title"`
  URL      string `json:"url"`
  Platform string `json:"platform"`
}
