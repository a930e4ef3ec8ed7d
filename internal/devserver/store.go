package devserver

import (
  "context"
  "encoding/json"
  "fmt"
  "time"
  "gorm.io/datatypes"
  "gorm.io/driver/postgres"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/yungbote/roadmap-client/internal/logger"
  "github.com/yungbote/roadmap-client/internal/types"
  "github.com/yungbote/roadmap-client/internal/utils"
)

type UserRecord struct {
  ID                     uuid.UUID      `gorm:"type:uuid;primaryKey"`
  Email                  string         `gorm:"uniqueIndex;not null"`
  Password               string         `gorm:"not null"`
  Name                   string         `gorm:"not null"`
  TargetRole             string
  ExperienceLevel        string
  WeeklyTimeAvailability int
  Skills                 datatypes.JSON
  CreatedAt              time.Time
  UpdatedAt              time.Time
}

func (UserRecord) TableName() string {
  return "user"
}

// RoadmapRecord stores the whole aggregate as one JSON document; the service
// owns every derived field inside it.
type RoadmapRecord struct {
  ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
  UserID    uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null"`
  Document  datatypes.JSON `gorm:"not null"`
  CreatedAt time.Time
  UpdatedAt time.Time
}

func (RoadmapRecord) TableName() string {
  return "roadmap"
}

type Store struct {
  db  *gorm.DB
  log *logger.Logger
}

// OpenStore connects to postgres when DATABASE_URL is set and falls back to
// a shared in-memory sqlite database otherwise.
func OpenStore(log *logger.Logger) (*Store, error) {
  storeLog := log.With("service", "DevServerStore")
  dsn := utils.GetEnv("DATABASE_URL", "", log)

  var db *gorm.DB
  var err error
  if dsn != "" {
    storeLog.Info("Connecting to Postgres...")
    db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
  } else {
    storeLog.Info("Using in-memory sqlite store")
    db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
  }
  if err != nil {
    storeLog.Error("Failed to open database", "error", err)
    return nil, fmt.Errorf("Failed to open database: %w", err)
  }

  if err := db.AutoMigrate(&UserRecord{}, &RoadmapRecord{}); err != nil {
    storeLog.Error("Auto migration failed", "error", err)
    return nil, fmt.Errorf("Auto migration failed: %w", err)
  }
  return &Store{db: db, log: storeLog}, nil
}

func (s *Store) CreateUser(ctx context.Context, user *UserRecord) error {
  if user.ID == uuid.Nil {
    user.ID = uuid.New()
  }
  return s.db.WithContext(ctx).Create(user).Error
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
  var user UserRecord
  if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
    return nil, err
  }
  return &user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*UserRecord, error) {
  var user UserRecord
  if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
    return nil, err
  }
  return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *UserRecord) error {
  return s.db.WithContext(ctx).Save(user).Error
}

func (s *Store) GetRoadmap(ctx context.Context, userID uuid.UUID) (*RoadmapRecord, error) {
  var record RoadmapRecord
  if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error; err != nil {
    return nil, err
  }
  return &record, nil
}

func (s *Store) SaveRoadmap(ctx context.Context, userID uuid.UUID, roadmap *types.Roadmap) (*RoadmapRecord, error) {
  raw, err := json.Marshal(roadmap)
  if err != nil {
    return nil, fmt.Errorf("Failed to marshal roadmap document: %w", err)
  }
  existing, gErr := s.GetRoadmap(ctx, userID)
  if gErr == nil {
    existing.Document = datatypes.JSON(raw)
    if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
      return nil, err
    }
    return existing, nil
  }
  record := &RoadmapRecord{
    ID:       roadmap.ID,
    UserID:   userID,
    Document: datatypes.JSON(raw),
  }
  if record.ID == uuid.Nil {
    record.ID = uuid.New()
  }
  if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
    return nil, err
  }
  return record, nil
}

func (s *Store) DeleteRoadmap(ctx context.Context, userID uuid.UUID) error {
  res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&RoadmapRecord{})
  if res.Error != nil {
    return res.Error
  }
  if res.RowsAffected == 0 {
    return gorm.ErrRecordNotFound
  }
  return nil
}

func (r *RoadmapRecord) Decode() (*types.Roadmap, error) {
  var roadmap types.Roadmap
  if err := json.Unmarshal(r.Document, &roadmap); err != nil {
    return nil, fmt.Errorf("Failed to decode roadmap document: %w", err)
  }
  return &roadmap, nil
}

func (u *UserRecord) ToUser() *types.User {
  var skills []types.Skill
  if len(u.Skills) > 0 {
    _ = json.Unmarshal(u.Skills, &skills)
  }
  return &types.User{
    ID:                     u.ID,
    Name:                   u.Name,
    Email:                  u.Email,
    TargetRole:             u.TargetRole,
    ExperienceLevel:        types.ExperienceLevel(u.ExperienceLevel),
    WeeklyTimeAvailability: u.WeeklyTimeAvailability,
    Skills:                 skills,
  }
}

func encodeSkills(skills []types.Skill) datatypes.JSON {
  if len(skills) == 0 {
    return datatypes.JSON([]byte("[]"))
  }
  raw, err := json.Marshal(skills)
  if err != nil {
    return datatypes.JSON([]byte("[]"))
  }
  return datatypes.JSON(raw)
}
