package devserver

import (
  "fmt"
  "net/http"
  "strings"
  "time"
  "github.com/gin-gonic/gin"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "golang.org/x/crypto/bcrypt"
  "gorm.io/gorm"
  "github.com/yungbote/roadmap-client/internal/types"
)

const userIDKey = "userID"

func (s *Server) mintToken(userID uuid.UUID) (string, error) {
  claims := jwt.MapClaims{
    "sub": userID.String(),
    "iat": time.Now().Unix(),
    "exp": time.Now().Add(s.tokenTTL).Unix(),
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(s.jwtSecret))
}

func (s *Server) parseToken(tokenString string) (uuid.UUID, error) {
  token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
    }
    return []byte(s.jwtSecret), nil
  })
  if err != nil || !token.Valid {
    return uuid.Nil, fmt.Errorf("invalid token")
  }
  claims, ok := token.Claims.(jwt.MapClaims)
  if !ok {
    return uuid.Nil, fmt.Errorf("invalid token claims")
  }
  sub, err := claims.GetSubject()
  if err != nil {
    return uuid.Nil, fmt.Errorf("invalid token subject")
  }
  userID, err := uuid.Parse(sub)
  if err != nil {
    return uuid.Nil, fmt.Errorf("invalid token subject")
  }
  return userID, nil
}

func (s *Server) requireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    authHeader := c.GetHeader("Authorization")
    if len(authHeader) <= 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing or invalid token"})
      return
    }
    userID, err := s.parseToken(authHeader[7:])
    if err != nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
      return
    }
    if _, err := s.store.GetUserByID(c.Request.Context(), userID); err != nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unknown user"})
      return
    }
    c.Set(userIDKey, userID)
    c.Next()
  }
}

func currentUserID(c *gin.Context) uuid.UUID {
  v, ok := c.Get(userIDKey)
  if !ok {
    return uuid.Nil
  }
  id, ok := v.(uuid.UUID)
  if !ok {
    return uuid.Nil
  }
  return id
}

func (s *Server) register(c *gin.Context) {
  var req struct {
    Name     string `json:"name"`
    Email    string `json:"email"`
    Password string `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
    return
  }
  req.Name = strings.TrimSpace(req.Name)
  req.Email = strings.ToLower(strings.TrimSpace(req.Email))
  if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
    c.JSON(http.StatusBadRequest, gin.H{"message": "name, email and a password of at least 6 characters are required"})
    return
  }
  if _, err := s.store.GetUserByEmail(c.Request.Context(), req.Email); err == nil {
    c.JSON(http.StatusBadRequest, gin.H{"message": "Email already registered"})
    return
  }

  hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
    return
  }
  record := &UserRecord{
    ID:              uuid.New(),
    Email:           req.Email,
    Password:        string(hash),
    Name:            req.Name,
    ExperienceLevel: string(types.ExperienceBeginner),
    Skills:          encodeSkills(nil),
  }
  if err := s.store.CreateUser(c.Request.Context(), record); err != nil {
    s.log.Error("Failed to create user", "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
    return
  }

  token, err := s.mintToken(record.ID)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to issue token"})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"data": gin.H{"token": token, "user": record.ToUser()}})
}

func (s *Server) login(c *gin.Context) {
  var req struct {
    Email    string `json:"email"`
    Password string `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
    return
  }
  req.Email = strings.ToLower(strings.TrimSpace(req.Email))

  record, err := s.store.GetUserByEmail(c.Request.Context(), req.Email)
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
      return
    }
    s.log.Error("Failed to look up user", "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to look up user"})
    return
  }
  if err := bcrypt.CompareHashAndPassword([]byte(record.Password), []byte(req.Password)); err != nil {
    c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
    return
  }

  token, err := s.mintToken(record.ID)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to issue token"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"data": gin.H{"token": token, "user": record.ToUser()}})
}

func (s *Server) me(c *gin.Context) {
  record, err := s.store.GetUserByID(c.Request.Context(), currentUserID(c))
  if err != nil {
    c.JSON(http.StatusUnauthorized, gin.H{"message": "unknown user"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"data": record.ToUser()})
}
