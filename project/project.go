// Package project persists finished course-building sessions: users own
// projects, projects own the generated artifacts. Persistence is optional;
// the workflow engine runs without it.
package project

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/didactlabs/didact/course"
)

// User is an account that owns projects. Identity comes from the
// authentication adapter; the store treats it as an opaque tag.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Name      string
	CreatedAt time.Time
}

// Project is one saved course-building session.
type Project struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Title     string    `gorm:"not null"`
	Stage     string
	CreatedAt time.Time

	Artifacts []Artifact `gorm:"constraint:OnDelete:CASCADE"`
}

// Artifact kinds.
const (
	KindSummary    = "summary"
	KindOutline    = "outline"
	KindStoryboard = "storyboard"
	KindAssessment = "assessment"
)

// Artifact is one generated text belonging to a project.
type Artifact struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID `gorm:"type:uuid;index;not null"`
	Kind      string    `gorm:"not null"`
	Content   string
	CreatedAt time.Time
}

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("project: not found")

// Store wraps the database handle.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the SQLite database at path and migrates the
// schema. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("project: open database: %w", err)
	}
	return NewStore(db)
}

// NewStore wraps an existing database handle and migrates the schema.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&User{}, &Project{}, &Artifact{}); err != nil {
		return nil, fmt.Errorf("project: migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// EnsureUser returns the user with the given email, creating it if needed.
func (s *Store) EnsureUser(email, name string) (*User, error) {
	var user User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = User{ID: uuid.New(), Email: email, Name: name, CreatedAt: time.Now()}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveProject stores the session's artifacts as a new project for the
// given user and returns the created record.
func (s *Store) SaveProject(userID uuid.UUID, title string, c *course.Context) (*Project, error) {
	if title == "" {
		return nil, fmt.Errorf("project: title is required")
	}

	p := Project{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Stage:     c.Stage().String(),
		CreatedAt: time.Now(),
	}
	for kind, content := range map[string]string{
		KindSummary:    c.Summary(),
		KindOutline:    c.OutlineRaw(),
		KindStoryboard: c.StoryboardRaw(),
		KindAssessment: c.Assessment(),
	} {
		if content == "" {
			continue
		}
		p.Artifacts = append(p.Artifacts, Artifact{
			ID:        uuid.New(),
			ProjectID: p.ID,
			Kind:      kind,
			Content:   content,
			CreatedAt: p.CreatedAt,
		})
	}

	if err := s.db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects returns the user's projects, newest first, without
// artifact contents.
func (s *Store) ListProjects(userID uuid.UUID) ([]Project, error) {
	var projects []Project
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// GetProject loads a project with its artifacts.
func (s *Store) GetProject(id uuid.UUID) (*Project, error) {
	var p Project
	err := s.db.Preload("Artifacts").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject removes a project and its artifacts.
func (s *Store) DeleteProject(id uuid.UUID) error {
	if err := s.db.Where("project_id = ?", id).Delete(&Artifact{}).Error; err != nil {
		return err
	}
	return s.db.Delete(&Project{}, "id = ?", id).Error
}
