// Package testutil holds store fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/config"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/database"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenDB returns a migrated in-memory SQLite store private to the test.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	cfg := &config.Config{
		AppEnv:     "test",
		DBDriver:   config.DBDriverSQLite,
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	}

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// OpenMockDB returns a gorm handle speaking the postgres dialect over
// sqlmock, for store failure paths.
func OpenMockDB(t testing.TB) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db, mock
}

// Fixture seeds teams and questions directly through the store.
type Fixture struct {
	DB *gorm.DB
}

// Team creates a team with generated members. The password hash is a
// placeholder; tests that log in hash their own.
func (f Fixture) Team(t testing.TB, name string) *models.Team {
	t.Helper()

	team := &models.Team{Name: name, PasswordHash: "x"}
	if err := f.DB.Create(team).Error; err != nil {
		t.Fatalf("create team %q: %v", name, err)
	}
	for i := 1; i <= models.MinTeamMembers; i++ {
		user := models.User{
			EnrollNo: fmt.Sprintf("%s-%d", name, i),
			Name:     fmt.Sprintf("%s member %d", name, i),
			TeamID:   team.ID,
		}
		if err := f.DB.Create(&user).Error; err != nil {
			t.Fatalf("create member: %v", err)
		}
	}
	return team
}

// Questions creates n questions labelled "Question 1".."Question n" with
// answers "a1".."an".
func (f Fixture) Questions(t testing.TB, n int) []models.Question {
	t.Helper()

	questions := make([]models.Question, 0, n)
	for i := 1; i <= n; i++ {
		q := models.Question{
			Label:       fmt.Sprintf("Question %d", i),
			Description: fmt.Sprintf("Riddle %d", i),
			Answer:      fmt.Sprintf("a%d", i),
		}
		if err := f.DB.Create(&q).Error; err != nil {
			t.Fatalf("create question: %v", err)
		}
		questions = append(questions, q)
	}
	return questions
}

// Solve marks a question completed for a team at the given time.
func (f Fixture) Solve(t testing.TB, team *models.Team, q models.Question, at time.Time) {
	t.Helper()

	progress := models.TeamProgress{TeamID: team.ID, QuestionID: q.ID, IsCompleted: true, SolvedAt: &at}
	if err := f.DB.Create(&progress).Error; err != nil {
		t.Fatalf("solve %q for %q: %v", q.Label, team.Name, err)
	}
}
