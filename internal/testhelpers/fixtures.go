package testhelpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-v2/recipetool/internal/model"
)

// CreateTestUser inserts a user whose password is password.
func CreateTestUser(t *testing.T, db *gorm.DB, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &model.User{Name: "Test User", Email: email, PasswordHash: string(hash)}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// RecipeFixture describes a recipe to insert. Age is subtracted from a fixed
// base time, so a larger Age means an older recipe.
type RecipeFixture struct {
	Title        string
	Ingredients  []string
	Instructions []string
	Favorite     bool
	Age          time.Duration
	ImageKey     string
}

// BaseTime anchors fixture creation times.
var BaseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// CreateTestRecipes inserts the fixtures for owner and returns them in insertion order.
func CreateTestRecipes(t *testing.T, db *gorm.DB, owner uuid.UUID, fixtures ...RecipeFixture) []model.Recipe {
	t.Helper()
	recipes := make([]model.Recipe, 0, len(fixtures))
	for _, f := range fixtures {
		r := model.Recipe{
			UserID:       owner,
			Title:        f.Title,
			Ingredients:  model.JSONBStringArray(f.Ingredients),
			Instructions: model.JSONBStringArray(f.Instructions),
			Favorite:     f.Favorite,
			CreatedAt:    BaseTime.Add(-f.Age),
			DateCreated:  BaseTime.Add(-f.Age).Format("2006-01-02"),
			ImageKey:     f.ImageKey,
		}
		if err := db.Create(&r).Error; err != nil {
			t.Fatalf("failed to create recipe %q: %v", f.Title, err)
		}
		recipes = append(recipes, r)
	}
	return recipes
}
