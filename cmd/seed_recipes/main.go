package main

import (
	"flag"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-v2/recipetool/config"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/database"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/logging"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/model"
)

type seedRecipe struct {
	Title        string
	Ingredients  []string
	Instructions []string
	Favorite     bool
	Servings     int
	PrepTime     int
	CookTime     int
	Tags         string
}

var seedRecipes = []seedRecipe{
	{
		Title:        "Classic Margherita Pizza",
		Ingredients:  []string{"pizza dough", "san marzano tomatoes", "fresh mozzarella", "basil", "olive oil"},
		Instructions: []string{"Preheat the oven to 250C", "Stretch the dough", "Top with tomatoes and mozzarella", "Bake for 8 minutes", "Finish with basil"},
		Favorite:     true,
		Servings:     2,
		PrepTime:     20,
		CookTime:     8,
		Tags:         `["italian","vegetarian"]`,
	},
	{
		Title:        "Chicken Tikka Masala",
		Ingredients:  []string{"chicken thighs", "yogurt", "garam masala", "tomato puree", "cream"},
		Instructions: []string{"Marinate the chicken in yogurt and spices", "Grill until charred", "Simmer in the tomato sauce", "Stir in cream"},
		Servings:     4,
		PrepTime:     30,
		CookTime:     40,
		Tags:         `["indian","spicy"]`,
	},
	{
		Title:        "Overnight Oats",
		Ingredients:  []string{"rolled oats", "milk", "chia seeds", "honey", "berries"},
		Instructions: []string{"Combine everything in a jar", "Refrigerate overnight"},
		Favorite:     true,
		Servings:     1,
		PrepTime:     5,
		Tags:         `["breakfast","quick"]`,
	},
	{
		Title:        "Vegetable Stir-Fry",
		Ingredients:  []string{"broccoli", "bell pepper", "snap peas", "soy sauce", "ginger", "garlic"},
		Instructions: []string{"Heat the wok until smoking", "Stir-fry the vegetables", "Add soy sauce and ginger"},
		Servings:     2,
		PrepTime:     15,
		CookTime:     10,
		Tags:         `["vegan","asian"]`,
	},
	{
		Title:        "Lemon Garlic Salmon",
		Ingredients:  []string{"salmon fillets", "lemon", "garlic", "butter", "dill"},
		Instructions: []string{"Season the salmon", "Sear skin side down", "Baste with lemon garlic butter"},
		Servings:     2,
		PrepTime:     10,
		CookTime:     12,
		Tags:         `["seafood"]`,
	},
}

func main() {
	email := flag.String("email", "demo@alchemorsel.com", "Email of the demo user that owns the seeded recipes")
	password := flag.String("password", "demo-password", "Password of the demo user")
	flag.Parse()

	logger := logging.Must(config.GetEnvironment())
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	user, err := ensureUser(db, *email, *password)
	if err != nil {
		logger.Fatal("failed to create demo user", zap.Error(err))
	}

	now := time.Now().UTC()
	created := 0
	for i, s := range seedRecipes {
		var count int64
		if err := db.Model(&model.Recipe{}).Where("user_id = ? AND title = ?", user.ID, s.Title).Count(&count).Error; err != nil {
			logger.Fatal("failed to check existing recipe", zap.Error(err))
		}
		if count > 0 {
			continue
		}

		createdAt := now.Add(-time.Duration(i) * 24 * time.Hour)
		recipe := model.Recipe{
			UserID:       user.ID,
			Title:        s.Title,
			Ingredients:  model.JSONBStringArray(s.Ingredients),
			Instructions: model.JSONBStringArray(s.Instructions),
			Favorite:     s.Favorite,
			Servings:    intPtr(s.Servings),
			PrepTime:     intPtr(s.PrepTime),
			CookTime:     intPtr(s.CookTime),
			DateCreated:  createdAt.Format(time.RFC3339),
			Tags:         datatypes.JSON(s.Tags),
			CreatedAt:    createdAt,
		}
		if err := db.Create(&recipe).Error; err != nil {
			logger.Fatal("failed to create recipe", zap.String("title", s.Title), zap.Error(err))
		}
		created++
	}

	logger.Info("seeded recipes",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.Int("created", created))
}

func ensureUser(db *gorm.DB, email, password string) (*model.User, error) {
	var user model.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user = model.User{Name: "Demo Cook", Email: email, PasswordHash: string(hash)}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
