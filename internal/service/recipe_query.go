package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-v2/recipetool/internal/identity"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/metrics"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/model"
)

// MaxSearchQueryLength is the longest accepted search term, in characters.
const MaxSearchQueryLength = 200

// ErrSearchQueryTooLong is returned for search terms over MaxSearchQueryLength.
var ErrSearchQueryTooLong = errors.New("search query too long")

// QueryParams narrows a caller's recipe collection. Both fields are optional.
type QueryParams struct {
	FavoritesOnly bool   `json:"favorites_only"`
	SearchQuery   string `json:"search_query"`
}

// ResultStatus tells automated consumers whether a query succeeded.
type ResultStatus string

const (
	StatusOK    ResultStatus = "ok"
	StatusError ResultStatus = "error"
)

// ErrorKind classifies a failed query.
type ErrorKind string

const (
	ErrorKindUnauthenticated ErrorKind = "unauthenticated"
	ErrorKindQueryFailed     ErrorKind = "query_failed"
	ErrorKindInvalidQuery    ErrorKind = "invalid_query"
)

// UnavailableSummary is the summary of every failed query.
const UnavailableSummary = "Unable to retrieve recipes at the moment. Please try again."

// RecipeView is a recipe as returned to callers.
type RecipeView struct {
	model.Recipe
	ImageURL string `json:"imageUrl,omitempty"`
}

// QueryResult is the outcome of a recipe query.
type QueryResult struct {
	Recipes       []RecipeView `json:"recipes"`
	RecipeIDs     []string     `json:"recipeIds"`
	TotalCount    int          `json:"totalCount"`
	FavoriteCount int          `json:"favoriteCount"`
	Summary       string       `json:"summary"`
	Status        ResultStatus `json:"status"`
	ErrorKind     ErrorKind    `json:"errorKind,omitempty"`
}

// ErrorResult returns the zeroed result reported for a failed query.
func ErrorResult(kind ErrorKind) *QueryResult {
	return &QueryResult{
		Recipes:   []RecipeView{},
		RecipeIDs: []string{},
		Summary:   UnavailableSummary,
		Status:    StatusError,
		ErrorKind: kind,
	}
}

// ImageSigner turns a stored image key into a URL the caller can fetch.
type ImageSigner interface {
	PresignImage(ctx context.Context, objectKey string) (string, error)
}

// RecipeQueryService answers read-only queries over a user's saved recipes
type RecipeQueryService struct {
	db      *gorm.DB
	images  ImageSigner
	metrics *metrics.Recorder
	logger  *zap.Logger
}

// NewRecipeQueryService creates a new RecipeQueryService. images and recorder may be nil.
func NewRecipeQueryService(db *gorm.DB, images ImageSigner, recorder *metrics.Recorder, logger *zap.Logger) *RecipeQueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeQueryService{
		db:      db,
		images:  images,
		metrics: recorder,
		logger:  logger,
	}
}

// Query returns the recipes owned by callerID that match params, newest first.
func (s *RecipeQueryService) Query(ctx context.Context, callerID uuid.UUID, params QueryParams) (*QueryResult, error) {
	if callerID == uuid.Nil {
		return nil, identity.ErrNoCaller
	}
	if n := utf8.RuneCountInString(params.SearchQuery); n > MaxSearchQueryLength {
		return nil, fmt.Errorf("%w: %d characters, at most %d allowed", ErrSearchQueryTooLong, n, MaxSearchQueryLength)
	}
	params.SearchQuery = strings.TrimSpace(params.SearchQuery)

	q := newRecipeQuery(params)
	start := time.Now()

	tx := s.db.WithContext(ctx).Model(&model.Recipe{}).
		Where("recipes.user_id = ?", callerID)
	if params.FavoritesOnly {
		tx = tx.Where("recipes.favorite = ?", true)
	}
	tx = q.apply(tx).
		Order("recipes.created_at DESC").
		Order("recipes.id DESC")

	var recipes []model.Recipe
	if err := tx.Find(&recipes).Error; err != nil {
		s.metrics.Observe(q.name(), string(StatusError), time.Since(start))
		return nil, fmt.Errorf("failed to query recipes with %s backend: %w", q.name(), err)
	}
	s.metrics.Observe(q.name(), string(StatusOK), time.Since(start))

	return s.buildResult(ctx, recipes, params), nil
}

func (s *RecipeQueryService) buildResult(ctx context.Context, recipes []model.Recipe, params QueryParams) *QueryResult {
	result := &QueryResult{
		Recipes:   make([]RecipeView, len(recipes)),
		RecipeIDs: make([]string, len(recipes)),
		Status:    StatusOK,
	}
	for i, r := range recipes {
		result.Recipes[i] = RecipeView{Recipe: r, ImageURL: s.imageURL(ctx, r)}
		result.RecipeIDs[i] = r.ID.String()
		if r.Favorite {
			result.FavoriteCount++
		}
	}
	result.TotalCount = len(recipes)
	result.Summary = Summarize(params, result.TotalCount, result.FavoriteCount)
	return result
}

func (s *RecipeQueryService) imageURL(ctx context.Context, r model.Recipe) string {
	if s.images == nil || r.ImageKey == "" {
		return ""
	}
	url, err := s.images.PresignImage(ctx, r.ImageKey)
	if err != nil {
		s.logger.Warn("failed to sign recipe image",
			zap.String("recipe_id", r.ID.String()),
			zap.Error(err))
		return ""
	}
	return url
}

// Summarize renders the human-readable summary of a successful query.
func Summarize(params QueryParams, total, favorites int) string {
	term := strings.TrimSpace(params.SearchQuery)

	if total == 0 {
		switch {
		case term != "" && params.FavoritesOnly:
			return fmt.Sprintf("No favorite recipes found matching \"%s\".", term)
		case term != "":
			return fmt.Sprintf("No recipes found matching \"%s\" in your collection.", term)
		case params.FavoritesOnly:
			return "You don't have any favorite recipes yet."
		default:
			return "Your recipe collection is empty."
		}
	}

	noun := "recipes"
	if total == 1 {
		noun = "recipe"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s", total, noun)
	if params.FavoritesOnly {
		b.WriteString(" (favorite recipes)")
	}
	if term != "" {
		fmt.Fprintf(&b, " matching \"%s\"", term)
	}
	b.WriteString(".")
	if !params.FavoritesOnly && favorites > 0 {
		if favorites == 1 {
			b.WriteString(" 1 of them is a favorite.")
		} else {
			fmt.Fprintf(&b, " %d of them are favorites.", favorites)
		}
	}
	return b.String()
}

// recipeQuery adds the backend-specific match condition to a query that is
// already scoped to the caller.
type recipeQuery interface {
	name() string
	apply(tx *gorm.DB) *gorm.DB
}

func newRecipeQuery(params QueryParams) recipeQuery {
	if params.SearchQuery == "" {
		return filterQuery{}
	}
	return substringQuery{term: params.SearchQuery}
}

// filterQuery relies on the ownership and favorite filters alone.
type filterQuery struct{}

func (filterQuery) name() string { return "filter" }

func (filterQuery) apply(tx *gorm.DB) *gorm.DB { return tx }

// substringQuery matches the term case-insensitively against the title and
// every element of the ingredient and instruction lists.
type substringQuery struct {
	term string
}

func (substringQuery) name() string { return "substring" }

const (
	postgresSubstringMatch = `(recipes.title ILIKE @pattern ESCAPE '\'` +
		` OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(recipes.ingredients) AS ing(value) WHERE ing.value ILIKE @pattern ESCAPE '\')` +
		` OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(recipes.instructions) AS ins(value) WHERE ins.value ILIKE @pattern ESCAPE '\'))`

	// fold_lower is registered by the sqlitefold driver.
	sqliteSubstringMatch = `(fold_lower(recipes.title) LIKE @pattern ESCAPE '\'` +
		` OR EXISTS (SELECT 1 FROM json_each(recipes.ingredients) AS ing WHERE fold_lower(ing.value) LIKE @pattern ESCAPE '\')` +
		` OR EXISTS (SELECT 1 FROM json_each(recipes.instructions) AS ins WHERE fold_lower(ins.value) LIKE @pattern ESCAPE '\'))`
)

func (q substringQuery) apply(tx *gorm.DB) *gorm.DB {
	pattern := sql.Named("pattern", "%"+escapeLike(strings.ToLower(q.term))+"%")
	if tx.Dialector.Name() == "postgres" {
		return tx.Where(postgresSubstringMatch, pattern)
	}
	return tx.Where(sqliteSubstringMatch, pattern)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in a user search term match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
