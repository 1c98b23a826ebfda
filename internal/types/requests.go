package types

// LoginRequest is the body of POST /api/v1/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// RecipeQueryRequest binds the query string of GET /api/v1/recipes/query
type RecipeQueryRequest struct {
	FavoritesOnly bool   `form:"favorites_only"`
	// max matches service.MaxSearchQueryLength
	Search        string `form:"search" binding:"max=200"`
}
