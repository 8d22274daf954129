package models

import "time"

// Movie represents a catalog entry shared by all users
type Movie struct {
	ID       uint    `gorm:"column:movie_id;primaryKey;autoIncrement" json:"id"`
	Title    string  `gorm:"size:50" json:"title"`
	Director string  `json:"director"`
	Year     string  `json:"year"` // kept as string, the API returns ranges like "2008–2013"
	Rating   float64 `json:"rating"`
	Img      string  `json:"img"`
	IMDBId   string  `gorm:"column:imdbID;index" json:"imdbID"`
	Plot     string  `json:"plot"`
	Notes    *string `json:"notes,omitempty"`

	// Recommendation slots caching previously generated IMDb IDs
	Rec1 *string `json:"-"`
	Rec2 *string `json:"-"`
	Rec3 *string `json:"-"`
}

// TableName overrides the gorm table name
func (Movie) TableName() string {
	return "movies"
}

// HasAllRecommendations reports whether all three slots are populated
func (m *Movie) HasAllRecommendations() bool {
	return m.Rec1 != nil && m.Rec2 != nil && m.Rec3 != nil
}

// UserMovie links a user to a catalog movie with personal overrides
type UserMovie struct {
	RowID      uint     `gorm:"column:row_id;primaryKey;autoIncrement" json:"row_id"`
	UserID     uint     `gorm:"uniqueIndex:uniq_user_movie" json:"user_id"`
	MovieID    uint     `gorm:"uniqueIndex:uniq_user_movie" json:"movie_id"`
	UserRating *float64 `json:"user_rating,omitempty"`
	UserNotes  *string  `json:"user_notes,omitempty"`
}

// TableName overrides the gorm table name
func (UserMovie) TableName() string {
	return "user_movies"
}

// Review represents user-authored commentary on a movie, immutable once added
type Review struct {
	ReviewID     uint      `gorm:"column:review_id;primaryKey;autoIncrement" json:"review_id"`
	UserID       uint      `json:"user_id"`
	MovieID      uint      `json:"movie_id"`
	ReviewTitle  string    `json:"review_title"`
	ReviewText   string    `gorm:"type:text" json:"review_text"`
	ReviewRating float64   `json:"review_rating"`
	ReviewDate   time.Time `gorm:"type:date" json:"review_date"`
}

// TableName overrides the gorm table name
func (Review) TableName() string {
	return "reviews"
}

// User represents an account, consumed as an opaque identity by the stores
type User struct {
	ID       uint   `gorm:"column:user_id;primaryKey;autoIncrement" json:"id"`
	Username string `json:"username"`
	Email    string `gorm:"uniqueIndex" json:"email"`
	Password string `json:"-"`
}

// TableName overrides the gorm table name
func (User) TableName() string {
	return "user_data"
}
