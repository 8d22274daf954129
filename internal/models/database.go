package models

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("record not found")

// Database wraps the gorm connection
type Database struct {
	orm *gorm.DB
}

// NewDatabase opens the SQLite database and migrates the schema
func NewDatabase(path string) (*Database, error) {
	orm, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := orm.AutoMigrate(&Movie{}, &UserMovie{}, &Review{}, &User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Database{orm: orm}, nil
}

// Close closes the underlying connection
func (db *Database) Close() error {
	sqlDB, err := db.orm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Movie operations

// CreateMovie inserts a new catalog movie
func (db *Database) CreateMovie(movie *Movie) error {
	return db.orm.Create(movie).Error
}

// CreateMovieWithLink inserts a catalog movie and links it to a user in one transaction.
// userID 0 inserts the movie without a library link.
func (db *Database) CreateMovieWithLink(movie *Movie, userID uint) error {
	return db.orm.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(movie).Error; err != nil {
			return err
		}
		if userID != 0 {
			return tx.Create(&UserMovie{UserID: userID, MovieID: movie.ID}).Error
		}
		return nil
	})
}

// GetMovieByID retrieves a catalog movie without per-user context
func (db *Database) GetMovieByID(movieID uint) (*Movie, error) {
	var movie Movie
	err := db.orm.First(&movie, movieID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetMovieByTitle retrieves a catalog movie by exact title
func (db *Database) GetMovieByTitle(title string) (*Movie, error) {
	var movie Movie
	err := db.orm.Where("title = ?", title).First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetMovieByIMDBID retrieves a catalog movie by its external identifier
func (db *Database) GetMovieByIMDBID(imdbID string) (*Movie, error) {
	var movie Movie
	err := db.orm.Where("imdbID = ?", imdbID).First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetRandomMovie retrieves one uniformly-random catalog movie
func (db *Database) GetRandomMovie() (*Movie, error) {
	var movie Movie
	err := db.orm.Order("RANDOM()").First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// UpdateRecommendations overwrites the three recommendation slots of a movie.
// Nil values clear the corresponding slot.
func (db *Database) UpdateRecommendations(movieID uint, rec1, rec2, rec3 *string) error {
	return db.orm.Model(&Movie{}).Where("movie_id = ?", movieID).
		Updates(map[string]interface{}{"rec1": rec1, "rec2": rec2, "rec3": rec3}).Error
}

// DeleteMovie hard-deletes a catalog movie. The caller must guarantee that no
// library link still references it.
func (db *Database) DeleteMovie(movieID uint) (bool, error) {
	result := db.orm.Delete(&Movie{}, movieID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UserMovie operations

// ListUserMovies retrieves a user's library with per-user overrides applied,
// ordered per the sort mode. Unknown sort values fall back to insertion order.
func (db *Database) ListUserMovies(userID uint, sort int) ([]Movie, error) {
	var rows []struct {
		Movie
		UserRating *float64
		UserNotes  *string
	}

	query := db.orm.Model(&Movie{}).
		Select("movies.*, user_movies.user_rating, user_movies.user_notes").
		Joins("JOIN user_movies ON user_movies.movie_id = movies.movie_id").
		Where("user_movies.user_id = ?", userID)

	switch sort {
	case SortYear:
		query = query.Order("movies.year")
	case SortRatingDesc:
		query = query.Order("movies.rating DESC")
	case SortRatingAsc:
		query = query.Order("movies.rating")
	case SortTitle:
		query = query.Order("movies.title")
	default:
		query = query.Order("user_movies.row_id")
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	movies := make([]Movie, 0, len(rows))
	for _, row := range rows {
		movies = append(movies, applyOverrides(row.Movie, row.UserRating, row.UserNotes))
	}
	return movies, nil
}

// GetUserMovie retrieves one movie with the user's overrides applied.
// Returns ErrNotFound when the user has no library link for the movie.
func (db *Database) GetUserMovie(userID, movieID uint) (*Movie, error) {
	var row struct {
		Movie
		UserRating *float64
		UserNotes  *string
	}
	err := db.orm.Model(&Movie{}).
		Select("movies.*, user_movies.user_rating, user_movies.user_notes").
		Joins("JOIN user_movies ON user_movies.movie_id = movies.movie_id").
		Where("user_movies.user_id = ? AND movies.movie_id = ?", userID, movieID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	movie := applyOverrides(row.Movie, row.UserRating, row.UserNotes)
	return &movie, nil
}

// HasUserMovie reports whether the user already has the movie in their library
func (db *Database) HasUserMovie(userID, movieID uint) (bool, error) {
	var count int64
	err := db.orm.Model(&UserMovie{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&count).Error
	return count > 0, err
}

// HasUserMovieTitle reports whether the user's library contains a movie with the title
func (db *Database) HasUserMovieTitle(userID uint, title string) (bool, error) {
	var count int64
	err := db.orm.Model(&UserMovie{}).
		Joins("JOIN movies ON movies.movie_id = user_movies.movie_id").
		Where("user_movies.user_id = ? AND movies.title = ?", userID, title).
		Count(&count).Error
	return count > 0, err
}

// CreateUserMovie links a catalog movie to a user's library
func (db *Database) CreateUserMovie(userID, movieID uint) error {
	return db.orm.Create(&UserMovie{UserID: userID, MovieID: movieID}).Error
}

// UpdateUserMovie overwrites the personal rating and notes on a library entry
func (db *Database) UpdateUserMovie(userID, movieID uint, rating *float64, notes *string) error {
	return db.orm.Model(&UserMovie{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Updates(map[string]interface{}{"user_rating": rating, "user_notes": notes}).Error
}

// DeleteUserMovie removes a movie from a user's library. The catalog row is untouched.
func (db *Database) DeleteUserMovie(userID, movieID uint) (bool, error) {
	result := db.orm.Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&UserMovie{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Review operations

// CreateReview inserts a new review
func (db *Database) CreateReview(review *Review) error {
	return db.orm.Create(review).Error
}

// ReviewWithAuthor joins a review with the authoring username for display
type ReviewWithAuthor struct {
	Review
	Username string `json:"username"`
}

// ListReviews retrieves all reviews for a movie, newest first
func (db *Database) ListReviews(movieID uint) ([]ReviewWithAuthor, error) {
	var reviews []ReviewWithAuthor
	err := db.orm.Model(&Review{}).
		Select("reviews.*, user_data.username").
		Joins("JOIN user_data ON user_data.user_id = reviews.user_id").
		Where("reviews.movie_id = ?", movieID).
		Order("reviews.review_date DESC").
		Scan(&reviews).Error
	return reviews, err
}

// User operations

// CreateUser inserts a new account
func (db *Database) CreateUser(user *User) error {
	return db.orm.Create(user).Error
}

// GetUserByID retrieves an account by id
func (db *Database) GetUserByID(userID uint) (*User, error) {
	var user User
	err := db.orm.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves an account by email
func (db *Database) GetUserByEmail(email string) (*User, error) {
	var user User
	err := db.orm.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// applyOverrides shadows the catalog rating/notes with per-user values when present
func applyOverrides(movie Movie, rating *float64, notes *string) Movie {
	if rating != nil {
		movie.Rating = *rating
	}
	if notes != nil {
		movie.Notes = notes
	}
	return movie
}
