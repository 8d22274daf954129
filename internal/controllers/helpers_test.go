package controllers

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/movielib/internal/models"
	"github.com/amaumene/movielib/internal/services/omdb"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestDB(t *testing.T) *models.Database {
	t.Helper()
	db, err := models.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *models.Database, username, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, Password: "hashed"}
	if err := db.CreateUser(user); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

func seedMovie(t *testing.T, db *models.Database, title, imdbID string) *models.Movie {
	t.Helper()
	movie := &models.Movie{
		Title:    title,
		Director: "Someone",
		Year:     "1999",
		Rating:   8.0,
		Img:      "https://example.com/poster.jpg",
		IMDBId:   imdbID,
		Plot:     "Plot of " + title,
	}
	if err := db.CreateMovie(movie); err != nil {
		t.Fatalf("Failed to seed movie %s: %v", title, err)
	}
	return movie
}

// fakeMetadata is an in-memory stand-in for the OMDb client
type fakeMetadata struct {
	byTitle    map[string]*omdb.MovieInfo
	byID       map[string]*omdb.MovieInfo
	titleCalls int
	idCalls    int
}

func newFakeMetadata() *fakeMetadata {
	return &fakeMetadata{
		byTitle: make(map[string]*omdb.MovieInfo),
		byID:    make(map[string]*omdb.MovieInfo),
	}
}

func (f *fakeMetadata) add(info *omdb.MovieInfo) {
	f.byTitle[info.Title] = info
	f.byID[info.IMDBID] = info
}

func (f *fakeMetadata) LookupByTitle(_ context.Context, title string) (*omdb.MovieInfo, error) {
	f.titleCalls++
	if info, ok := f.byTitle[title]; ok {
		return info, nil
	}
	return nil, omdb.ErrNotFound
}

func (f *fakeMetadata) LookupByID(_ context.Context, imdbID string) (*omdb.MovieInfo, error) {
	f.idCalls++
	if info, ok := f.byID[imdbID]; ok {
		return info, nil
	}
	return nil, omdb.ErrNotFound
}

// fakeRecommender returns a fixed id triple
type fakeRecommender struct {
	ids   []string
	err   error
	calls int
	fresh []bool
}

func (f *fakeRecommender) Recommend(_ context.Context, _ string, fresh bool) ([]string, error) {
	f.calls++
	f.fresh = append(f.fresh, fresh)
	if f.err != nil {
		return nil, f.err
	}
	return f.ids, nil
}

func info(title, imdbID, rating string) *omdb.MovieInfo {
	return &omdb.MovieInfo{
		Title:    title,
		Director: "Someone",
		Year:     "1999",
		Poster:   "https://example.com/" + imdbID + ".jpg",
		IMDBID:   imdbID,
		Plot:     "Plot of " + title,
		Rating:   rating,
	}
}
