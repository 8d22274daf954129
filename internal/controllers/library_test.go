package controllers

import (
	"context"
	"errors"
	"testing"

	"github.com/amaumene/movielib/internal/models"
)

func TestAddByTitleTwice(t *testing.T) {
	db := newTestDB(t)
	metadata := newFakeMetadata()
	metadata.add(info("The Matrix", "tt0133093", "8.7"))
	library := NewLibraryController(db, metadata, testLogger())
	user := seedUser(t, db, "lena", "lena@lena.ru")

	status, err := library.AddByTitle(context.Background(), user.ID, "The Matrix")
	if err != nil {
		t.Fatalf("AddByTitle failed: %v", err)
	}
	if status != models.StatusOK {
		t.Fatalf("Expected OK, got %s", status)
	}

	status, err = library.AddByTitle(context.Background(), user.ID, "The Matrix")
	if err != nil {
		t.Fatalf("AddByTitle failed: %v", err)
	}
	if status != models.StatusAlreadyAdded {
		t.Fatalf("Expected ALREADY_ADDED, got %s", status)
	}
}

func TestAddByTitleUnknownMovie(t *testing.T) {
	db := newTestDB(t)
	library := NewLibraryController(db, newFakeMetadata(), testLogger())
	user := seedUser(t, db, "lena", "lena@lena.ru")

	status, err := library.AddByTitle(context.Background(), user.ID, "No Such Movie")
	if err != nil {
		t.Fatalf("AddByTitle failed: %v", err)
	}
	if status != models.StatusNotFound {
		t.Fatalf("Expected NOT_FOUND, got %s", status)
	}

	// No rows were created
	movies, err := library.ListLibrary(context.Background(), user.ID, models.SortInsertion)
	if err != nil {
		t.Fatalf("ListLibrary failed: %v", err)
	}
	if len(movies) != 0 {
		t.Errorf("Expected empty library, got %d movies", len(movies))
	}
	if _, err := db.GetMovieByTitle("No Such Movie"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected no catalog row, got %v", err)
	}
}

func TestAddByTitleLinksExistingCatalogMovie(t *testing.T) {
	db := newTestDB(t)
	metadata := newFakeMetadata()
	library := NewLibraryController(db, metadata, testLogger())
	user := seedUser(t, db, "lena", "lena@lena.ru")
	movie := seedMovie(t, db, "Heat", "tt0113277")

	status, err := library.AddByTitle(context.Background(), user.ID, "Heat")
	if err != nil {
		t.Fatalf("AddByTitle failed: %v", err)
	}
	if status != models.StatusOK {
		t.Fatalf("Expected OK, got %s", status)
	}
	if metadata.titleCalls != 0 {
		t.Errorf("Catalog hit must not call the metadata API, got %d calls", metadata.titleCalls)
	}

	got, err := library.GetMovie(user.ID, movie.ID)
	if err != nil {
		t.Fatalf("GetMovie failed: %v", err)
	}
	if got.Title != "Heat" {
		t.Errorf("Unexpected title '%s'", got.Title)
	}
}

func TestIngestionRatingFallback(t *testing.T) {
	db := newTestDB(t)
	metadata := newFakeMetadata()
	metadata.add(info("Obscure Film", "tt9999999", "N/A"))
	library := NewLibraryController(db, metadata, testLogger())
	user := seedUser(t, db, "lena", "lena@lena.ru")

	status, err := library.AddByTitle(context.Background(), user.ID, "Obscure Film")
	if err != nil || status != models.StatusOK {
		t.Fatalf("AddByTitle failed: status=%s err=%v", status, err)
	}

	movie, err := db.GetMovieByIMDBID("tt9999999")
	if err != nil {
		t.Fatalf("Movie not inserted: %v", err)
	}
	if movie.Rating != 7.77 {
		t.Errorf("Expected sentinel rating 7.77, got %v", movie.Rating)
	}
	if movie.Notes == nil || *movie.Notes == "" {
		t.Error("Expected a disclaimer note on unparseable rating")
	}
}

func TestIngestionPosterFallback(t *testing.T) {
	db := newTestDB(t)
	metadata := newFakeMetadata()
	noPoster := info("Obscure Film", "tt9999999", "6.1")
	noPoster.Poster = "N/A"
	metadata.add(noPoster)
	library := NewLibraryController(db, metadata, testLogger())
	user := seedUser(t, db, "lena", "lena@lena.ru")

	status, err := library.AddByTitle(context.Background(), user.ID, "Obscure Film")
	if err != nil || status != models.StatusOK {
		t.Fatalf("AddByTitle failed: status=%s err=%v", status, err)
	}

	movie, err := db.GetMovieByIMDBID("tt9999999")
	if err != nil {
		t.Fatalf("Movie not inserted: %v", err)
	}
	if movie.Img != fallbackPoster {
		t.Errorf("Expected placeholder poster, got '%s'", movie.Img)
	}
	if movie.Notes != nil {
		t.Errorf("Parseable rating must not set notes, got '%s'", *movie.Notes)
	}
	if movie.Rating != 6.1 {
		t.Errorf("Expected rating 6.1, got %v", movie.Rating)
	}
}

func TestAddExisting(t *testing.T) {
	db := newTestDB(t)
	library := NewLibraryController(db, newFakeMetadata(), testLogger())
	userA := seedUser(t, db, "lena", "lena@lena.ru")
	userB := seedUser(t, db, "lena1", "lena1@lena.ru")
	movie := seedMovie(t, db, "Heat", "tt0113277")

	status, err := library.AddExisting(context.Background(), userA.ID, movie.ID)
	if err != nil || status != models.StatusOK {
		t.Fatalf("AddExisting failed: status=%s err=%v", status, err)
	}

	// Same user again: duplicate
	status, err = library.AddExisting(context.Background(), userA.ID, movie.ID)
	if err != nil {
		t.Fatalf("AddExisting failed: %v", err)
	}
	if status != models.StatusAlreadyAdded {
		t.Fatalf("Expected ALREADY_ADDED, got %s", status)
	}

	// A different user may still add it; duplicates are per (user, movie)
	status, err = library.AddExisting(context.Background(), userB.ID, movie.ID)
	if err != nil || status != models.StatusOK {
		t.Fatalf("AddExisting for second user failed: status=%s err=%v", status, err)
	}

	// Unknown movie id
	status, err = library.AddExisting(context.Background(), userA.ID, 424242)
	if err != nil {
		t.Fatalf("AddExisting failed: %v", err)
	}
	if status != models.StatusNotFound {
		t.Fatalf("Expected NOT_FOUND, got %s", status)
	}
}

func TestRemoveKeepsCatalogRow(t *testing.T) {
	db := newTestDB(t)
	library := NewLibraryController(db, newFakeMetadata(), testLogger())
	user := seedUser(t, db, "lena", "lena@lena.ru")
	movie := seedMovie(t, db, "Heat", "tt0113277")
	if err := db.CreateUserMovie(user.ID, movie.ID); err != nil {
		t.Fatalf("Failed to link movie: %v", err)
	}

	removed, err := library.Remove(user.ID, movie.ID)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !removed {
		t.Fatal("Expected removal to succeed")
	}

	if _, err := library.GetMovieByID(movie.ID); err != nil {
		t.Errorf("Catalog fetch after removal failed: %v", err)
	}

	removed, err = library.Remove(user.ID, movie.ID)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed {
		t.Error("Expected second removal to report false")
	}
}

func TestPurge(t *testing.T) {
	db := newTestDB(t)
	library := NewLibraryController(db, newFakeMetadata(), testLogger())
	movie := seedMovie(t, db, "Heat", "tt0113277")

	purged, err := library.Purge(movie.ID)
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if !purged {
		t.Fatal("Expected purge to succeed")
	}
	if _, err := library.GetMovieByID(movie.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after purge, got %v", err)
	}

	purged, err = library.Purge(movie.ID)
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if purged {
		t.Error("Expected second purge to report false")
	}
}

func TestListLibraryRandomPick(t *testing.T) {
	db := newTestDB(t)
	library := NewLibraryController(db, newFakeMetadata(), testLogger())
	seedMovie(t, db, "Heat", "tt0113277")

	movies, err := library.ListLibrary(context.Background(), 0, models.SortTitle)
	if err != nil {
		t.Fatalf("ListLibrary failed: %v", err)
	}
	if len(movies) != 1 {
		t.Fatalf("Expected exactly one random movie, got %d", len(movies))
	}
}

func TestUpdateEntry(t *testing.T) {
	db := newTestDB(t)
	library := NewLibraryController(db, newFakeMetadata(), testLogger())
	user := seedUser(t, db, "lena", "lena@lena.ru")
	movie := seedMovie(t, db, "Heat", "tt0113277")
	if err := db.CreateUserMovie(user.ID, movie.ID); err != nil {
		t.Fatalf("Failed to link movie: %v", err)
	}

	status, err := library.UpdateEntry(user.ID, movie.ID, 9.9, "classic")
	if err != nil || status != models.StatusOK {
		t.Fatalf("UpdateEntry failed: status=%s err=%v", status, err)
	}

	got, err := library.GetMovie(user.ID, movie.ID)
	if err != nil {
		t.Fatalf("GetMovie failed: %v", err)
	}
	if got.Rating != 9.9 {
		t.Errorf("Expected rating 9.9, got %v", got.Rating)
	}
	if got.Notes == nil || *got.Notes != "classic" {
		t.Errorf("Expected notes 'classic', got %v", got.Notes)
	}
}
