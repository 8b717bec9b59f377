// Package importer loads seed data from CSV files. Files are processed in
// an explicit dependency order so foreign keys always resolve: users before
// reviews, titles before the genre join rows, reviews before comments.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"reviewhub/internal/httpapi/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoadOrder is the fixed processing order. Each file depends only on files
// before it.
var LoadOrder = []string{
	"users.csv",
	"category.csv",
	"genre.csv",
	"titles.csv",
	"genre_title.csv",
	"review.csv",
	"comments.csv",
}

type Importer struct {
	db     *gorm.DB
	dir    string
	logger *slog.Logger

	// CSV user ids are numeric; the schema keys users by UUID. Populated
	// by the users step, consumed by reviews and comments.
	userIDs map[string]string
}

func New(db *gorm.DB, dir string, logger *slog.Logger) *Importer {
	return &Importer{
		db:      db,
		dir:     dir,
		logger:  logger,
		userIDs: make(map[string]string),
	}
}

// Run imports every file in LoadOrder, one transaction per file. Missing
// files are skipped so partial datasets load.
func (i *Importer) Run(ctx context.Context) error {
	for _, filename := range LoadOrder {
		path := filepath.Join(i.dir, filename)
		records, cols, err := readCSV(path)
		if err != nil {
			if os.IsNotExist(err) {
				i.logger.Warn("seed file missing, skipping", "file", filename)
				continue
			}
			return fmt.Errorf("read %s: %w", filename, err)
		}

		err = i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return i.importFile(tx, filename, cols, records)
		})
		if err != nil {
			return fmt.Errorf("import %s: %w", filename, err)
		}
		i.logger.Info("imported seed file", "file", filename, "rows", len(records))
	}
	return nil
}

func (i *Importer) importFile(tx *gorm.DB, filename string, cols map[string]int, records [][]string) error {
	for _, rec := range records {
		var err error
		switch filename {
		case "users.csv":
			err = i.importUser(tx, cols, rec)
		case "category.csv":
			err = importCategory(tx, cols, rec)
		case "genre.csv":
			err = importGenre(tx, cols, rec)
		case "titles.csv":
			err = importTitle(tx, cols, rec)
		case "genre_title.csv":
			err = importTitleGenre(tx, cols, rec)
		case "review.csv":
			err = i.importReview(tx, cols, rec)
		case "comments.csv":
			err = i.importComment(tx, cols, rec)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (i *Importer) importUser(tx *gorm.DB, cols map[string]int, rec []string) error {
	csvID, err := field(cols, rec, "id")
	if err != nil {
		return err
	}
	user, err := ParseUserRow(cols, rec)
	if err != nil {
		return err
	}
	if err := tx.Create(user).Error; err != nil {
		return err
	}
	i.userIDs[csvID] = user.ID
	return nil
}

func importCategory(tx *gorm.DB, cols map[string]int, rec []string) error {
	c, err := ParseCategoryRow(cols, rec)
	if err != nil {
		return err
	}
	return tx.Create(c).Error
}

func importGenre(tx *gorm.DB, cols map[string]int, rec []string) error {
	g, err := ParseGenreRow(cols, rec)
	if err != nil {
		return err
	}
	return tx.Create(g).Error
}

func importTitle(tx *gorm.DB, cols map[string]int, rec []string) error {
	t, err := ParseTitleRow(cols, rec)
	if err != nil {
		return err
	}
	return tx.Create(t).Error
}

func importTitleGenre(tx *gorm.DB, cols map[string]int, rec []string) error {
	tg, err := ParseTitleGenreRow(cols, rec)
	if err != nil {
		return err
	}
	return tx.Create(tg).Error
}

func (i *Importer) importReview(tx *gorm.DB, cols map[string]int, rec []string) error {
	rev, err := ParseReviewRow(cols, rec, i.userIDs)
	if err != nil {
		return err
	}
	return tx.Create(rev).Error
}

func (i *Importer) importComment(tx *gorm.DB, cols map[string]int, rec []string) error {
	c, err := ParseCommentRow(cols, rec, i.userIDs)
	if err != nil {
		return err
	}
	return tx.Create(c).Error
}

// ParseUserRow maps a users.csv record to a User. The numeric CSV id is not
// kept; a fresh UUID becomes the primary key.
func ParseUserRow(cols map[string]int, rec []string) (*models.User, error) {
	username, err := field(cols, rec, "username")
	if err != nil {
		return nil, err
	}
	email, err := field(cols, rec, "email")
	if err != nil {
		return nil, err
	}
	role := optionalField(cols, rec, "role")
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("user %s: unknown role %q", username, role)
	}
	return &models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     email,
		Role:      role,
		Bio:       optionalField(cols, rec, "bio"),
		FirstName: optionalField(cols, rec, "first_name"),
		LastName:  optionalField(cols, rec, "last_name"),
	}, nil
}

func ParseCategoryRow(cols map[string]int, rec []string) (*models.Category, error) {
	id, err := intField(cols, rec, "id")
	if err != nil {
		return nil, err
	}
	name, err := field(cols, rec, "name")
	if err != nil {
		return nil, err
	}
	slug, err := field(cols, rec, "slug")
	if err != nil {
		return nil, err
	}
	return &models.Category{ID: id, Name: name, Slug: slug}, nil
}

func ParseGenreRow(cols map[string]int, rec []string) (*models.Genre, error) {
	id, err := intField(cols, rec, "id")
	if err != nil {
		return nil, err
	}
	name, err := field(cols, rec, "name")
	if err != nil {
		return nil, err
	}
	slug, err := field(cols, rec, "slug")
	if err != nil {
		return nil, err
	}
	return &models.Genre{ID: id, Name: name, Slug: slug}, nil
}

func ParseTitleRow(cols map[string]int, rec []string) (*models.Title, error) {
	id, err := intField(cols, rec, "id")
	if err != nil {
		return nil, err
	}
	name, err := field(cols, rec, "name")
	if err != nil {
		return nil, err
	}
	year, err := intField(cols, rec, "year")
	if err != nil {
		return nil, err
	}
	t := &models.Title{ID: id, Name: name, Year: int(year)}
	if raw := optionalField(cols, rec, "category"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("title %d: bad category id %q", id, raw)
		}
		t.CategoryID = &categoryID
	}
	if desc := optionalField(cols, rec, "description"); desc != "" {
		t.Description = &desc
	}
	return t, nil
}

func ParseTitleGenreRow(cols map[string]int, rec []string) (*models.TitleGenre, error) {
	id, err := intField(cols, rec, "id")
	if err != nil {
		return nil, err
	}
	titleID, err := intField(cols, rec, "title_id")
	if err != nil {
		return nil, err
	}
	genreID, err := intField(cols, rec, "genre_id")
	if err != nil {
		return nil, err
	}
	return &models.TitleGenre{ID: id, TitleID: titleID, GenreID: genreID}, nil
}

func ParseReviewRow(cols map[string]int, rec []string, userIDs map[string]string) (*models.Review, error) {
	id, err := intField(cols, rec, "id")
	if err != nil {
		return nil, err
	}
	titleID, err := intField(cols, rec, "title_id")
	if err != nil {
		return nil, err
	}
	text, err := field(cols, rec, "text")
	if err != nil {
		return nil, err
	}
	author, err := field(cols, rec, "author")
	if err != nil {
		return nil, err
	}
	authorID, ok := userIDs[author]
	if !ok {
		return nil, fmt.Errorf("review %d: unknown author id %s", id, author)
	}
	score, err := intField(cols, rec, "score")
	if err != nil {
		return nil, err
	}
	pubDate, err := timeField(cols, rec, "pub_date")
	if err != nil {
		return nil, err
	}
	return &models.Review{
		ID:       id,
		TitleID:  titleID,
		AuthorID: authorID,
		Text:     text,
		Score:    int(score),
		PubDate:  pubDate,
	}, nil
}

func ParseCommentRow(cols map[string]int, rec []string, userIDs map[string]string) (*models.Comment, error) {
	id, err := intField(cols, rec, "id")
	if err != nil {
		return nil, err
	}
	reviewID, err := intField(cols, rec, "review_id")
	if err != nil {
		return nil, err
	}
	text, err := field(cols, rec, "text")
	if err != nil {
		return nil, err
	}
	author, err := field(cols, rec, "author")
	if err != nil {
		return nil, err
	}
	authorID, ok := userIDs[author]
	if !ok {
		return nil, fmt.Errorf("comment %d: unknown author id %s", id, author)
	}
	pubDate, err := timeField(cols, rec, "pub_date")
	if err != nil {
		return nil, err
	}
	return &models.Comment{
		ID:       id,
		ReviewID: reviewID,
		AuthorID: authorID,
		Text:     text,
		PubDate:  pubDate,
	}, nil
}

// readCSV returns the data records and a column-name index built from the
// header row.
func readCSV(path string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("empty file")
	}

	cols := make(map[string]int, len(rows[0]))
	for idx, name := range rows[0] {
		cols[name] = idx
	}
	return rows[1:], cols, nil
}

func field(cols map[string]int, rec []string, name string) (string, error) {
	idx, ok := cols[name]
	if !ok || idx >= len(rec) {
		return "", fmt.Errorf("missing column %q", name)
	}
	return rec[idx], nil
}

func optionalField(cols map[string]int, rec []string, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

func intField(cols map[string]int, rec []string, name string) (int64, error) {
	raw, err := field(cols, rec, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: bad integer %q", name, raw)
	}
	return v, nil
}

func timeField(cols map[string]int, rec []string, name string) (time.Time, error) {
	raw, err := field(cols, rec, name)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("column %q: bad timestamp %q", name, raw)
	}
	return t, nil
}
