package importer

import (
	"testing"
	"time"

	"reviewhub/internal/httpapi/models"

	"github.com/stretchr/testify/assert"
)

func TestLoadOrder_ParentsBeforeChildren(t *testing.T) {
	pos := make(map[string]int, len(LoadOrder))
	for i, name := range LoadOrder {
		pos[name] = i
	}

	assert.Less(t, pos["users.csv"], pos["review.csv"])
	assert.Less(t, pos["titles.csv"], pos["genre_title.csv"])
	assert.Less(t, pos["titles.csv"], pos["review.csv"])
	assert.Less(t, pos["review.csv"], pos["comments.csv"])
}

func TestParseUserRow(t *testing.T) {
	cols := map[string]int{"id": 0, "username": 1, "email": 2, "role": 3, "bio": 4, "first_name": 5, "last_name": 6}
	rec := []string{"100", "capt_obvious", "capt@example.com", "moderator", "", "Ada", "Lovelace"}

	user, err := ParseUserRow(cols, rec)

	assert.NoError(t, err)
	assert.Equal(t, "capt_obvious", user.Username)
	assert.Equal(t, models.RoleModerator, user.Role)
	assert.Equal(t, "Ada", user.FirstName)
	assert.NotEmpty(t, user.ID)
}

func TestParseUserRow_DefaultRole(t *testing.T) {
	cols := map[string]int{"id": 0, "username": 1, "email": 2}
	rec := []string{"100", "plain", "plain@example.com"}

	user, err := ParseUserRow(cols, rec)

	assert.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestParseUserRow_UnknownRole(t *testing.T) {
	cols := map[string]int{"id": 0, "username": 1, "email": 2, "role": 3}
	rec := []string{"100", "odd", "odd@example.com", "wizard"}

	user, err := ParseUserRow(cols, rec)

	assert.Nil(t, user)
	assert.Error(t, err)
}

func TestParseTitleRow(t *testing.T) {
	cols := map[string]int{"id": 0, "name": 1, "year": 2, "category": 3}
	rec := []string{"7", "Heat", "1995", "2"}

	title, err := ParseTitleRow(cols, rec)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), title.ID)
	assert.Equal(t, 1995, title.Year)
	if assert.NotNil(t, title.CategoryID) {
		assert.Equal(t, int64(2), *title.CategoryID)
	}
}

func TestParseTitleRow_NoCategory(t *testing.T) {
	cols := map[string]int{"id": 0, "name": 1, "year": 2, "category": 3}
	rec := []string{"7", "Heat", "1995", ""}

	title, err := ParseTitleRow(cols, rec)

	assert.NoError(t, err)
	assert.Nil(t, title.CategoryID)
}

func TestParseReviewRow(t *testing.T) {
	cols := map[string]int{"id": 0, "title_id": 1, "text": 2, "author": 3, "score": 4, "pub_date": 5}
	rec := []string{"1", "7", "great movie", "100", "9", "2019-09-24T21:08:21.567Z"}
	userIDs := map[string]string{"100": "uuid-100"}

	rev, err := ParseReviewRow(cols, rec, userIDs)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), rev.TitleID)
	assert.Equal(t, "uuid-100", rev.AuthorID)
	assert.Equal(t, 9, rev.Score)
	assert.Equal(t, 2019, rev.PubDate.Year())
}

func TestParseReviewRow_UnknownAuthor(t *testing.T) {
	cols := map[string]int{"id": 0, "title_id": 1, "text": 2, "author": 3, "score": 4, "pub_date": 5}
	rec := []string{"1", "7", "great movie", "999", "9", "2019-09-24T21:08:21.567Z"}

	rev, err := ParseReviewRow(cols, rec, map[string]string{})

	assert.Nil(t, rev)
	assert.Error(t, err)
}

func TestParseCommentRow(t *testing.T) {
	cols := map[string]int{"id": 0, "review_id": 1, "text": 2, "author": 3, "pub_date": 4}
	rec := []string{"3", "1", "agreed", "100", "2019-09-25T10:00:00Z"}
	userIDs := map[string]string{"100": "uuid-100"}

	comment, err := ParseCommentRow(cols, rec, userIDs)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), comment.ReviewID)
	assert.Equal(t, "uuid-100", comment.AuthorID)
	assert.Equal(t, time.September, comment.PubDate.Month())
}

func TestParseTitleGenreRow(t *testing.T) {
	cols := map[string]int{"id": 0, "title_id": 1, "genre_id": 2}
	rec := []string{"1", "7", "2"}

	tg, err := ParseTitleGenreRow(cols, rec)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), tg.TitleID)
	assert.Equal(t, int64(2), tg.GenreID)
}

func TestIntField_BadValue(t *testing.T) {
	cols := map[string]int{"id": 0}

	_, err := intField(cols, []string{"abc"}, "id")

	assert.Error(t, err)
}
