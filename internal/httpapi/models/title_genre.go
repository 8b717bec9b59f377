package models

// explicit join model so the seed importer can insert rows directly
type TitleGenre struct {
	ID      int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	TitleID int64 `json:"title_id" gorm:"index;not null"`
	GenreID int64 `json:"genre_id" gorm:"index;not null"`
}

func (TitleGenre) TableName() string {
	return "title_genres"
}
