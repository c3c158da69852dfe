package model

import "time"

// FavoriteProject records that a user liked a project
type FavoriteProject struct {
	UserID      uint      `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	ProjectID   uint      `json:"project_id" gorm:"primaryKey;autoIncrement:false"`
	FavoritedAt time.Time `json:"favorited_at" gorm:"autoCreateTime"`

	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}

func (FavoriteProject) TableName() string {
	return "favorite_projects"
}
