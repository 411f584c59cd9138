package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Student StudentRepository
	Score   ScoreRepository
	User    UserRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Student: NewStudentRepo(db),
		Score:   NewScoreRepo(db),
		User:    NewUserRepo(db),
	}
}
