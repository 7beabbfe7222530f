package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// GormStore is a GORM implementation of Store
type GormStore struct {
	db *gorm.DB
}

// NewStore creates a new Store
func NewStore(db *gorm.DB) Store {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserRepository {
	return NewUserRepository(s.db)
}

func (s *GormStore) Tasks() TaskRepository {
	return NewTaskRepository(s.db)
}

func (s *GormStore) Assignees() AssigneeRepository {
	return NewAssigneeRepository(s.db)
}

func (s *GormStore) Comments() CommentRepository {
	return NewCommentRepository(s.db)
}

func (s *GormStore) History() HistoryRepository {
	return NewHistoryRepository(s.db)
}

func (s *GormStore) WithinTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) ReadSnapshot(ctx context.Context, fn func(tx Store) error) error {
	var opts []*sql.TxOptions
	if s.db.Dialector.Name() != "sqlite" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	}, opts...)
}
