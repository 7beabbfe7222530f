package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
)

// A failing history append must roll back the task insert.
func TestCreate_RollsBackWhenHistoryFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	service := NewTaskService(repository.NewStore(db), auth.TaskPolicy{})

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `tasks`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `task_history`").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err = service.Create(context.Background(), &auth.Actor{ID: 1, Role: models.RoleMember}, CreateTaskInput{Title: "Ship v1"})

	require.Error(t, err)
	assert.Equal(t, apierrors.KindInternal, apierrors.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
