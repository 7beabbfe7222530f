package services

import (
	"context"
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
)

// DashboardService aggregates task statistics on every call.
type DashboardService struct {
	store         repository.Store
	defaultRecent int
}

func NewDashboardService(store repository.Store, defaultRecent int) *DashboardService {
	if defaultRecent <= 0 {
		defaultRecent = constants.DefaultRecentTasks
	}
	return &DashboardService{store: store, defaultRecent: defaultRecent}
}

// AssigneeCount is the load of one assignee.
type AssigneeCount struct {
	UserID   uint64
	Username string
	FullName *string
	Count    int64
}

// Dashboard is a point-in-time summary of all tasks.
type Dashboard struct {
	Total          int64
	CompletionRate int
	ByStatus       map[models.TaskStatus]int64
	ByAssignee     []AssigneeCount
	RecentTasks    []models.Task
}

// Dashboard reads status counts, assignee load and recent tasks in one
// snapshot. recent <= 0 selects the configured default.
func (s *DashboardService) Dashboard(ctx context.Context, recent int) (*Dashboard, error) {
	if recent <= 0 {
		recent = s.defaultRecent
	}
	recent = min(recent, constants.MaxRecentTasks)

	var (
		byStatus map[models.TaskStatus]int64
		loads    []repository.AssigneeLoad
		tasks    []models.Task
	)
	err := s.store.ReadSnapshot(ctx, func(tx repository.Store) error {
		var err error
		if byStatus, err = tx.Tasks().CountByStatus(ctx); err != nil {
			return err
		}
		if loads, err = tx.Assignees().LoadByUser(ctx); err != nil {
			return err
		}
		tasks, err = tx.Tasks().Recent(ctx, recent)
		return err
	})
	if err != nil {
		return nil, wrapInternal("failed to build dashboard", err)
	}

	d := BuildDashboard(byStatus, loads, tasks)
	return &d, nil
}

// BuildDashboard derives the dashboard from raw counts.
func BuildDashboard(byStatus map[models.TaskStatus]int64, loads []repository.AssigneeLoad, recent []models.Task) Dashboard {
	d := Dashboard{
		ByStatus:    make(map[models.TaskStatus]int64, len(models.TaskStatuses)),
		RecentTasks: recent,
	}
	for _, status := range models.TaskStatuses {
		d.ByStatus[status] = byStatus[status]
		d.Total += byStatus[status]
	}
	if d.Total > 0 {
		completed := float64(d.ByStatus[models.TaskStatusCompleted])
		d.CompletionRate = int(math.Round(100 * completed / float64(d.Total)))
	}

	d.ByAssignee = lo.FilterMap(loads, func(l repository.AssigneeLoad, _ int) (AssigneeCount, bool) {
		return AssigneeCount{
			UserID:   l.UserID,
			Username: l.Username,
			FullName: l.FullName,
			Count:    l.TaskCount,
		}, l.TaskCount > 0
	})
	slices.SortStableFunc(d.ByAssignee, func(a, b AssigneeCount) int {
		if a.Count != b.Count {
			if a.Count > b.Count {
				return -1
			}
			return 1
		}
		if a.UserID < b.UserID {
			return -1
		}
		if a.UserID > b.UserID {
			return 1
		}
		return 0
	})
	if d.RecentTasks == nil {
		d.RecentTasks = []models.Task{}
	}
	return d
}
