package scheduler

import (
	"context"
	"fmt"
	"log"

	"horizon/internal/domain/aggregation"
	"horizon/internal/domain/user"
)

// SummaryRefreshJob implements the Job interface for re-priming one
// user's cached account summary from the aggregation provider.
type SummaryRefreshJob struct {
	userID      string
	aggregation *aggregation.Service
}

// NewSummaryRefreshJob creates a new summary refresh job for a user
func NewSummaryRefreshJob(userID string, aggregationService *aggregation.Service) *SummaryRefreshJob {
	return &SummaryRefreshJob{
		userID:      userID,
		aggregation: aggregationService,
	}
}

// Execute recomputes the user's summary, bypassing the cache
func (j *SummaryRefreshJob) Execute(ctx context.Context) error {
	log.Printf("Starting summary refresh for user %s", j.userID)

	summary, err := j.aggregation.RefreshSummary(ctx, j.userID)
	if err != nil {
		log.Printf("Summary refresh failed for user %s: %v", j.userID, err)
		return fmt.Errorf("refresh failed: %w", err)
	}

	log.Printf("Summary refresh for user %s completed: %d accounts, total balance %s",
		j.userID, summary.TotalBanks, summary.TotalCurrentBalance.String())

	return nil
}

// UserID returns the user ID associated with this job
func (j *SummaryRefreshJob) UserID() string {
	return j.userID
}

// Description returns a human-readable description of the job
func (j *SummaryRefreshJob) Description() string {
	return fmt.Sprintf("Summary refresh for user %s", j.userID)
}

// AllUsersJobProvider builds one SummaryRefreshJob per registered user.
// Wired as the scheduler's JobProvider.
func AllUsersJobProvider(users user.Repository, aggregationService *aggregation.Service) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		records, err := users.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}

		jobs := make([]Job, 0, len(records))
		for _, u := range records {
			jobs = append(jobs, NewSummaryRefreshJob(u.UserID, aggregationService))
		}
		return jobs, nil
	}
}
