package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"sneaker_store_echo/internal/models"
)

// BuildScheduledTask turns typed args into the JSON map stored on the task.
func BuildScheduledTask(taskName string, args interface{}, due time.Time, recurringInterval *string, taskType models.ScheduledTaskType, maxAttempt int) (*models.ScheduledTask, error) {
	var mapArgs map[string]interface{}
	if args != nil {
		argsBytes, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("marshal args: %w", err)
		}
		if err := json.Unmarshal(argsBytes, &mapArgs); err != nil {
			return nil, fmt.Errorf("args must encode to a JSON object: %w", err)
		}
	}
	if taskType == "" {
		taskType = models.ScheduledTaskTypeOneTime
	}
	if taskType == models.ScheduledTaskTypeRecurring && (recurringInterval == nil || *recurringInterval == "") {
		return nil, fmt.Errorf("recurring task %q needs a recurrence rule", taskName)
	}

	return &models.ScheduledTask{
		TaskName:          taskName,
		Arguments:         mapArgs,
		Due:               due,
		RecurringInterval: recurringInterval,
		Status:            models.ScheduledTaskStatusActive,
		TaskType:          taskType,
		MaxAttempt:        maxAttempt,
	}, nil
}
