package queue

import (
	"encoding/json"

	"github.com/hatstore-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderNotificationEmail 下单通知邮件任务
	TaskOrderNotificationEmail = constants.TaskOrderNotificationEmail
)

// OrderNotificationEmailPayload 下单通知邮件任务载荷
type OrderNotificationEmailPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderNotificationEmailTask 创建下单通知邮件任务
func NewOrderNotificationEmailTask(payload OrderNotificationEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderNotificationEmail, body), nil
}
