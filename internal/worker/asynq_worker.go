package worker

import (
	"context"
	"encoding/json"

	"github.com/hatstore-next/internal/logger"
	"github.com/hatstore-next/internal/provider"
	"github.com/hatstore-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderNotificationEmail, c.handleOrderNotificationEmail)
}

func (c *Consumer) handleOrderNotificationEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_notification_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderNotificationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_notification_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_notification_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_notification_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_notification_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_order_notification_skip_email_service_nil", "order_id", order.ID, "order_no", order.OrderNo)
		return nil
	}
	if err := c.EmailService.SendOrderConfirmation(order); err != nil {
		// 通知是尽力而为：发送失败只记日志，不让任务重试轰炸收件箱
		logger.Warnw("worker_order_notification_send_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"receiver_email", order.Email,
			"error", err,
		)
		return nil
	}
	logger.Infow("worker_order_notification_sent", "order_id", order.ID, "order_no", order.OrderNo)
	return nil
}
