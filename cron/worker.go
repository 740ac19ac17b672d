package cron

import (
	"context"
	"encoding/json"
	"time"

	"pawsit/config"
	bookingRepo "pawsit/database/repository/booking"
	"pawsit/models"
	"pawsit/services/notification"
	"pawsit/services/tasks"
	"pawsit/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const scanInterval = 5 * time.Minute

// InitReminderWorker starts the asynq worker and the periodic booking
// scans (upcoming-booking reminders, post-completion review requests)
// in the background.
func InitReminderWorker(repo bookingRepo.BookingRepository, notifSvc notification.NotificationService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeReminderSend, handleReminderTask(notifSvc))

	logger := utils.GetLogger()

	go func() {
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("reminder worker failed to start",
					zap.Int("attempt", attempt), zap.Error(err))
				if attempt == maxAttempts {
					logger.Fatal("reminder worker gave up after max attempts")
				}
				time.Sleep(time.Duration(attempt*2) * time.Second)
				continue
			}
			break
		}
	}()

	client := asynq.NewClient(redisOpts)
	go runScans(repo, client, logger)
}

// runScans periodically finds bookings due a reminder or a review
// request and enqueues a task for each. The sent-at marker is written
// before enqueueing, so a crashed scan drops a reminder rather than
// duplicating it.
func runScans(repo bookingRepo.BookingRepository, client *asynq.Client, logger *zap.Logger) {
	ticker := time.NewTicker(scanInterval)
	defer ticker.Stop()

	for {
		now := time.Now()
		scanReminders(repo, client, logger, now)
		scanReviewRequests(repo, client, logger, now)
		<-ticker.C
	}
}

func scanReminders(repo bookingRepo.BookingRepository, client *asynq.Client, logger *zap.Logger, now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lead := time.Duration(config.AppConfig.ReminderLeadHours) * time.Hour
	due, err := repo.FindDueReminders(ctx, now, lead)
	if err != nil {
		logger.Error("reminder scan failed", zap.Error(err))
		return
	}
	for i := range due {
		b := &due[i]
		if err := repo.MarkReminderSent(ctx, b.ID, now); err != nil {
			logger.Error("failed to mark reminder sent",
				zap.String("bookingID", b.ID), zap.Error(err))
			continue
		}
		for _, p := range reminderPayloads(b) {
			enqueue(client, logger, p, now)
		}
	}
}

func scanReviewRequests(repo bookingRepo.BookingRepository, client *asynq.Client, logger *zap.Logger, now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	delay := time.Duration(config.AppConfig.ReviewRequestDelayHours) * time.Hour
	due, err := repo.FindDueReviewRequests(ctx, now, delay)
	if err != nil {
		logger.Error("review-request scan failed", zap.Error(err))
		return
	}
	for i := range due {
		b := &due[i]
		if err := repo.MarkReviewRequestSent(ctx, b.ID, now); err != nil {
			logger.Error("failed to mark review request sent",
				zap.String("bookingID", b.ID), zap.Error(err))
			continue
		}
		enqueue(client, logger, models.ReminderPayload{
			Kind:      "review_request",
			BookingID: b.ID,
			Target:    "owner",
			UserID:    b.OwnerID,
			Title:     "How did it go?",
			Body:      "Leave a review for your recent booking.",
		}, now)
	}
}

// reminderPayloads builds the owner and sitter reminders for an
// upcoming booking.
func reminderPayloads(b *models.Booking) []models.ReminderPayload {
	body := "Your " + string(b.ServiceType) + " booking starts on " + b.StartDate + "."
	return []models.ReminderPayload{
		{Kind: "reminder", BookingID: b.ID, Target: "owner", UserID: b.OwnerID, Title: "Upcoming booking", Body: body},
		{Kind: "reminder", BookingID: b.ID, Target: "sitter", UserID: b.SitterID, Title: "Upcoming booking", Body: body},
	}
}

func enqueue(client *asynq.Client, logger *zap.Logger, p models.ReminderPayload, fireAt time.Time) {
	task, opts, err := tasks.NewReminderTask(p, fireAt)
	if err != nil {
		logger.Error("failed to build reminder task",
			zap.String("bookingID", p.BookingID), zap.Error(err))
		return
	}
	if _, err := client.Enqueue(task, opts...); err != nil {
		logger.Error("failed to enqueue reminder task",
			zap.String("bookingID", p.BookingID), zap.Error(err))
	}
}

func handleReminderTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return err
		}

		key := notification.KeyBookingReminder
		if p.Kind == "review_request" {
			key = notification.KeyReviewRequest
		}
		result := notifSvc.Notify(ctx, p.UserID, key, p.BookingID, map[string]string{
			"title": p.Title,
			"body":  p.Body,
		})
		if result == models.DispatchFailed {
			logger.Warn("reminder delivery failed",
				zap.String("bookingID", p.BookingID),
				zap.String("userID", p.UserID))
		}
		return nil
	}
}
