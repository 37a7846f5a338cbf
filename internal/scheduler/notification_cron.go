package scheduler

import (
	"context"

	"github.com/adilzhan-s/lostfound/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartNotificationCronJobs runs periodic notification maintenance: inbox
// entries past their TTL are purged hourly.
func StartNotificationCronJobs(notificationService *services.NotificationService) *cron.Cron {
	c := cron.New()

	c.AddFunc("@hourly", func() {
		if err := notificationService.DeleteExpiredNotifications(context.Background()); err != nil {
			logrus.WithError(err).Error("DeleteExpiredNotifications failed")
		}
	})

	c.Start()
	return c
}
