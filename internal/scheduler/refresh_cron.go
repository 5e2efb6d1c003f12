package cron

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Yerlan2901/Progress_Engine/internal/jobs"
)

// StartRefreshCron schedules the nightly snapshot refresh pass. The
// spec string comes from configuration (default 03:00 daily).
func StartRefreshCron(refresher *jobs.SnapshotRefresher, spec string) *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc(spec, func() {
		if err := refresher.RunRefresh(context.Background()); err != nil {
			logrus.WithError(err).Error("Snapshot refresh pass failed")
		}
	}); err != nil {
		logrus.WithError(err).WithField("spec", spec).Error("Invalid refresh cron spec")
		return c
	}

	c.Start()
	logrus.WithField("spec", spec).Info("Snapshot refresh cron started")
	return c
}
