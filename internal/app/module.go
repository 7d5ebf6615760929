package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/gomonto/payments/internal/app/api/server"
	"github.com/gomonto/payments/internal/app/service/notifier"
	"github.com/gomonto/payments/internal/app/service/reconciler"
	"github.com/gomonto/payments/internal/app/service/statistics"
	"github.com/gomonto/payments/internal/app/service/webhook"
	"github.com/gomonto/payments/internal/app/service/webhooklog"
	"github.com/gomonto/payments/internal/platform/db"
	"github.com/gomonto/payments/pkg/config"
	"github.com/gomonto/payments/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	webhooklog.Module,
	notifier.Module,
	reconciler.Module,
	webhook.Module,
	statistics.Module,
)
