// Package logger builds the service's *slog.Logger.
//
// New applies functional options (format, level, output, static attributes)
// and wraps the chosen slog handler in LogHandlerDecorator, which runs every
// registered ContextExtractor on each record. Extractors are how request
// scoped values such as the request id or the resolved account id reach the
// log line without being passed by hand.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "utmcrafter"),
//		logger.WithContextExtractors(requestid.LogExtractor(), tenant.LogExtractor()),
//	)
//	log.InfoContext(ctx, "link created", logger.LinkID(link.ID), logger.CampaignID(link.CampaignID))
//
// Attribute helpers in attr.go keep key names consistent across packages.
// Helpers taking an id return an empty slog.Attr for nil, which slog drops.
package logger
