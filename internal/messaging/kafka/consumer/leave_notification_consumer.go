package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"hr-dashboard/internal/events"
	"hr-dashboard/internal/notification"
	"hr-dashboard/internal/shared/contextutil"

	"go.uber.org/zap"
)

// ConsumeLeaveLifecycle turns leave lifecycle events into notifications
// until ctx is cancelled.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader MessageReader,
	notifier notification.Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.LeaveLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		evCtx := contextutil.WithRequestID(ctx, event.RequestID)
		evCtx = contextutil.WithLogger(evCtx, log.With(
			zap.String("request_id", event.RequestID),
			zap.String("leave_id", event.LeaveID),
		))
		HandleLeaveEvent(evCtx, event, notifier)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
			continue
		}

		log.Debug("leave lifecycle event handled",
			zap.String("event_type", event.EventType),
			zap.String("leave_id", event.LeaveID),
		)
	}
}

// HandleLeaveEvent notifies whoever acts next on the request: the manager
// when it is submitted or withdrawn, the employee when it is decided.
func HandleLeaveEvent(ctx context.Context, event events.LeaveLifecycleEvent, notifier notification.Notifier) {
	switch event.EventType {
	case events.LeaveSubmitted:
		notifier.Notify(ctx, notification.KindSuccess, event.EmployeeID, "Leave request submitted successfully")
		if event.ManagerID != "" {
			notifier.Notify(ctx, notification.KindSuccess, event.ManagerID,
				fmt.Sprintf("%s requested %d day(s) of %s leave (%s to %s), request %s awaits your review",
					displayName(event), event.DaysRequested, event.LeaveType, event.StartDate, event.EndDate, event.RequestNumber))
		}
	case events.LeaveApproved:
		notifier.Notify(ctx, notification.KindSuccess, event.EmployeeID,
			withComments(fmt.Sprintf("Your leave request %s was approved", event.RequestNumber), event.Comments))
	case events.LeaveRejected:
		notifier.Notify(ctx, notification.KindError, event.EmployeeID,
			withComments(fmt.Sprintf("Your leave request %s was rejected", event.RequestNumber), event.Comments))
	case events.LeaveCancelled:
		if event.ManagerID != "" {
			notifier.Notify(ctx, notification.KindSuccess, event.ManagerID,
				fmt.Sprintf("Leave request %s was cancelled by %s", event.RequestNumber, displayName(event)))
		}
	default:
		contextutil.GetLogger(ctx, nil).Warn("unknown leave event type", zap.String("event_type", event.EventType))
	}
}

func displayName(event events.LeaveLifecycleEvent) string {
	if event.EmployeeName != "" {
		return event.EmployeeName
	}
	return "An employee"
}

func withComments(msg, comments string) string {
	if comments == "" {
		return msg
	}
	return msg + ": " + comments
}
