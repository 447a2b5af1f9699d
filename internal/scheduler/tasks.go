package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskAppointmentReminder = "jobs.appointment_reminder"

// ReminderLead is how long before the appointment the reminder goes out.
const ReminderLead = 24 * time.Hour

type AppointmentReminderPayload struct {
	JobID string `json:"jobId"`
}

// ReminderTime returns when to send the reminder for an appointment, and
// false when that moment has already passed.
func ReminderTime(appointment, now time.Time) (time.Time, bool) {
	runAt := appointment.Add(-ReminderLead)
	if !runAt.After(now) {
		return time.Time{}, false
	}
	return runAt, true
}

func NewAppointmentReminderTask(payload AppointmentReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAppointmentReminder, data, asynq.MaxRetry(5)), nil
}

func ParseAppointmentReminderPayload(task *asynq.Task) (AppointmentReminderPayload, error) {
	var payload AppointmentReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AppointmentReminderPayload{}, err
	}
	return payload, nil
}
